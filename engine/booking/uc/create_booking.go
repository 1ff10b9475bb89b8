package uc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
	"github.com/sethvargo/go-retry"
)

const createMaxRetries = 3

// CreateBooking use case for reserving a room interval. The availability
// check and the insert are atomic with respect to concurrent creators of
// the same room; of two conflicting writers, the first committer wins.
type CreateBooking struct {
	repo   Repository
	userID core.ID
	roomID core.ID
	start  time.Time
	end    time.Time
	notes  string
}

// NewCreateBooking creates a new create booking use case
func NewCreateBooking(repo Repository, userID, roomID core.ID, start, end time.Time, notes string) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		userID: userID,
		roomID: roomID,
		start:  start,
		end:    end,
		notes:  notes,
	}
}

// Execute validates the request and inserts the booking. A conflicting
// interval yields core.ErrSlotTaken naming the room and window.
func (uc *CreateBooking) Execute(ctx context.Context) (*model.Booking, error) {
	log := logger.FromContext(ctx)
	if uc.roomID.IsZero() {
		return nil, core.NewInvalidInput("room_id", "must not be empty")
	}
	if uc.start.IsZero() || uc.end.IsZero() {
		return nil, core.NewInvalidInput("start_time", "start and end times are required")
	}
	if !uc.start.Before(uc.end) {
		return nil, core.NewInvalidInput("end_time", "must be after start_time")
	}

	if _, err := uc.repo.GetRoom(ctx, uc.roomID); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room %s", core.ErrNotFound, uc.roomID)
		}
		return nil, fmt.Errorf("%w: loading room: %v", core.ErrUnavailable, err)
	}

	id, err := core.NewID()
	if err != nil {
		return nil, err
	}
	booking := &model.Booking{
		ID:        id,
		RoomID:    uc.roomID,
		UserID:    uc.userID,
		StartTime: uc.start,
		EndTime:   uc.end,
		Notes:     uc.notes,
	}

	// Serialization aborts are transient; the conflict outcome is not.
	backoff := retry.WithMaxRetries(createMaxRetries, retry.NewFibonacci(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		createErr := uc.repo.CreateBooking(ctx, booking)
		if errors.Is(createErr, ErrSerialization) {
			return retry.RetryableError(createErr)
		}
		return createErr
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) || errors.Is(err, ErrSerialization) {
			return nil, &core.SlotTakenError{RoomID: uc.roomID, Start: uc.start, End: uc.end}
		}
		log.Error("failed to create booking", "error", err, "room_id", uc.roomID)
		return nil, fmt.Errorf("%w: creating booking: %v", core.ErrUnavailable, err)
	}

	log.Info("booking created", "booking_id", booking.ID,
		"room_id", uc.roomID, "user_id", uc.userID)
	return booking, nil
}
