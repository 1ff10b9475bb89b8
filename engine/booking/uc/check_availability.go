package uc

import (
	"context"
	"fmt"
	"time"

	"github.com/meetly/meetly/engine/core"
)

// CheckAvailability use case for the read-only availability probe. It does
// not verify that the room exists: a nonexistent room trivially has no
// conflicting bookings.
type CheckAvailability struct {
	repo             Repository
	roomID           core.ID
	start            time.Time
	end              time.Time
	excludeBookingID core.ID
}

// NewCheckAvailability creates a new check availability use case.
// excludeBookingID may be zero; when set, that booking is ignored so a
// reschedule can re-check its own window.
func NewCheckAvailability(repo Repository, roomID core.ID, start, end time.Time, excludeBookingID core.ID) *CheckAvailability {
	return &CheckAvailability{
		repo:             repo,
		roomID:           roomID,
		start:            start,
		end:              end,
		excludeBookingID: excludeBookingID,
	}
}

// Execute reports whether [start, end) is free for the room
func (uc *CheckAvailability) Execute(ctx context.Context) (bool, error) {
	if uc.roomID.IsZero() {
		return false, core.NewInvalidInput("room_id", "must not be empty")
	}
	if uc.start.IsZero() || uc.end.IsZero() {
		return false, core.NewInvalidInput("start_time", "start and end times are required")
	}
	if !uc.start.Before(uc.end) {
		return false, core.NewInvalidInput("end_time", "must be after start_time")
	}
	available, err := uc.repo.IsAvailable(ctx, uc.roomID, uc.start, uc.end, uc.excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("%w: checking availability: %v", core.ErrUnavailable, err)
	}
	return available, nil
}
