package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// DeleteBooking use case for removing a booking. Only the owner may delete;
// an unknown id is reported as not found before any ownership check runs.
type DeleteBooking struct {
	repo      Repository
	userID    core.ID
	bookingID core.ID
}

// NewDeleteBooking creates a new delete booking use case
func NewDeleteBooking(repo Repository, userID, bookingID core.ID) *DeleteBooking {
	return &DeleteBooking{
		repo:      repo,
		userID:    userID,
		bookingID: bookingID,
	}
}

// Execute deletes the booking after verifying ownership
func (uc *DeleteBooking) Execute(ctx context.Context) error {
	booking, err := uc.repo.GetBooking(ctx, uc.bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %s", core.ErrNotFound, uc.bookingID)
		}
		return fmt.Errorf("%w: retrieving booking: %v", core.ErrUnavailable, err)
	}
	if booking.UserID != uc.userID {
		return fmt.Errorf("%w: booking %s", core.ErrForbidden, uc.bookingID)
	}
	if err := uc.repo.DeleteBooking(ctx, uc.bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %s", core.ErrNotFound, uc.bookingID)
		}
		return fmt.Errorf("%w: deleting booking: %v", core.ErrUnavailable, err)
	}
	logger.FromContext(ctx).Info("booking deleted",
		"booking_id", uc.bookingID, "user_id", uc.userID)
	return nil
}
