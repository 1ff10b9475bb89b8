package uc

import (
	"context"
	"time"

	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/core"
)

// Filter is the validated query shape produced by ListBookings from raw
// request parameters. Nil fields mean "not filtered".
type Filter struct {
	UserID  *core.ID
	RoomID  *core.ID
	Start   *time.Time
	StartOp string
	End     *time.Time
	EndOp   string
	Limit   *int
}

// Repository defines all data access operations for the booking domain
type Repository interface {
	GetRoom(ctx context.Context, id core.ID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// IsAvailable reports whether no booking for the room overlaps the
	// half-open interval [start, end). excludeBookingID, when non-zero,
	// ignores that booking in the check.
	IsAvailable(ctx context.Context, roomID core.ID, start, end time.Time, excludeBookingID core.ID) (bool, error)

	// CreateBooking atomically re-checks availability and inserts the row
	// in one transaction. Returns ErrOverlap when the slot is taken and
	// ErrSerialization when the store asks for a retry.
	CreateBooking(ctx context.Context, booking *model.Booking) error

	GetBooking(ctx context.Context, id core.ID) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id core.ID) error
	ListBookings(ctx context.Context, filter Filter) ([]*model.Booking, error)
}
