package model

import (
	"time"

	"github.com/meetly/meetly/engine/core"
)

// Booking reserves the half-open interval [StartTime, EndTime) of a room
// for its owning user. For any one room, committed bookings never overlap;
// touching endpoints are not an overlap.
type Booking struct {
	ID        core.ID   `db:"id"         json:"id"`
	RoomID    core.ID   `db:"room_id"    json:"room_id"`
	UserID    core.ID   `db:"user_id"    json:"user_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time"   json:"end_time"`
	Notes     string    `db:"notes"      json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Overlaps reports whether the booking's interval intersects [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
