package model

import (
	"time"

	"github.com/meetly/meetly/engine/core"
)

// Room is a bookable physical room. Rooms are created by migration seed
// and are read-only for the service.
type Room struct {
	ID        core.ID   `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Capacity  int       `db:"capacity"   json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
