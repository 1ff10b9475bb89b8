package model

import (
	"time"

	"github.com/meetly/meetly/engine/core"
)

// User represents an account created on first OAuth login. ExternalID is
// the identity-provider subject and is the upsert key; SessionToken is an
// opaque secret rotated on every successful login.
type User struct {
	ID           core.ID   `db:"id"            json:"id"`
	ExternalID   string    `db:"external_id"   json:"-"`
	Email        string    `db:"email"         json:"email"`
	Name         string    `db:"name"          json:"name"`
	SessionToken string    `db:"session_token" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}
