package model

import (
	"time"

	"github.com/meetly/meetly/engine/core"
)

const (
	// KeyLength is the length of the generated API key secret in bytes
	// before hex encoding (32 bytes = 64 hex characters).
	KeyLength = 32
	// KeyPrefixLength is the number of leading hex characters retained in
	// the clear for display purposes.
	KeyPrefixLength = 8
)

// APIKey represents a long-lived bearer credential owned by a user. Only a
// one-way hash of the secret is stored; the plaintext is shown exactly once
// at creation time.
type APIKey struct {
	ID         core.ID    `db:"id"           json:"id"`
	UserID     core.ID    `db:"user_id"      json:"-"`
	KeyHash    string     `db:"key_hash"     json:"-"`
	KeyPrefix  string     `db:"key_prefix"   json:"key_prefix"`
	Name       string     `db:"name"         json:"name"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at"   json:"created_at"`
}
