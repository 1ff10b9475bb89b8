// Package oauth defines the boundary to the external identity provider.
// The booking core never talks to a provider directly; it consumes the
// verified Identity returned by Exchange.
package oauth

import (
	"context"

	"github.com/meetly/meetly/engine/auth/uc"
)

// Provider is an external OAuth identity provider.
type Provider interface {
	// AuthURL returns the provider's authorization URL for the given
	// anti-forgery state.
	AuthURL(state string) string
	// Exchange trades the authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*uc.Identity, error)
}
