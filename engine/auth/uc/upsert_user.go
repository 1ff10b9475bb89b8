package uc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// Identity is the verified subject handed over by the OAuth provider after
// a successful code exchange.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

// UpsertUser use case for logging a user in after an OAuth exchange. It
// creates the user on first login, refreshes email and name on subsequent
// logins, and always rotates the session token.
type UpsertUser struct {
	repo     Repository
	identity Identity
}

// NewUpsertUser creates a new upsert user use case
func NewUpsertUser(repo Repository, identity Identity) *UpsertUser {
	return &UpsertUser{repo: repo, identity: identity}
}

// Execute upserts the user and returns it with the fresh session token set.
func (uc *UpsertUser) Execute(ctx context.Context) (*model.User, error) {
	log := logger.FromContext(ctx)
	if uc.identity.ExternalID == "" {
		return nil, core.NewInvalidInput("external_id", "must not be empty")
	}
	if uc.identity.Email == "" {
		return nil, core.NewInvalidInput("email", "must not be empty")
	}
	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}
	id, err := core.NewID()
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:           id,
		ExternalID:   uc.identity.ExternalID,
		Email:        uc.identity.Email,
		Name:         uc.identity.Name,
		SessionToken: token,
	}
	stored, err := uc.repo.UpsertUserByExternalID(ctx, user)
	if err != nil {
		log.Error("failed to upsert user", "error", err, "external_id", uc.identity.ExternalID)
		return nil, fmt.Errorf("%w: upserting user: %v", core.ErrUnavailable, err)
	}
	log.Info("user logged in", "user_id", stored.ID)
	return stored, nil
}

// newSessionToken returns a 64-hex-character opaque token.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Logout use case clears the user's session token so the cookie can no
// longer authenticate.
type Logout struct {
	repo   Repository
	userID core.ID
}

// NewLogout creates a new logout use case
func NewLogout(repo Repository, userID core.ID) *Logout {
	return &Logout{repo: repo, userID: userID}
}

// Execute invalidates the user's current session token.
func (uc *Logout) Execute(ctx context.Context) error {
	if err := uc.repo.ClearSessionToken(ctx, uc.userID); err != nil {
		return fmt.Errorf("%w: clearing session token: %v", core.ErrUnavailable, err)
	}
	logger.FromContext(ctx).Info("user logged out", "user_id", uc.userID)
	return nil
}
