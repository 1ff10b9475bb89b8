package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// RevokeAPIKey use case for revoking (deleting) an API key
type RevokeAPIKey struct {
	repo   Repository
	userID core.ID
	keyID  core.ID
}

// NewRevokeAPIKey creates a new revoke API key use case
func NewRevokeAPIKey(repo Repository, userID, keyID core.ID) *RevokeAPIKey {
	return &RevokeAPIKey{
		repo:   repo,
		userID: userID,
		keyID:  keyID,
	}
}

// Execute revokes an API key after verifying ownership. An unknown id is
// reported as not found before any ownership check runs.
func (uc *RevokeAPIKey) Execute(ctx context.Context) error {
	log := logger.FromContext(ctx)
	apiKey, err := uc.repo.GetAPIKeyByID(ctx, uc.keyID)
	if err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			return fmt.Errorf("%w: api key %s", core.ErrNotFound, uc.keyID)
		}
		return fmt.Errorf("%w: retrieving API key: %v", core.ErrUnavailable, err)
	}
	if apiKey.UserID != uc.userID {
		return fmt.Errorf("%w: api key %s", core.ErrForbidden, uc.keyID)
	}
	if err := uc.repo.DeleteAPIKey(ctx, uc.keyID); err != nil {
		return fmt.Errorf("%w: deleting API key: %v", core.ErrUnavailable, err)
	}
	log.Info("API key revoked", "key_id", uc.keyID, "user_id", uc.userID)
	return nil
}
