package uc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// Background task semaphore bounding concurrent last-used updates.
var lastUsedSem = make(chan struct{}, 10)

// ValidateAPIKey use case for resolving a bearer secret to its owning user
type ValidateAPIKey struct {
	repo      Repository
	plaintext string
}

// NewValidateAPIKey creates a new validate API key use case
func NewValidateAPIKey(repo Repository, plaintext string) *ValidateAPIKey {
	return &ValidateAPIKey{
		repo:      repo,
		plaintext: plaintext,
	}
}

// Execute resolves the secret to a user. An unknown key yields
// core.ErrUnauthenticated; store failures yield core.ErrUnavailable so the
// caller can tell them apart.
func (uc *ValidateAPIKey) Execute(ctx context.Context) (*model.User, error) {
	log := logger.FromContext(ctx)
	apiKey, err := uc.repo.GetAPIKeyByHash(ctx, HashAPIKey(uc.plaintext))
	if err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			log.Debug("API key not found")
			return nil, fmt.Errorf("%w: invalid API key", core.ErrUnauthenticated)
		}
		log.Error("failed to look up API key", "error", err)
		return nil, fmt.Errorf("%w: looking up API key: %v", core.ErrUnavailable, err)
	}

	user, err := uc.repo.GetUserByID(ctx, apiKey.UserID)
	if err != nil {
		log.Error("failed to load user for API key", "error", err, "key_id", apiKey.ID)
		return nil, fmt.Errorf("%w: loading API key owner: %v", core.ErrUnavailable, err)
	}

	uc.touchLastUsed(ctx, apiKey)
	return user, nil
}

// touchLastUsed updates last_used_at best-effort; a failure must never fail
// the authentication path. Cancellation of the request context is detached
// and the update is bounded in time and concurrency.
func (uc *ValidateAPIKey) touchLastUsed(ctx context.Context, apiKey *model.APIKey) {
	select {
	case lastUsedSem <- struct{}{}:
		go func() {
			defer func() { <-lastUsedSem }()
			bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := uc.repo.UpdateAPIKeyLastUsed(bgCtx, apiKey.ID); err != nil {
				logger.FromContext(bgCtx).Warn("failed to update API key last used",
					"error", err, "key_id", apiKey.ID)
			}
		}()
	default:
		logger.FromContext(ctx).Debug("skipping last used update under load", "key_id", apiKey.ID)
	}
}
