package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// ValidateSession use case for resolving an opaque session cookie token
type ValidateSession struct {
	repo  Repository
	token string
}

// NewValidateSession creates a new validate session use case
func NewValidateSession(repo Repository, token string) *ValidateSession {
	return &ValidateSession{repo: repo, token: token}
}

// Execute resolves the token to a user. A miss yields ErrSessionNotFound
// (the caller treats the request as anonymous); store failures yield
// core.ErrUnavailable.
func (uc *ValidateSession) Execute(ctx context.Context) (*model.User, error) {
	if uc.token == "" {
		return nil, ErrSessionNotFound
	}
	user, err := uc.repo.GetUserBySessionToken(ctx, uc.token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		logger.FromContext(ctx).Error("failed to look up session", "error", err)
		return nil, fmt.Errorf("%w: looking up session: %v", core.ErrUnavailable, err)
	}
	return user, nil
}
