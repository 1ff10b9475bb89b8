package uc

import (
	"context"
	"fmt"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
)

// ListAPIKeys use case for listing all API keys owned by a user. The
// repository query is keyed by the authenticated user's id, so a caller can
// never see another user's keys.
type ListAPIKeys struct {
	repo   Repository
	userID core.ID
}

// NewListAPIKeys creates a new list API keys use case
func NewListAPIKeys(repo Repository, userID core.ID) *ListAPIKeys {
	return &ListAPIKeys{
		repo:   repo,
		userID: userID,
	}
}

// Execute lists all API keys for the user
func (uc *ListAPIKeys) Execute(ctx context.Context) ([]*model.APIKey, error) {
	apiKeys, err := uc.repo.ListAPIKeysByUserID(ctx, uc.userID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing API keys: %v", core.ErrUnavailable, err)
	}
	return apiKeys, nil
}
