package uc

import (
	"context"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
)

// Repository defines all data access operations for the auth domain
type Repository interface {
	// User operations
	// UpsertUserByExternalID inserts the user or, when the external id is
	// already known, refreshes email, name and session token. The stored
	// row is returned with its id and timestamps populated.
	UpsertUserByExternalID(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id core.ID) (*model.User, error)
	GetUserBySessionToken(ctx context.Context, token string) (*model.User, error)
	ClearSessionToken(ctx context.Context, userID core.ID) error

	// API key operations
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	GetAPIKeyByID(ctx context.Context, id core.ID) (*model.APIKey, error)
	GetAPIKeyByHash(ctx context.Context, hash string) (*model.APIKey, error)
	ListAPIKeysByUserID(ctx context.Context, userID core.ID) ([]*model.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id core.ID) error
	DeleteAPIKey(ctx context.Context, id core.ID) error
}
