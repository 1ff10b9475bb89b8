package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/auth/uc"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/engine/infra/store"
)

const (
	userColumns   = "id, external_id, email, name, session_token, created_at, updated_at"
	apiKeyColumns = "id, user_id, key_hash, key_prefix, name, last_used_at, created_at"
)

// Repository implements the auth repository interface using PostgreSQL
type Repository struct {
	db store.DBInterface
}

// NewRepository creates a new auth repository
func NewRepository(db store.DBInterface) uc.Repository {
	return &Repository{db: db}
}

// UpsertUserByExternalID inserts the user or refreshes email, name and
// session token when the identity-provider subject is already known.
func (r *Repository) UpsertUserByExternalID(ctx context.Context, user *model.User) (*model.User, error) {
	query, args, err := squirrel.Insert("users").
		Columns("id", "external_id", "email", "name", "session_token").
		Values(user.ID, user.ExternalID, user.Email, user.Name, user.SessionToken).
		Suffix(`ON CONFLICT (external_id) DO UPDATE
			SET email = EXCLUDED.email,
			    name = EXCLUDED.name,
			    session_token = EXCLUDED.session_token,
			    updated_at = now()
			RETURNING ` + userColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building upsert query: %w", err)
	}
	var stored model.User
	if err := pgxscan.Get(ctx, r.db, &stored, query, args...); err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return &stored, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id core.ID) (*model.User, error) {
	query, args, err := squirrel.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// GetUserBySessionToken retrieves a user by their opaque session token
func (r *Repository) GetUserBySessionToken(ctx context.Context, token string) (*model.User, error) {
	query, args, err := squirrel.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"session_token": token}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// ClearSessionToken invalidates the user's current session token
func (r *Repository) ClearSessionToken(ctx context.Context, userID core.ID) error {
	query, args, err := squirrel.Update("users").
		Set("session_token", "").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrUserNotFound
	}
	return nil
}

// CreateAPIKey creates a new API key
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query, args, err := squirrel.Insert("api_keys").
		Columns("id", "user_id", "key_hash", "key_prefix", "name").
		Values(key.ID, key.UserID, key.KeyHash, key.KeyPrefix, key.Name).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting API key: %w", err)
	}
	return nil
}

// GetAPIKeyByID retrieves an API key by ID
func (r *Repository) GetAPIKeyByID(ctx context.Context, id core.ID) (*model.APIKey, error) {
	query, args, err := squirrel.Select(apiKeyColumns).
		From("api_keys").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var key model.APIKey
	if err := pgxscan.Get(ctx, r.db, &key, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("scanning API key: %w", err)
	}
	return &key, nil
}

// GetAPIKeyByHash retrieves an API key by the one-way hash of its secret.
// The key_hash column is unique, so at most one row can match.
func (r *Repository) GetAPIKeyByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	query, args, err := squirrel.Select(apiKeyColumns).
		From("api_keys").
		Where(squirrel.Eq{"key_hash": hash}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var key model.APIKey
	if err := pgxscan.Get(ctx, r.db, &key, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("scanning API key: %w", err)
	}
	return &key, nil
}

// ListAPIKeysByUserID retrieves all API keys owned by the user
func (r *Repository) ListAPIKeysByUserID(ctx context.Context, userID core.ID) ([]*model.APIKey, error) {
	query, args, err := squirrel.Select(apiKeyColumns).
		From("api_keys").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var keys []*model.APIKey
	if err := pgxscan.Select(ctx, r.db, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("scanning API keys: %w", err)
	}
	return keys, nil
}

// UpdateAPIKeyLastUsed stamps the key's last successful authentication
func (r *Repository) UpdateAPIKeyLastUsed(ctx context.Context, id core.ID) error {
	query, args, err := squirrel.Update("api_keys").
		Set("last_used_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating API key last used: %w", err)
	}
	return nil
}

// DeleteAPIKey removes an API key by ID
func (r *Repository) DeleteAPIKey(ctx context.Context, id core.ID) error {
	query, args, err := squirrel.Delete("api_keys").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting API key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrAPIKeyNotFound
	}
	return nil
}
