package uc

import (
	"context"
	"sync"
	"time"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
)

// fakeRepo is an in-memory Repository for exercising use cases without a
// database.
type fakeRepo struct {
	mu    sync.Mutex
	users map[core.ID]*model.User
	keys  map[core.ID]*model.APIKey

	keyErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[core.ID]*model.User),
		keys:  make(map[core.ID]*model.APIKey),
	}
}

func (f *fakeRepo) addUser() *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := &model.User{
		ID:        core.MustNewID(),
		Email:     "user@example.com",
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeRepo) UpsertUserByExternalID(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.ExternalID == user.ExternalID {
			existing.Email = user.Email
			existing.Name = user.Name
			existing.SessionToken = user.SessionToken
			existing.UpdatedAt = time.Now()
			copied := *existing
			return &copied, nil
		}
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id core.ID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) GetUserBySessionToken(_ context.Context, token string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.SessionToken != "" && user.SessionToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (f *fakeRepo) ClearSessionToken(_ context.Context, userID core.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.SessionToken = ""
	return nil
}

func (f *fakeRepo) CreateAPIKey(_ context.Context, key *model.APIKey) error {
	if f.keyErr != nil {
		return f.keyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *key
	stored.CreatedAt = time.Now()
	f.keys[stored.ID] = &stored
	key.CreatedAt = stored.CreatedAt
	return nil
}

func (f *fakeRepo) GetAPIKeyByID(_ context.Context, id core.ID) (*model.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, ok := f.keys[id]
	if !ok {
		return nil, ErrAPIKeyNotFound
	}
	return key, nil
}

func (f *fakeRepo) GetAPIKeyByHash(_ context.Context, hash string) (*model.APIKey, error) {
	if f.keyErr != nil {
		return nil, f.keyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.keys {
		if key.KeyHash == hash {
			return key, nil
		}
	}
	return nil, ErrAPIKeyNotFound
}

func (f *fakeRepo) ListAPIKeysByUserID(_ context.Context, userID core.ID) ([]*model.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []*model.APIKey
	for _, key := range f.keys {
		if key.UserID == userID {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeRepo) UpdateAPIKeyLastUsed(_ context.Context, id core.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, ok := f.keys[id]
	if !ok {
		return ErrAPIKeyNotFound
	}
	now := time.Now()
	key.LastUsedAt = &now
	return nil
}

func (f *fakeRepo) DeleteAPIKey(_ context.Context, id core.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[id]; !ok {
		return ErrAPIKeyNotFound
	}
	delete(f.keys, id)
	return nil
}
