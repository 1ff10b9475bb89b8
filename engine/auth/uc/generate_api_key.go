package uc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
)

// GenerateAPIKey use case for generating a new API key for a user
type GenerateAPIKey struct {
	repo   Repository
	userID core.ID
	name   string
}

// NewGenerateAPIKey creates a new generate API key use case
func NewGenerateAPIKey(repo Repository, userID core.ID, name string) *GenerateAPIKey {
	return &GenerateAPIKey{
		repo:   repo,
		userID: userID,
		name:   name,
	}
}

// Execute generates a new API key and returns the plaintext secret along
// with the stored record. The plaintext is not recoverable afterwards.
func (uc *GenerateAPIKey) Execute(ctx context.Context) (string, *model.APIKey, error) {
	log := logger.FromContext(ctx)
	secret := make([]byte, model.KeyLength)
	if _, err := rand.Read(secret); err != nil {
		return "", nil, fmt.Errorf("generating key material: %w", err)
	}
	plaintext := hex.EncodeToString(secret)

	id, err := core.NewID()
	if err != nil {
		return "", nil, err
	}
	apiKey := &model.APIKey{
		ID:        id,
		UserID:    uc.userID,
		KeyHash:   HashAPIKey(plaintext),
		KeyPrefix: plaintext[:model.KeyPrefixLength],
		Name:      uc.name,
	}
	if err := uc.repo.CreateAPIKey(ctx, apiKey); err != nil {
		log.Error("failed to create API key", "error", err, "user_id", uc.userID)
		return "", nil, fmt.Errorf("%w: creating API key: %v", core.ErrUnavailable, err)
	}
	log.Info("API key generated", "user_id", uc.userID, "key_id", apiKey.ID)
	return plaintext, apiKey, nil
}

// HashAPIKey derives the stored one-way hash from a plaintext secret.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
