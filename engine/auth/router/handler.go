package router

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/auth/oauth"
	"github.com/meetly/meetly/engine/auth/uc"
	"github.com/meetly/meetly/engine/auth/userctx"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/engine/infra/server/router"
	"github.com/meetly/meetly/pkg/logger"
)

const stateCookieName = "meetly_oauth_state"

// SessionConfig controls the session cookie issued after login.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Handler handles auth-related HTTP requests
type Handler struct {
	repo     uc.Repository
	provider oauth.Provider
	session  SessionConfig
}

// NewHandler creates a new auth handler
func NewHandler(repo uc.Repository, provider oauth.Provider, session SessionConfig) *Handler {
	return &Handler{
		repo:     repo,
		provider: provider,
		session:  session,
	}
}

// GenerateKeyRequest is the payload for creating an API key.
type GenerateKeyRequest struct {
	Name string `json:"name" binding:"omitempty,max=100"`
}

// GenerateKeyResponse carries the plaintext secret, shown exactly once.
type GenerateKeyResponse struct {
	ID        core.ID   `json:"id"`
	Key       string    `json:"key"`
	KeyPrefix string    `json:"key_prefix"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateKey creates a new API key for the authenticated user
func (h *Handler) GenerateKey(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	// An absent body means an unnamed key; anything else must parse.
	var req GenerateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		router.RespondError(c, core.NewInvalidInput("name", err.Error()))
		return
	}
	plaintext, apiKey, err := uc.NewGenerateAPIKey(h.repo, user.ID, req.Name).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenerateKeyResponse{
		ID:        apiKey.ID,
		Key:       plaintext,
		KeyPrefix: apiKey.KeyPrefix,
		Name:      apiKey.Name,
		CreatedAt: apiKey.CreatedAt,
	})
}

// ListKeys lists the authenticated user's API keys. Secrets and hashes are
// never included.
func (h *Handler) ListKeys(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	keys, err := uc.NewListAPIKeys(h.repo, user.ID).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	if keys == nil {
		keys = []*model.APIKey{}
	}
	c.JSON(http.StatusOK, keys)
}

// RevokeKey deletes one of the authenticated user's API keys
func (h *Handler) RevokeKey(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	keyID, err := core.ParseID(c.Param("id"))
	if err != nil {
		router.RespondError(c, core.NewInvalidInput("id", "malformed key id"))
		return
	}
	if err := uc.NewRevokeAPIKey(h.repo, user.ID, keyID).Execute(c.Request.Context()); err != nil {
		router.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Login redirects the browser to the identity provider.
func (h *Handler) Login(c *gin.Context) {
	state, err := newState()
	if err != nil {
		router.RespondError(c, fmt.Errorf("generating oauth state: %w", err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, int((10 * time.Minute).Seconds()), "/", "", h.session.Secure, true)
	c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// Callback completes the OAuth exchange, upserts the user and issues the
// session cookie.
func (h *Handler) Callback(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())
	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		router.RespondError(c, core.NewInvalidInput("state", "missing or mismatched oauth state"))
		return
	}
	code := c.Query("code")
	if code == "" {
		router.RespondError(c, core.NewInvalidInput("code", "missing authorization code"))
		return
	}
	identity, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Error("oauth exchange failed", "error", err)
		router.RespondError(c, fmt.Errorf("%w: oauth exchange failed", core.ErrUnavailable))
		return
	}
	user, err := uc.NewUpsertUser(h.repo, *identity).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, "", -1, "/", "", h.session.Secure, true)
	c.SetCookie(h.session.CookieName, user.SessionToken,
		int(h.session.MaxAge.Seconds()), "/", "", h.session.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session token server-side and expires the cookie.
func (h *Handler) Logout(c *gin.Context) {
	user, err := userctx.MustUserFromContext(c.Request.Context())
	if err != nil {
		router.SendUnauthorized(c, "")
		return
	}
	if err := uc.NewLogout(h.repo, user.ID).Execute(c.Request.Context()); err != nil {
		router.RespondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.Secure, true)
	c.Status(http.StatusNoContent)
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
