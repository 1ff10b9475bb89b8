package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth/uc"
	"github.com/meetly/meetly/engine/auth/userctx"
	"github.com/meetly/meetly/engine/infra/server/router"
	"github.com/meetly/meetly/pkg/logger"
)

// Middleware resolves the request credential to a user. Two channels are
// tried in fixed precedence: a bearer API key, then the session cookie. A
// present-but-invalid bearer key rejects the request outright and never
// falls through to cookie auth.
type Middleware struct {
	repo       uc.Repository
	cookieName string
}

// NewMiddleware creates a new credential-resolving middleware
func NewMiddleware(repo uc.Repository, cookieName string) *Middleware {
	return &Middleware{
		repo:       repo,
		cookieName: cookieName,
	}
}

// Resolve is the gin handler that attaches the authenticated user to the
// request context. Requests without any credential pass through anonymous;
// RequireAuth gates the routes that need an identity.
func (m *Middleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			m.resolveBearer(c, authHeader)
			return
		}
		m.resolveCookie(c)
	}
}

func (m *Middleware) resolveBearer(c *gin.Context, authHeader string) {
	log := logger.FromContext(c.Request.Context())
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		log.Debug("invalid Authorization header format")
		router.SendUnauthorized(c, "Invalid Authorization header format. Expected: Bearer <key>")
		return
	}
	secret := strings.TrimSpace(parts[1])
	user, err := uc.NewValidateAPIKey(m.repo, secret).Execute(c.Request.Context())
	if err != nil {
		router.RespondError(c, err)
		return
	}
	ctx := userctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
	log.Debug("request authenticated via API key", "user_id", user.ID)
	c.Next()
}

func (m *Middleware) resolveCookie(c *gin.Context) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		c.Next()
		return
	}
	user, vErr := uc.NewValidateSession(m.repo, token).Execute(c.Request.Context())
	if vErr != nil {
		if errors.Is(vErr, uc.ErrSessionNotFound) {
			// Stale cookie; proceed anonymous.
			c.Next()
			return
		}
		router.RespondError(c, vErr)
		return
	}
	ctx := userctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
	logger.FromContext(ctx).Debug("request authenticated via session", "user_id", user.ID)
	c.Next()
}

// RequireAuth rejects requests that did not resolve to a user.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userctx.UserFromContext(c.Request.Context()); !ok {
			router.SendUnauthorized(c, "")
			return
		}
		c.Next()
	}
}
