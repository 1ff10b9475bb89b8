// Package userctx provides utilities for storing and retrieving the
// authenticated user from context.Context. The credential middleware
// injects the user; handlers and use cases read it back without knowing
// which credential channel authenticated the caller.
package userctx

import (
	"context"
	"fmt"

	"github.com/meetly/meetly/engine/auth/model"
)

// userKey is the context key for user information
type userKey struct{}

// WithUser adds user information to context
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext extracts user information from context
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey{}).(*model.User)
	return user, ok
}

// MustUserFromContext extracts user information from context, erroring if
// absent. Only use in handlers behind the authentication middleware.
func MustUserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}
