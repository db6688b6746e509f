package auth

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
)

// Role values as issued by the gateway. An empty role means anonymous.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserContext carries the caller identity for one request. Authentication
// itself happens upstream; this core only consumes the result.
type UserContext struct {
	UserID string
	Role   string
}

func (u UserContext) IsAdmin() bool { return u.Role == RoleAdmin }

type ctxKey struct{}

func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the caller identity, or the anonymous zero value when
// nothing was attached.
func FromContext(ctx context.Context) UserContext {
	if user, ok := ctx.Value(ctxKey{}).(UserContext); ok {
		return user
	}
	return UserContext{}
}

// RequireAdmin gates admin-only mutations.
func RequireAdmin(ctx context.Context) error {
	if !FromContext(ctx).IsAdmin() {
		return apperr.NotAuthorized("admin role required")
	}
	return nil
}

// RequireUser gates operations that need an authenticated caller and returns
// the caller id.
func RequireUser(ctx context.Context) (string, error) {
	user := FromContext(ctx)
	if user.UserID == "" {
		return "", apperr.NotAuthorized("authentication required")
	}
	return user.UserID, nil
}
