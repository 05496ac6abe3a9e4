package internal

import (
	"context"
	"time"
)

const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// Identity is the authenticated caller attached by the auth middleware.
// Handlers read it once and pass plain IDs down to services.
type Identity struct {
	UserID    int64
	Role      string
	CompanyID *int64
}

type ctxKey string

const contextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(contextIdentityKey).(Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
