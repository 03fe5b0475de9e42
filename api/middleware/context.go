package middleware

import (
	"context"

	"github.com/cropwatch/cropwatch-backend/internal/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the session identity loaded for the request, or nil.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*auth.Identity); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the authenticated user id, or 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) uint {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return 0
}

// WithIdentity injects the session identity into the context.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}
