package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// LoadSession resolves the session cookie, when present, into an identity on
// the request context. Requests without a valid session continue anonymously.
func LoadSession(resolver sessionResolver, cookieName string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			identity, err := resolver.Resolve(ctx, token)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) && logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "session.resolve_failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithIdentity(ctx, identity)
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
