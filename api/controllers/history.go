package controllers

import (
	"context"
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/middleware"
	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/observations"
	"github.com/cropwatch/cropwatch-backend/internal/users"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// HistoryLister lists the observations filed under an email.
type HistoryLister interface {
	History(ctx context.Context, email string) (*observations.History, error)
}

// ProfileLookup resolves the signed-in user for the email fallback.
type ProfileLookup interface {
	GetProfile(ctx context.Context, userID uint) (*users.UserDTO, error)
}

// History serves GET /history. Without an email query the signed-in user's
// address is used.
func History(svc HistoryLister, profiles ProfileLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}

		email := validators.SanitizeString(r.URL.Query().Get("email"), validators.MaxEmailLength)
		if email == "" && profiles != nil {
			if userID := middleware.UserIDFromContext(r.Context()); userID != 0 {
				if user, err := profiles.GetProfile(r.Context(), userID); err == nil {
					email = user.Email
				}
			}
		}

		history, err := svc.History(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
