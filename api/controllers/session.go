package controllers

import (
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/middleware"
	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// AuthSession reports whether the request carries a live session. Anonymous
// callers get 200 with logged_in=false, never 401.
func AuthSession(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		state, err := svc.GetSession(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if state.ClearCookie {
			clearSessionCookie(w, cfg)
		}
		responses.WriteSuccess(w, state)
	}
}
