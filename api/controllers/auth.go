package controllers

import (
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// AuthLogin verifies credentials and sets the session cookie.
func AuthLogin(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, UserResponse{
			Status:  types.StatusSuccess,
			Message: "Login successful!",
			User:    result.User,
		})
	}
}

// AuthLogout revokes the presented session, if any, and always clears the cookie.
func AuthLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc != nil {
			if token := validators.SessionToken(r, cfg.CookieName); token != "" {
				if err := svc.Logout(r.Context(), token); err != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "auth.logout.revoke_failed")
				}
			}
		}

		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, types.Message{Status: types.StatusSuccess, Message: "Logout successful"})
	}
}
