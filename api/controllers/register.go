package controllers

import (
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/internal/users"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// UserResponse is the {status, message, user} body shared by register, login
// and profile updates.
type UserResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	User    *users.UserDTO `json:"user"`
}

// AuthRegister creates an account. It does not log the caller in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, UserResponse{
			Status:  types.StatusSuccess,
			Message: "Registration successful!",
			User:    user,
		})
	}
}
