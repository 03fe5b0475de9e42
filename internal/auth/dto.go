package auth

import (
	"time"

	"github.com/cropwatch/cropwatch-backend/internal/users"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// RegisterRequest uses pointers so a missing key can be told apart from an empty value.
type RegisterRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// LoginResult is what a successful login hands to the HTTP layer. The token
// travels in a cookie, never in the body.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *users.UserDTO
}

// Identity is the authenticated principal resolved from a session cookie.
type Identity struct {
	UserID    uint
	Username  string
	SessionID string
}

// SessionState is the body of GET /session.
type SessionState struct {
	Status      string         `json:"status"`
	LoggedIn    bool           `json:"logged_in"`
	User        *users.UserDTO `json:"user,omitempty"`
	ClearCookie bool           `json:"-"`
}

func notAuthenticated() *SessionState {
	return &SessionState{Status: types.StatusNotAuthenticated}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
