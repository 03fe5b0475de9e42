package auth

import "github.com/golang-jwt/jwt/v5"

// SessionTokenPayload captures the data available when minting a session cookie.
type SessionTokenPayload struct {
	UserID    uint
	Username  string
	SessionID string
}

// SessionClaims is the typed JWT carried in the session cookie. The jti is the
// Redis session id.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
