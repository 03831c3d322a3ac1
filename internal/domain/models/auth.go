package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the session token handed to API clients.
// The subject is the server-side session id; the Google token never leaves the server.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GetSessionID returns the session id from the subject claim.
func (c *SessionClaims) GetSessionID() string {
	return c.Subject
}

// GoogleIDClaims are the claims checked on a Google OpenID Connect id_token.
type GoogleIDClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}
