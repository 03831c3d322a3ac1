package auth

import "docbridge/internal/domain/models"

// IDTokenVerifier defines the interface for OpenID Connect id_token verification.
// This abstraction keeps the callback handler agnostic to where signing keys come from.
type IDTokenVerifier interface {
	// VerifyIDToken validates an id_token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or was issued for another client.
	VerifyIDToken(tokenString string) (*models.GoogleIDClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
