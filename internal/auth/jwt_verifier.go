package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"docbridge/internal/domain"
	"docbridge/internal/domain/models"
)

// GoogleJWKSURL is where Google publishes its OpenID Connect signing keys.
const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// googleIssuers are the iss values Google uses on id_tokens.
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleIDVerifier implements IDTokenVerifier against Google's JWKS.
type GoogleIDVerifier struct {
	keyfunc  jwt.Keyfunc
	clientID string
	logger   *slog.Logger
}

// NewGoogleIDVerifier creates a verifier that fetches public keys from jwksURL.
// The JWKS keys are cached and automatically refreshed based on HTTP cache headers.
func NewGoogleIDVerifier(ctx context.Context, jwksURL, clientID string, logger *slog.Logger) (IDTokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("id token verifier initialized", "jwks_url", jwksURL)

	return NewGoogleIDVerifierWithKeyfunc(jwks.Keyfunc, clientID, logger), nil
}

// NewGoogleIDVerifierWithKeyfunc creates a verifier using an already resolved key lookup.
func NewGoogleIDVerifierWithKeyfunc(kf jwt.Keyfunc, clientID string, logger *slog.Logger) *GoogleIDVerifier {
	return &GoogleIDVerifier{
		keyfunc:  kf,
		clientID: clientID,
		logger:   logger,
	}
}

// VerifyIDToken validates an id_token and extracts its identity claims.
func (v *GoogleIDVerifier) VerifyIDToken(tokenString string) (*models.GoogleIDClaims, error) {
	// Prevent algorithm confusion attacks - Google signs with RS256 only
	token, err := jwt.ParseWithClaims(tokenString, &models.GoogleIDClaims{}, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("id token parse failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationInvalid, err)
	}

	claims, ok := token.Claims.(*models.GoogleIDClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrAuthenticationInvalid
	}

	if !googleIssuers[claims.Issuer] {
		v.logger.Warn("id token has unexpected issuer", "issuer", claims.Issuer)
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrAuthenticationInvalid, claims.Issuer)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrAuthenticationInvalid)
	}

	return claims, nil
}

// Close releases resources held by the verifier.
// keyfunc v3 manages its own refresh goroutine, so this is a no-op.
func (v *GoogleIDVerifier) Close() error {
	v.logger.Info("id token verifier closed")
	return nil
}
