package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docbridge/internal/auth"
	"docbridge/internal/domain"
	"docbridge/internal/httputil"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "session"

// RequireSession authenticates requests with a session token taken from the
// Authorization Bearer header (preferred) or the session cookie. The session must
// still exist server side. Failures abort with 401 and an error kind.
func RequireSession(issuer *auth.SessionIssuer, sessions *auth.SessionStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			fromCookie := false
			if tokenStr == "" {
				if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
					tokenStr = c.Value
					fromCookie = true
				}
			}

			if tokenStr == "" {
				httputil.RespondErrorKind(w, http.StatusUnauthorized,
					domain.KindAuthenticationMissing, "sign in with Google first")
				return
			}

			claims, err := issuer.Verify(tokenStr)
			if err == nil {
				_, err = sessions.Get(claims.GetSessionID())
			}
			if err != nil {
				logger.Debug("session rejected", "path", r.URL.Path, "error", err)
				if fromCookie {
					ClearSessionCookie(w)
				}
				httputil.RespondErrorKind(w, http.StatusUnauthorized,
					domain.KindAuthenticationInvalid, "session is invalid or expired")
				return
			}

			next.ServeHTTP(w, httputil.WithSessionID(r, claims.GetSessionID()))
		})
	}
}

// SetSessionCookie writes the session token as an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
