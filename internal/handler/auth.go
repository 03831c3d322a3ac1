package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"docbridge/internal/auth"
	"docbridge/internal/domain"
	"docbridge/internal/httputil"
	"docbridge/internal/middleware"
	"docbridge/internal/service/archive"
)

// AuthHandler handles the Google OAuth flow and session lifecycle
type AuthHandler struct {
	oauth         *oauth2.Config
	verifier      auth.IDTokenVerifier // nil disables id_token verification
	sessions      *auth.SessionStore
	issuer        *auth.SessionIssuer
	archives      *archive.Store
	sessionTTL    time.Duration
	secureCookies bool
	logger        *slog.Logger
}

// AuthHandlerConfig groups the collaborators of AuthHandler
type AuthHandlerConfig struct {
	OAuth         *oauth2.Config
	Verifier      auth.IDTokenVerifier
	Sessions      *auth.SessionStore
	Issuer        *auth.SessionIssuer
	Archives      *archive.Store
	SessionTTL    time.Duration
	SecureCookies bool
	Logger        *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		oauth:         cfg.OAuth,
		verifier:      cfg.Verifier,
		sessions:      cfg.Sessions,
		issuer:        cfg.Issuer,
		archives:      cfg.Archives,
		sessionTTL:    cfg.SessionTTL,
		secureCookies: cfg.SecureCookies,
		logger:        cfg.Logger,
	}
}

// StartResponse is returned by GET /auth/google
type StartResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// CallbackRequest is the POST form of the OAuth callback
type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// SessionResponse is returned once a session exists
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email,omitempty"`
}

// Start begins the OAuth flow
// GET /auth/google
// Returns the consent URL, or redirects to it with ?redirect=true
func (h *AuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.NewState()
	url := auth.AuthCodeURL(h.oauth, state)

	if r.URL.Query().Get("redirect") == "true" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, StartResponse{AuthURL: url, State: state})
}

// Callback completes the OAuth flow and creates a session
// GET /auth/google/callback?code=...&state=...
// POST /auth/google/callback {"code": "...", "state": "..."}
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if r.Method == http.MethodPost {
		if err := httputil.ParseOptionalJSON(w, r, &req); err != nil {
			handleError(w, h.logger, err)
			return
		}
	}
	q := r.URL.Query()
	if req.Code == "" {
		req.Code = q.Get("code")
	}
	if req.State == "" {
		req.State = q.Get("state")
	}

	if oauthErr := q.Get("error"); oauthErr != "" {
		handleError(w, h.logger, fmt.Errorf("%w: consent denied: %s", domain.ErrAuthenticationInvalid, oauthErr))
		return
	}
	if req.Code == "" {
		handleError(w, h.logger, fmt.Errorf("%w: code is required", domain.ErrValidation))
		return
	}
	if !h.sessions.ConsumeState(req.State) {
		handleError(w, h.logger, fmt.Errorf("%w: unknown or expired state", domain.ErrAuthenticationInvalid))
		return
	}

	tok, identity, err := auth.Exchange(r.Context(), h.oauth, h.verifier, req.Code)
	if err != nil {
		h.logger.Warn("oauth exchange failed", "error", err)
		handleError(w, h.logger, err)
		return
	}

	sess := h.sessions.Create(identity.Email, tok)
	token, expiresAt, err := h.issuer.Issue(sess.ID, sess.Email)
	if err != nil {
		h.sessions.Delete(sess.ID)
		handleError(w, h.logger, err)
		return
	}

	middleware.SetSessionCookie(w, token, int(h.sessionTTL.Seconds()), h.secureCookies)

	h.logger.Info("session created",
		"session_id", sess.ID,
		"email", sess.Email,
		"refresh_token", tok.RefreshToken != "",
	)

	httputil.RespondJSON(w, http.StatusOK, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     sess.Email,
	})
}

// Logout ends the current session and drops its archives
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := httputil.GetSessionID(r)
	h.sessions.Delete(sessionID)
	h.archives.DeleteSession(sessionID)
	middleware.ClearSessionCookie(w)

	h.logger.Info("session ended", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}
