package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"docbridge/internal/auth"
	"docbridge/internal/domain"
	"docbridge/internal/domain/models"
	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/httputil"
	"docbridge/internal/middleware"
	"docbridge/internal/service/archive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFactory struct {
	err error
}

func (f *fakeFactory) NewStore(ctx context.Context, ts oauth2.TokenSource) (docsysSvc.DocumentStore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

type fakeConversionService struct {
	docs     []models.ClassifiedDocument
	result   *models.ConversionResult
	archive  []byte
	err      error
	lastReq  *docsysSvc.ConvertRequest
	listErr  error
	converts int
}

func (f *fakeConversionService) ListDocuments(ctx context.Context, store docsysSvc.DocumentStore) ([]models.ClassifiedDocument, error) {
	return f.docs, f.listErr
}

func (f *fakeConversionService) Convert(ctx context.Context, store docsysSvc.DocumentStore, req *docsysSvc.ConvertRequest) (*models.ConversionResult, []byte, error) {
	f.converts++
	f.lastReq = req
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.result, f.archive, nil
}

type fixture struct {
	sessions *auth.SessionStore
	archives *archive.Store
	service  *fakeConversionService
	handler  *ConversionHandler
	session  *auth.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sessions := auth.NewSessionStore(time.Hour, time.Minute)
	archives := archive.NewStore(time.Hour, testLogger())
	svc := &fakeConversionService{}
	stores := NewStoreProvider(&oauth2.Config{}, sessions, &fakeFactory{}, testLogger())
	return &fixture{
		sessions: sessions,
		archives: archives,
		service:  svc,
		handler:  NewConversionHandler(svc, stores, archives, "http://localhost:8080", testLogger()),
		session:  sessions.Create("u@example.com", &oauth2.Token{AccessToken: "a"}),
	}
}

func (f *fixture) request(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	return httputil.WithSessionID(req, f.session.ID)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestConvert_StoresArchiveForSession(t *testing.T) {
	f := newFixture(t)
	f.service.result = &models.ConversionResult{JobID: "job-1", FolderID: "folder"}
	f.service.result.Add(models.ConversionOutcome{DocumentID: "d0", Status: models.OutcomeConverted})
	f.service.result.Add(models.ConversionOutcome{DocumentID: "d1", Status: models.OutcomeFailed, Error: "boom"})
	f.service.archive = []byte("PK-zip")

	rec := httptest.NewRecorder()
	f.handler.Convert(rec, f.request(http.MethodPost, "/api/convert", `{"export_format":"docx","document_ids":["d0"]}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp ConvertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID != "job-1" || len(resp.Results) != 2 || resp.Summary.Failed != 1 {
		t.Errorf("response = %+v", resp)
	}
	if resp.DownloadURL != "http://localhost:8080/api/download-zip?job=job-1" {
		t.Errorf("download url = %q", resp.DownloadURL)
	}
	if f.service.lastReq.ExportFormat != "docx" || len(f.service.lastReq.DocumentIDs) != 1 {
		t.Errorf("request not forwarded: %+v", f.service.lastReq)
	}

	a, err := f.archives.Get(f.session.ID, "job-1")
	if err != nil || string(a.Data) != "PK-zip" {
		t.Errorf("archive = %+v, %v", a, err)
	}
}

func TestConvert_EmptyBody(t *testing.T) {
	f := newFixture(t)
	f.service.result = &models.ConversionResult{JobID: "job-1"}

	rec := httptest.NewRecorder()
	f.handler.Convert(rec, f.request(http.MethodPost, "/api/convert", ""))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"malformed body", `{"folder_name":`, nil, http.StatusBadRequest, domain.KindValidationFailed},
		{"validation", "", domain.ErrValidation, http.StatusBadRequest, domain.KindValidationFailed},
		{"setup remote failure", "", domain.NewRemoteError("create_folder", errors.New("denied")), http.StatusInternalServerError, domain.KindRemoteAPIFailure},
		{"auth failure", "", domain.NewRemoteError("list", domain.ErrAuthenticationInvalid), http.StatusUnauthorized, domain.KindAuthenticationInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.service.err = tt.err

			rec := httptest.NewRecorder()
			f.handler.Convert(rec, f.request(http.MethodPost, "/api/convert", tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeProblem(t, rec)
			if body["error"] != tt.wantKind {
				t.Errorf("kind = %v, want %s", body["error"], tt.wantKind)
			}
			if body["detail"] == "" {
				t.Error("problem should carry a detail")
			}
		})
	}
}

func TestConvert_ExpiredSession(t *testing.T) {
	f := newFixture(t)
	f.sessions.Delete(f.session.ID)

	rec := httptest.NewRecorder()
	f.handler.Convert(rec, f.request(http.MethodPost, "/api/convert", ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if f.service.converts != 0 {
		t.Error("service should not run without a session")
	}
}

func TestListDocuments(t *testing.T) {
	f := newFixture(t)
	f.service.docs = []models.ClassifiedDocument{
		{RemoteDocument: models.RemoteDocument{ID: "d0", Name: "Notes"}, Markdown: true, Signals: []string{"heading"}},
	}

	rec := httptest.NewRecorder()
	f.handler.ListDocuments(rec, f.request(http.MethodGet, "/api/docs", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp DocumentListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 1 || resp.Documents[0].ID != "d0" || !resp.Documents[0].Markdown {
		t.Errorf("response = %+v", resp)
	}

	f.service.listErr = domain.NewRemoteError("list", errors.New("quota"))
	rec = httptest.NewRecorder()
	f.handler.ListDocuments(rec, f.request(http.MethodGet, "/api/docs", ""))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestDownloadZip(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.DownloadZip(rec, f.request(http.MethodGet, "/api/download-zip", ""))
	if rec.Code != http.StatusNotFound {
		t.Errorf("no archive: status = %d, want 404", rec.Code)
	}
	if body := decodeProblem(t, rec); body["error"] != domain.KindArchiveUnavailable {
		t.Errorf("kind = %v", body["error"])
	}

	f.archives.Put(&archive.Archive{JobID: "job-1", SessionID: f.session.ID, Filename: "formatted-documents.zip", Data: []byte("one")})
	f.archives.Put(&archive.Archive{JobID: "job-2", SessionID: f.session.ID, Filename: "formatted-documents.zip", Data: []byte("two")})
	f.archives.Put(&archive.Archive{JobID: "job-3", SessionID: "someone-else", Filename: "x.zip", Data: []byte("three")})

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{"/api/download-zip", http.StatusOK, "two"},
		{"/api/download-zip?job=job-1", http.StatusOK, "one"},
		{"/api/download-zip?job=job-3", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		f.handler.DownloadZip(rec, f.request(http.MethodGet, tt.target, ""))
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.target, rec.Code, tt.wantStatus)
			continue
		}
		if tt.wantStatus == http.StatusOK {
			if rec.Body.String() != tt.wantBody {
				t.Errorf("%s: body = %q, want %q", tt.target, rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("Content-Type") != "application/zip" {
				t.Errorf("%s: content type = %q", tt.target, rec.Header().Get("Content-Type"))
			}
		}
	}
}

func newAuthHandler(t *testing.T, tokenURL string) (*AuthHandler, *auth.SessionStore, *auth.SessionIssuer) {
	t.Helper()
	sessions := auth.NewSessionStore(time.Hour, time.Minute)
	issuer, err := auth.NewSessionIssuer([]byte(strings.Repeat("k", auth.MinSecretLen)), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	cfg := auth.NewGoogleProvider(auth.OAuthConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/auth/google/callback"})
	if tokenURL != "" {
		cfg.Endpoint = oauth2.Endpoint{AuthURL: cfg.Endpoint.AuthURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams}
	}
	h := NewAuthHandler(AuthHandlerConfig{
		OAuth:      cfg,
		Sessions:   sessions,
		Issuer:     issuer,
		Archives:   archive.NewStore(time.Hour, testLogger()),
		SessionTTL: time.Hour,
		Logger:     testLogger(),
	})
	return h, sessions, issuer
}

func TestAuthStart(t *testing.T) {
	h, sessions, _ := newAuthHandler(t, "")

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	var resp StartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	u, _ := url.Parse(resp.AuthURL)
	if u.Query().Get("state") != resp.State || resp.State == "" {
		t.Errorf("auth url %q does not carry state %q", resp.AuthURL, resp.State)
	}
	if !sessions.ConsumeState(resp.State) {
		t.Error("issued state should be consumable")
	}

	rec = httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodGet, "/auth/google?redirect=true", nil))
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "https://accounts.google.com/") {
		t.Errorf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAuthCallback(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	h, sessions, issuer := newAuthHandler(t, tokenSrv.URL)
	state := sessions.NewState()

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := issuer.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	sess, err := sessions.Get(claims.GetSessionID())
	if err != nil || sess.Token.RefreshToken != "rt" {
		t.Errorf("session = %+v, %v", sess, err)
	}

	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != middleware.SessionCookieName || !cookie[0].HttpOnly {
		t.Errorf("cookies = %+v", cookie)
	}

	// the state was consumed by the first callback
	rec = httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("replayed state: status = %d, want 401", rec.Code)
	}
}

func TestAuthCallback_POST(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
	}))
	defer tokenSrv.Close()

	h, sessions, _ := newAuthHandler(t, tokenSrv.URL)
	state := sessions.NewState()

	rec := httptest.NewRecorder()
	body := `{"code":"abc","state":"` + state + `"}`
	h.Callback(rec, httptest.NewRequest(http.MethodPost, "/auth/google/callback", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthCallback_Rejects(t *testing.T) {
	h, sessions, _ := newAuthHandler(t, "")

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"missing code", "/auth/google/callback?state=" + sessions.NewState(), http.StatusBadRequest},
		{"unknown state", "/auth/google/callback?code=abc&state=forged", http.StatusUnauthorized},
		{"consent denied", "/auth/google/callback?error=access_denied", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Callback(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	h, sessions, _ := newAuthHandler(t, "")
	sess := sessions.Create("", &oauth2.Token{})
	h.archives.Put(&archive.Archive{JobID: "job-1", SessionID: sess.ID})

	rec := httptest.NewRecorder()
	h.Logout(rec, httputil.WithSessionID(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), sess.ID))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if _, err := sessions.Get(sess.ID); err == nil {
		t.Error("session should be gone")
	}
	if _, err := h.archives.Latest(sess.ID); err == nil {
		t.Error("archives should be gone")
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}
