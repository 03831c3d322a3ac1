package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"docbridge/internal/domain"
)

// Session is one signed-in user and the Google grant acting on their behalf.
type Session struct {
	ID        string
	Email     string
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore keeps sessions and pending OAuth states in memory.
// Safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	states   map[string]time.Time // state -> expiry
	ttl      time.Duration
	stateTTL time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions live for ttl and whose OAuth states live for stateTTL.
func NewSessionStore(ttl, stateTTL time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		states:   make(map[string]time.Time),
		ttl:      ttl,
		stateTTL: stateTTL,
		now:      time.Now,
	}
}

// Create starts a session holding tok.
func (s *SessionStore) Create(email string, tok *oauth2.Token) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Email:     email,
		Token:     tok,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return copySession(sess)
}

// Get returns a snapshot of the session, or ErrAuthenticationInvalid when it is unknown or expired.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrAuthenticationInvalid
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, domain.ErrAuthenticationInvalid
	}
	return copySession(sess), nil
}

// UpdateToken replaces the stored grant after a refresh.
func (s *SessionStore) UpdateToken(id string, tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Token = tok
	}
}

// Delete ends a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// NewState issues a single-use OAuth state value.
func (s *SessionStore) NewState() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := uuid.NewString()
	s.states[state] = s.now().Add(s.stateTTL)
	return state
}

// ConsumeState reports whether state was issued and has not expired. A state is accepted at most once.
func (s *SessionStore) ConsumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return s.now().Before(expiresAt)
}

func (s *SessionStore) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	for state, exp := range s.states {
		if !now.Before(exp) {
			delete(s.states, state)
		}
	}
}

func copySession(sess *Session) *Session {
	c := *sess
	return &c
}
