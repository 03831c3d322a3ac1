package archive

import (
	"log/slog"
	"sync"
	"time"

	"docbridge/internal/domain"
)

// Archive is a finished ZIP owned by the session that produced it.
type Archive struct {
	JobID     string
	SessionID string
	Filename  string
	Data      []byte
	Entries   int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps finished archives in memory, keyed by job id and scoped to their
// owning session. Entries expire after the configured TTL.
type Store struct {
	mu     sync.Mutex
	jobs   map[string]*Archive
	latest map[string]string // session id -> job id
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates an archive store. A non-positive ttl keeps archives until their session is deleted.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		jobs:   make(map[string]*Archive),
		latest: make(map[string]string),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Put stores a finished archive and marks it as its session's latest job.
func (s *Store) Put(a *Archive) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	a.CreatedAt = now
	if s.ttl > 0 {
		a.ExpiresAt = now.Add(s.ttl)
	}
	s.jobs[a.JobID] = a
	s.latest[a.SessionID] = a.JobID

	s.logger.Debug("archive stored", "job_id", a.JobID, "entries", a.Entries, "bytes", len(a.Data))
}

// Get returns the archive for jobID when it exists, has not expired, and belongs to sessionID.
// Archives of other sessions are reported as unavailable, never as forbidden.
func (s *Store) Get(sessionID, jobID string) (*Archive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.jobs[jobID]
	if !ok || a.SessionID != sessionID {
		return nil, domain.ErrArchiveUnavailable
	}
	if s.expiredLocked(a) {
		s.removeLocked(a)
		return nil, domain.ErrArchiveUnavailable
	}
	return a, nil
}

// Latest returns the most recent archive produced by sessionID.
func (s *Store) Latest(sessionID string) (*Archive, error) {
	s.mu.Lock()
	jobID, ok := s.latest[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrArchiveUnavailable
	}
	return s.Get(sessionID, jobID)
}

// DeleteSession drops every archive owned by sessionID.
func (s *Store) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.jobs {
		if a.SessionID == sessionID {
			delete(s.jobs, a.JobID)
		}
	}
	delete(s.latest, sessionID)
}

// Len returns the number of stored archives, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *Store) expiredLocked(a *Archive) bool {
	return !a.ExpiresAt.IsZero() && !s.now().Before(a.ExpiresAt)
}

func (s *Store) removeLocked(a *Archive) {
	delete(s.jobs, a.JobID)
	if s.latest[a.SessionID] == a.JobID {
		delete(s.latest, a.SessionID)
	}
}

func (s *Store) sweepLocked() {
	for _, a := range s.jobs {
		if s.expiredLocked(a) {
			s.removeLocked(a)
		}
	}
}
