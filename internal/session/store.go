package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type storedSession struct {
	history  *History
	lastSeen time.Time
}

// Store keeps one History per browser session. A session ends when End is
// called or when it has been idle longer than the store's TTL.
type Store struct {
	mu       sync.Mutex
	idleTTL  time.Duration
	now      func() time.Time
	sessions map[string]*storedSession
}

// NewStore returns an empty store. A non-positive idleTTL disables expiry.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*storedSession),
	}
}

// Open returns the live session for id. An empty, unknown or expired id
// begins a new, empty session under a freshly generated id.
func (s *Store) Open(id string) (string, *History) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictIdleLocked(now)

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return id, sess.history
	}

	id = uuid.NewString()
	h := &History{}
	s.sessions[id] = &storedSession{history: h, lastSeen: now}
	slog.Debug("Started session", "session", id)
	return id, h
}

// Lookup returns the live session for id without creating one.
func (s *Store) Lookup(id string) (*History, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		s.endLocked(id)
		return nil, false
	}
	sess.lastSeen = now
	return sess.history, true
}

// End destroys the session and its history.
func (s *Store) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked(id)
}

// EvictIdle ends every session idle for longer than the TTL and reports how
// many were removed.
func (s *Store) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictIdleLocked(s.now())
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *storedSession, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(sess.lastSeen) > s.idleTTL
}

func (s *Store) evictIdleLocked(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.endLocked(id)
			n++
		}
	}
	return n
}

func (s *Store) endLocked(id string) {
	if sess, ok := s.sessions[id]; ok {
		sess.history.Clear()
		delete(s.sessions, id)
		slog.Debug("Ended session", "session", id)
	}
}
