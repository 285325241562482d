package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/wishlist"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is everything a shopper accumulates during one visit.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	Cart      Cart              `json:"cart"`
	Wishlist  wishlist.Wishlist `json:"wishlist"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store keeps sessions for their lifetime. Implementations expire sessions
// after their TTL; nothing outlives the session.
type Store interface {
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[uuid.UUID]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates a store whose sessions expire ttl after their last
// save. A zero ttl keeps sessions until the process exits.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if entry.expired(s.now()) {
		if fresh, ok := s.evictIfExpired(id); ok {
			return &fresh, nil
		}
		return nil, ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

// evictIfExpired re-reads id under the write lock, since a Save may have
// refreshed it after the read lock was released. It returns the live session
// when one is still there.
func (s *MemoryStore) evictIfExpired(id uuid.UUID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if entry.expired(s.now()) {
		delete(s.sessions, id)
		return Session{}, false
	}
	return entry.session, true
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (s *MemoryStore) Save(ctx context.Context, session *Session) error {
	entry := memoryEntry{session: *session}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = entry
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.WithField("sessions", n).Debug("expired sessions swept")
			}
		}
	}
}
