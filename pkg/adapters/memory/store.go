package memory

import (
	"context"
	"sync"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
)

// Store implements ports.HistoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string][]domain.HistoryEntry
	limit int
	mu    sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithLimit sets how many entries are retained per session.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// NewStore creates a new in-memory history store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string][]domain.HistoryEntry),
		limit: ports.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records the entry at the head of the session history.
func (s *Store) Append(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data[sessionID]
	n := min(len(prev)+1, s.limit)

	// Fresh slice so readers holding an older List result are unaffected
	entries := make([]domain.HistoryEntry, 0, n)
	entries = append(entries, entry)
	entries = append(entries, prev[:n-1]...)
	s.data[sessionID] = entries
	return nil
}

// List returns a copy of the session history, newest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[sessionID]
	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Get retrieves one entry from the session history.
func (s *Store) Get(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.data[sessionID] {
		if e.ID == entryID {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, domain.ErrEntryNotFound
}

// Clear removes the session history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// Sessions returns the IDs of sessions with recorded history.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
