package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock may be held.
const DefaultLockTTL = 10 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates formalization plus history bookkeeping per session.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	engine ports.Formalizer
	store  ports.HistoryStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides how entry IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Session Manager over the given formalizer and history store.
func NewManager(engine ports.Formalizer, store ports.HistoryStore, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Formalize runs the formalizer and records the outcome in the session history.
//
// Validation errors are returned unchanged and nothing is recorded.
// The remote call runs outside the session lock; only the append is serialized.
func (m *Manager) Formalize(ctx context.Context, sessionID, rawText, toneName string) (domain.HistoryEntry, error) {
	if sessionID == "" {
		return domain.HistoryEntry{}, domain.ErrSessionRequired
	}

	outcome, err := m.engine.Formalize(ctx, rawText, toneName)
	if err != nil {
		return domain.HistoryEntry{}, err
	}

	entry := domain.HistoryEntry{
		ID:           m.newID(),
		Timestamp:    m.now().UTC(),
		OriginalText: rawText,
		FormalText:   outcome.Text,
		Tone:         outcome.Tone,
		Source:       outcome.Source,
	}

	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Append(ctx, sessionID, entry)
	})
	if err != nil {
		return entry, fmt.Errorf("failed to record history: %w", err)
	}

	m.logger.Debug("formalization recorded",
		"session_id", sessionID,
		"entry_id", entry.ID,
		"source", entry.Source,
		"tone", entry.Tone,
	)
	return entry, nil
}

// History returns the session history, newest first.
func (m *Manager) History(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}
	var entries []domain.HistoryEntry
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		entries, err = m.store.List(ctx, sessionID)
		return err
	})
	return entries, err
}

// Entry returns one entry of the session history.
func (m *Manager) Entry(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error) {
	if sessionID == "" {
		return domain.HistoryEntry{}, domain.ErrSessionRequired
	}

	var entry domain.HistoryEntry
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		entry, err = m.store.Get(ctx, sessionID, entryID)
		return err
	})
	return entry, err
}

// Clear removes the session history.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrSessionRequired
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Clear(ctx, sessionID)
	})
}

// Store returns the underlying history store.
func (m *Manager) Store() ports.HistoryStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
