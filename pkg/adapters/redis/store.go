package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "formalizer:history:"

// Store implements ports.HistoryStore using a Redis list per session, stored
// at prefix+"session:"+id. Entries are JSON encoded; LPUSH + LTRIM keeps the
// newest entries at the head.
type Store struct {
	client *backend.Client
	prefix string
	limit  int
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of idle session histories.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for histories.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLimit sets how many entries are retained per session.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		limit:  ports.DefaultHistoryLimit,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Session lists, the index and locks ("lock:") live in separate namespaces
// under the prefix, so no session ID can address another kind of key.
func (s *Store) key(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Append pushes the entry to the head of the session list and trims the tail.
func (s *Store) Append(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	// MULTI/EXEC so concurrent appends never observe an untrimmed list
	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.LPush(ctx, s.key(sessionID), data)
		pipe.LTrim(ctx, s.key(sessionID), 0, int64(s.limit-1))
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key(sessionID), s.ttl)
		}

		// Index (ZSET) scored by expiry, pruned lazily in Sessions.
		score := float64(time.Now().Add(s.ttl).Unix())
		if s.ttl == 0 {
			score = 4102444800 // 2100-01-01
		}
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// List returns the session history, newest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get scans the (bounded) session list for the entry.
func (s *Store) Get(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error) {
	entries, err := s.List(ctx, sessionID)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	for _, e := range entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, domain.ErrEntryNotFound
}

// Clear removes the session history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)

	_, err := pipe.Exec(ctx)
	return err
}

// Sessions returns sessions with live history, pruning expired index members first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
