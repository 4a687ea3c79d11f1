package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/formalizer/internal/testutils"
	"github.com/aretw0/formalizer/pkg/adapters/redis"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	return testutils.SetupRedis(t)
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client)
	ports.RunHistoryStoreContract(t, store, ports.DefaultHistoryLimit)
}

func TestRedisStore_CustomLimit(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client, redis.WithLimit(2))
	ports.RunHistoryStoreContract(t, store, 2)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	err := store.Append(ctx, sessionID, domain.HistoryEntry{ID: "e1", FormalText: "Dear Sir/Madam,"})
	require.NoError(t, err)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	// Key expiration in miniredis is driven by FastForward
	mr.FastForward(2 * time.Second)

	entries, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.Get(ctx, sessionID, "e1")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Append(ctx, "my-session", domain.HistoryEntry{ID: "e1"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:session:my-session"), "Expected list with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")

	require.NoError(t, store.Clear(ctx, "my-session"))
	assert.False(t, mr.Exists("custom:app:session:my-session"))
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)

	_, err := mr.Lpush(redis.DefaultPrefix+"session:broken", "{not json")
	require.NoError(t, err)

	_, err = store.List(context.Background(), "broken")
	assert.Error(t, err)
}

func TestRedisStore_ReservedLookingSessionIDs(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, redis.DefaultPrefix)
	ctx := context.Background()

	ports.RunHistoryStoreContract(t, store, ports.DefaultHistoryLimit)

	require.NoError(t, store.Append(ctx, "index", domain.HistoryEntry{ID: "e1"}))
	got, err := store.Get(ctx, "index", "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "index")

	// A held lock for "x" must not clash with a session named "lock:x".
	unlock, err := locker.Lock(ctx, "x", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "lock:x", domain.HistoryEntry{ID: "e2"}))
	require.NoError(t, unlock(ctx))

	// And a history for "lock:x" must not keep "x" from being locked.
	shortCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err = locker.Lock(shortCtx, "x", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	entries, err := store.List(ctx, "lock:x")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)
}
