package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore implementation
// adheres to the defined interface contract. The store must be configured with the given limit.
func RunHistoryStoreContract(t *testing.T, store HistoryStore, limit int) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	entry := func(i int) domain.HistoryEntry {
		return domain.HistoryEntry{
			ID:           fmt.Sprintf("entry-%d", i),
			Timestamp:    time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
			OriginalText: fmt.Sprintf("casual message number %d", i),
			FormalText:   fmt.Sprintf("Subject: Message %d", i),
			Tone:         domain.ToneProfessional,
			Source:       domain.SourceFallback,
		}
	}

	t.Run("Append and Get", func(t *testing.T) {
		id := sessionID + "-get"
		defer func() { _ = store.Clear(ctx, id) }()

		e := entry(1)
		require.NoError(t, store.Append(ctx, id, e), "Append should not return error")

		loaded, err := store.Get(ctx, id, e.ID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, e.OriginalText, loaded.OriginalText)
		assert.Equal(t, e.FormalText, loaded.FormalText)
		assert.Equal(t, e.Tone, loaded.Tone)
		assert.Equal(t, e.Source, loaded.Source)
		assert.True(t, e.Timestamp.Equal(loaded.Timestamp), "timestamp should round-trip")
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, sessionID+"-missing", "nope")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("List Unknown Session", func(t *testing.T) {
		entries, err := store.List(ctx, sessionID+"-unknown")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Newest First and Bounded", func(t *testing.T) {
		id := sessionID + "-bounded"
		defer func() { _ = store.Clear(ctx, id) }()

		total := limit + 3
		for i := 0; i < total; i++ {
			require.NoError(t, store.Append(ctx, id, entry(i)))
		}

		entries, err := store.List(ctx, id)
		require.NoError(t, err)
		require.Len(t, entries, limit)
		assert.Equal(t, fmt.Sprintf("entry-%d", total-1), entries[0].ID, "newest entry must come first")
		assert.Equal(t, fmt.Sprintf("entry-%d", total-limit), entries[limit-1].ID, "oldest retained entry must come last")

		_, err = store.Get(ctx, id, "entry-0")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound, "truncated entries must be gone")
	})

	t.Run("Sessions Are Independent", func(t *testing.T) {
		a, b := sessionID+"-a", sessionID+"-b"
		defer func() {
			_ = store.Clear(ctx, a)
			_ = store.Clear(ctx, b)
		}()

		require.NoError(t, store.Append(ctx, a, entry(1)))
		require.NoError(t, store.Append(ctx, b, entry(2)))

		entriesA, err := store.List(ctx, a)
		require.NoError(t, err)
		require.Len(t, entriesA, 1)
		assert.Equal(t, "entry-1", entriesA[0].ID)

		_, err = store.Get(ctx, a, "entry-2")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("Clear", func(t *testing.T) {
		id := sessionID + "-clear"
		require.NoError(t, store.Append(ctx, id, entry(1)))

		require.NoError(t, store.Clear(ctx, id), "Clear should not return error")

		entries, err := store.List(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, entries, "List after Clear should be empty")
	})
}
