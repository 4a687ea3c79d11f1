package ports

import (
	"context"

	"github.com/aretw0/formalizer/pkg/domain"
)

// DefaultHistoryLimit is the number of entries retained per session.
const DefaultHistoryLimit = 15

// HistoryStore keeps the most recent formalizations of each session.
// Entries are ordered newest first and the store truncates to its own limit.
type HistoryStore interface {
	// Append records an entry at the head of the session history and drops the oldest beyond the limit.
	Append(ctx context.Context, sessionID string, entry domain.HistoryEntry) error

	// List returns the session history, newest first. An unknown session yields an empty slice.
	List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error)

	// Get returns a single entry.
	// Returns domain.ErrEntryNotFound if the entry is not in the session history.
	Get(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error)

	// Clear removes the whole session history.
	Clear(ctx context.Context, sessionID string) error
}
