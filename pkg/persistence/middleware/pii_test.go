package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/formalizer/pkg/adapters/memory"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	entry := domain.HistoryEntry{
		ID:           "e1",
		OriginalText: "mail jane.doe@example.com or call +1 (555) 123-4567 today",
		FormalText:   "Please reach me at jane.doe@example.com.",
		Tone:         domain.ToneConcise,
		Source:       domain.SourceFallback,
	}

	// 1. Append
	if err := secureStore.Append(ctx, sessionID, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Verify caller's entry is NOT MODIFIED
	if entry.OriginalText != "mail jane.doe@example.com or call +1 (555) 123-4567 today" {
		t.Error("Middleware modified the caller's entry")
	}

	// 2. Read from Underlying Store (Should be masked)
	stored, err := underlyingStore.Get(ctx, sessionID, "e1")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	if stored.OriginalText != "mail *** or call *** today" {
		t.Errorf("Unexpected masked original: %q", stored.OriginalText)
	}
	if stored.FormalText != "Please reach me at ***." {
		t.Errorf("Unexpected masked email: %q", stored.FormalText)
	}
}

func TestChain_Order(t *testing.T) {
	underlyingStore := memory.NewStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	if err := store.Append(ctx, "s", domain.HistoryEntry{ID: "e1", OriginalText: "ping bob@example.org now", FormalText: "ok"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Masked first, then encrypted: reading back yields the masked text.
	got, err := store.Get(ctx, "s", "e1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.OriginalText != "ping *** now" {
		t.Errorf("Unexpected text: %q", got.OriginalText)
	}
}
