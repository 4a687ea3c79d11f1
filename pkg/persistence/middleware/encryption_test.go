package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/formalizer/pkg/adapters/memory"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/persistence/middleware"
	"github.com/aretw0/formalizer/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleEntry(id string) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:           id,
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		OriginalText: "my-secret-sauce recipe attached",
		FormalText:   "Subject: Recipe\n\nDear team,",
		Tone:         domain.ToneFormal,
		Source:       domain.SourceRemote,
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	original := sampleEntry("e1")

	// 1. Append
	if err := secureStore.Append(ctx, sessionID, original); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	stored, err := underlyingStore.Get(ctx, sessionID, "e1")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	if strings.Contains(stored.OriginalText, "secret") || strings.Contains(stored.FormalText, "Recipe") {
		t.Fatalf("Expected texts to be hidden, found: %+v", stored)
	}
	if !strings.HasPrefix(stored.OriginalText, "enc:v1:") {
		t.Fatal("Expected encrypted envelope prefix")
	}
	if stored.Tone != original.Tone || stored.Source != original.Source || !stored.Timestamp.Equal(original.Timestamp) {
		t.Error("Metadata should stay readable")
	}

	// 3. Read via Middleware (Should be decrypted)
	loaded, err := secureStore.Get(ctx, sessionID, "e1")
	if err != nil {
		t.Fatalf("Get via middleware failed: %v", err)
	}
	if loaded != original {
		t.Errorf("Expected %+v, got %+v", original, loaded)
	}

	entries, err := secureStore.List(ctx, sessionID)
	if err != nil {
		t.Fatalf("List via middleware failed: %v", err)
	}
	if len(entries) != 1 || entries[0] != original {
		t.Errorf("Unexpected list: %+v", entries)
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())
	ports.RunHistoryStoreContract(t, store, ports.DefaultHistoryLimit)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	// Create middleware with OLD key to save initial entry
	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"

	// 1. Append with OLD key
	if err := secureStoreOld.Append(ctx, sessionID, sampleEntry("old")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// 2. Read with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	if _, err := secureStoreNew.Get(ctx, sessionID, "old"); err != nil {
		t.Fatalf("Get with rotated key failed: %v", err)
	}

	// 3. Append again (Should now use the NEW key)
	if err := secureStoreNew.Append(ctx, sessionID, sampleEntry("new")); err != nil {
		t.Fatalf("Append with new key failed: %v", err)
	}

	// 4. Verify we CANNOT read with just OLD key anymore
	if _, err := secureStoreOld.Get(ctx, sessionID, "new"); err == nil {
		t.Error("Expected failure when reading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Append(ctx, "s", sampleEntry("plain")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.List(ctx, "s"); err == nil {
		t.Error("Expected plaintext entries to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if string(got) != string(key) {
		t.Error("Decoded key mismatch")
	}

	if _, err := middleware.ParseKey("not base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
	if _, err := middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected error for short key")
	}
}
