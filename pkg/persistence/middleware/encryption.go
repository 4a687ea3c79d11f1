package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
)

// envelopePrefix marks an encrypted text field.
const envelopePrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.HistoryStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts the message and
// email text of every entry with AES-GCM. IDs, timestamps, tone and source stay
// readable for listing.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

// ParseKey decodes a base64 AES-256 key.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("history key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("history key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (m *encryptionMiddleware) Append(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	var err error
	if entry.OriginalText, err = m.seal(entry.OriginalText); err != nil {
		return err
	}
	if entry.FormalText, err = m.seal(entry.FormalText); err != nil {
		return err
	}
	return m.next.Append(ctx, sessionID, entry)
}

func (m *encryptionMiddleware) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	entries, err := m.next.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i], err = m.open(entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (m *encryptionMiddleware) Get(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error) {
	entry, err := m.next.Get(ctx, sessionID, entryID)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	return m.open(entry)
}

func (m *encryptionMiddleware) Clear(ctx context.Context, sessionID string) error {
	return m.next.Clear(ctx, sessionID)
}

func (m *encryptionMiddleware) seal(text string) (string, error) {
	ciphertext, err := encrypt([]byte(text), m.config.ActiveKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt history entry: %w", err)
	}
	return envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (m *encryptionMiddleware) open(entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	var err error
	if entry.OriginalText, err = m.unseal(entry.OriginalText); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}
	if entry.FormalText, err = m.unseal(entry.FormalText); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}
	return entry, nil
}

func (m *encryptionMiddleware) unseal(field string) (string, error) {
	encoded, ok := strings.CutPrefix(field, envelopePrefix)
	if !ok {
		// Fail secure: plaintext in an encrypted store is not trusted.
		return "", errors.New("history entry is missing encrypted data envelope")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt history entry: %w", err)
	}
	return string(plainText), nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
