package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formalizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Remote, cfg.Remote)
	assert.Equal(t, 15, cfg.History.Limit)
	assert.Empty(t, cfg.Remote.APIKey, "absent credential is a valid state")
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
server:
  port: "9090"
remote:
  model: llama-3.1-8b-instant
  timeout: 10s
history:
  limit: 5
redis:
  addr: localhost:6379
  db: "2"
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Remote.Model)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, Defaults().Remote.Endpoint, cfg.Remote.Endpoint)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, "server:\n  port: \"9090\"\n")
	t.Setenv("FORMALIZER_PORT", "7070")
	t.Setenv("FORMALIZER_TIMEOUT", "2s")
	t.Setenv("FORMALIZER_HISTORY_LIMIT", "3")
	t.Setenv(EnvAPIKey, "gsk-secret")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 3, cfg.History.Limit)
	assert.Equal(t, "gsk-secret", cfg.Remote.APIKey)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := LoadFrom(writeYAML(t, "remote:\n  api_key: nope\n"))
		assert.Error(t, err, "credentials must not be accepted from the config file")
	})

	t.Run("bad duration env", func(t *testing.T) {
		t.Setenv("FORMALIZER_TIMEOUT", "soon")
		_, err := LoadFrom("")
		assert.ErrorContains(t, err, "FORMALIZER_TIMEOUT")
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := LoadFrom(writeYAML(t, "history:\n  limit: 0\n"))
		assert.ErrorContains(t, err, "history.limit")
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("FORMALIZER_LOG_LEVEL", "chatty")
		_, err := LoadFrom("")
		assert.Error(t, err)
	})

	t.Run("bad bool env", func(t *testing.T) {
		t.Setenv("FORMALIZER_HISTORY_REDACT_PII", "maybe")
		_, err := LoadFrom("")
		assert.ErrorContains(t, err, "FORMALIZER_HISTORY_REDACT_PII")
	})

	t.Run("history key in yaml", func(t *testing.T) {
		_, err := LoadFrom(writeYAML(t, "history:\n  encryption_key: nope\n"))
		assert.Error(t, err, "keys must not be accepted from the config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFrom(writeYAML(t, "server: [unterminated"))
		assert.ErrorContains(t, err, "parse")
	})
}

func TestLoadFrom_HistoryProtection(t *testing.T) {
	path := writeYAML(t, "history:\n  redact_pii: true\n")
	t.Setenv(EnvHistoryKey, "a2V5")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.History.RedactPII)
	assert.Equal(t, "a2V5", cfg.History.EncryptionKey)
}
