package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/formalizer"
	"github.com/aretw0/formalizer/pkg/adapters/memory"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/observability"
	"github.com/aretw0/formalizer/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRemote always answers with the same email.
type stubRemote struct{ text string }

func (s stubRemote) Complete(ctx context.Context, prompt string) domain.RemoteResult {
	return domain.RemoteSuccess(s.text)
}

func newTestHandler(t *testing.T, opts ...formalizer.Option) (http.Handler, *session.Manager) {
	t.Helper()
	eng := formalizer.New(opts...)
	mgr := session.NewManager(eng, memory.NewStore())
	return NewHandler(eng, WithSessions(mgr)), mgr
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListTones(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/api/tones", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tones []domain.Tone
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tones))
	require.Len(t, tones, 6)
	assert.Equal(t, domain.ToneProfessional, tones[0].Name)
	assert.Equal(t, "🏢", tones[0].Icon)
	assert.Equal(t, domain.ToneDiplomatic, tones[5].Name)
}

func TestFormalize_Fallback(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "hey can u send the report", Tone: domain.ToneConcise})
	require.Equal(t, http.StatusOK, w.Code)

	var resp FormalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.ID)
	assert.Equal(t, domain.SourceFallback, resp.Source)
	assert.Equal(t, domain.ToneConcise, resp.Tone)
	assert.Equal(t, "Subject: Auto-generated Email\n\nHello,\n\nhey can u send the report\n\nRegards,\n[Your Name]", resp.Text)
}

func TestFormalize_RemoteAndDefaultTone(t *testing.T) {
	h, _ := newTestHandler(t, formalizer.WithRemote(stubRemote{text: "Subject: Hello\n\nDear team,"}))

	w := do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "hello team how are you"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp FormalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.SourceRemote, resp.Source)
	assert.Equal(t, domain.DefaultTone, resp.Tone)
	assert.Equal(t, "Subject: Hello\n\nDear team,", resp.Text)
}

func TestFormalize_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		body   any
		status int
		reason string
	}{
		{name: "too short", body: FormalizeRequest{Text: "hi", Tone: domain.ToneFriendly}, status: http.StatusUnprocessableEntity, reason: "too_short"},
		{name: "empty", body: FormalizeRequest{Text: "   "}, status: http.StatusUnprocessableEntity, reason: "empty"},
		{name: "too long", body: FormalizeRequest{Text: strings.Repeat("word ", 501)}, status: http.StatusUnprocessableEntity, reason: "too_long"},
		{name: "unknown tone", body: FormalizeRequest{Text: "one two three", Tone: "Sarcastic"}, status: http.StatusBadRequest, reason: "unknown_tone"},
		{name: "bad json", body: "{not json", status: http.StatusBadRequest},
		{name: "oversized", body: FormalizeRequest{Text: strings.Repeat("a", MaxBodyBytes)}, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/formalize", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.reason, resp.Reason)
		})
	}
}

func TestValidate(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/api/validate", ValidateRequest{Text: "just two"})
	require.Equal(t, http.StatusOK, w.Code)

	var res domain.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, domain.ReasonTooShort, res.Reason)
	assert.Equal(t, 2, res.WordCount)
	assert.NotEmpty(t, res.Message)
}

func TestHistoryLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)
	base := "/api/sessions/s1/history"

	w := do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "please find the attached file", Tone: domain.ToneFormal, SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	var created FormalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Validation failures are not recorded.
	w = do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "nope", SessionID: "s1"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
	assert.Equal(t, "please find the attached file", entries[0].OriginalText)

	w = do(t, h, http.MethodGet, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, base+"/"+created.ID+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="formal_email.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, created.Text, w.Body.String())

	w = do(t, h, http.MethodGet, base+"/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHistoryRoutesRequireSessions(t *testing.T) {
	h := NewHandler(formalizer.New())

	w := do(t, h, http.MethodGet, "/api/sessions/s1/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Formalize still works, nothing is recorded.
	w = do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "one two three", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp FormalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.ID)
}

func TestInfoAndSpec(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "formalizer-http", info["app"])
	assert.Equal(t, strings.TrimSpace(formalizer.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, false, info["remote_configured"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	doc, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	for _, path := range []string{"/api/formalize", "/api/tones", "/api/validate", "/api/sessions/{sessionID}/history/{entryID}/download"} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}
}

func TestHealthIndexAndCORS(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email Formalizer")

	w = do(t, h, http.MethodOptions, "/api/formalize", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	eng := formalizer.New(formalizer.WithLifecycleHooks(metrics.Hooks()))
	h := NewHandler(eng, WithMetrics(reg))

	w := do(t, h, http.MethodPost, "/api/formalize", FormalizeRequest{Text: "one two three", Tone: domain.ToneFriendly})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `formalizer_outcomes_total{source="fallback",tone="Friendly"} 1`)
	assert.Contains(t, body, `formalizer_remote_failures_total{reason="unconfigured"} 1`)
}
