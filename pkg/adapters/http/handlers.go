package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aretw0/formalizer"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DownloadFilename is the attachment name used for downloaded emails.
const DownloadFilename = "formal_email.txt"

// FormalizeRequest is the body of POST /api/formalize.
type FormalizeRequest struct {
	Text      string `json:"text"`
	Tone      string `json:"tone,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// FormalizeResponse is returned by POST /api/formalize.
type FormalizeResponse struct {
	ID     string        `json:"id,omitempty"`
	Text   string        `json:"text"`
	Source domain.Source `json:"source"`
	Tone   string        `json:"tone"`
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Index serves the single page UI.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "err", err)
	}

	configured := false
	if c, ok := s.Engine.(interface{ Configured() bool }); ok {
		configured = c.Configured()
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"app":               "formalizer-http",
		"version":           strings.TrimSpace(formalizer.Version),
		"api_version":       apiVersion,
		"remote_configured": configured,
	})
}

// ListTones handles GET /api/tones.
func (s *Server) ListTones(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.Engine.Tones())
}

// Validate handles POST /api/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.Engine.Validate(body.Text))
}

// Formalize handles POST /api/formalize.
func (s *Server) Formalize(w http.ResponseWriter, r *http.Request) {
	var body FormalizeRequest
	if !s.decode(w, r, &body) {
		return
	}

	if body.Tone == "" {
		body.Tone = domain.DefaultTone
	}
	if _, ok := domain.LookupTone(body.Tone); !ok {
		s.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "unknown tone: " + body.Tone, Reason: "unknown_tone"})
		return
	}

	if body.SessionID != "" && s.Sessions != nil {
		entry, err := s.Sessions.Formalize(r.Context(), body.SessionID, body.Text, body.Tone)
		if err != nil && entry.FormalText == "" {
			s.formalizeError(w, r, err)
			return
		}
		if err != nil {
			// The email exists; only the bookkeeping failed.
			s.logger.Warn("Formalize: history not recorded", "err", err, "session_id", body.SessionID)
			entry.ID = ""
		}
		s.writeJSON(w, r, http.StatusOK, FormalizeResponse{
			ID:     entry.ID,
			Text:   entry.FormalText,
			Source: entry.Source,
			Tone:   entry.Tone,
		})
		return
	}

	out, err := s.Engine.Formalize(r.Context(), body.Text, body.Tone)
	if err != nil {
		s.formalizeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, FormalizeResponse{Text: out.Text, Source: out.Source, Tone: out.Tone})
}

func (s *Server) formalizeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  verr.Reason.Message(),
			Reason: string(verr.Reason),
		})
		return
	}
	s.logger.Error("Formalize failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
	s.writeError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "formalization failed"})
}

// ListHistory handles GET /api/sessions/{sessionID}/history.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Sessions.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.historyError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	s.writeJSON(w, r, http.StatusOK, entries)
}

// ClearHistory handles DELETE /api/sessions/{sessionID}/history.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Clear(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.historyError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistoryEntry handles GET /api/sessions/{sessionID}/history/{entryID}.
func (s *Server) GetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.Sessions.Entry(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "entryID"))
	if err != nil {
		s.historyError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, entry)
}

// DownloadHistoryEntry serves a recorded email as a plain text attachment.
func (s *Server) DownloadHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.Sessions.Entry(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "entryID"))
	if err != nil {
		s.historyError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	_, _ = w.Write([]byte(entry.FormalText))
}

func (s *Server) historyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		s.writeError(w, r, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSessionRequired):
		s.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("History request failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		s.writeError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "history unavailable"})
	}
}

// decode reads a JSON body capped at MaxBodyBytes. It writes the error response itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return false
		}
		s.logger.Warn("Invalid request body", "err", err, "path", r.URL.Path)
		s.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	s.writeJSON(w, r, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err, "path", r.URL.Path)
	}
}
