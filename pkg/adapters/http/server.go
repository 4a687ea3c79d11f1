package http

import (
	_ "embed"
	"log/slog"
	"net/http"

	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/pkg/ports"
	"github.com/aretw0/formalizer/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes caps request bodies. The validator rejects anything above
// 500 words long before this limit matters for honest clients.
const MaxBodyBytes = 64 << 10

//go:embed index.html
var indexHTML []byte

// Server serves the formalizer over HTTP.
type Server struct {
	Engine   ports.Formalizer
	Sessions *session.Manager // Optional; history routes are disabled without it

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables per-session history recording and the history routes.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithMetrics exposes the given gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Formalizer, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/", s.Index)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tones", s.ListTones)
		r.Post("/validate", s.Validate)
		r.Post("/formalize", s.Formalize)

		if s.Sessions != nil {
			r.Route("/sessions/{sessionID}/history", func(r chi.Router) {
				r.Get("/", s.ListHistory)
				r.Delete("/", s.ClearHistory)
				r.Get("/{entryID}", s.GetHistoryEntry)
				r.Get("/{entryID}/download", s.DownloadHistoryEntry)
			})
		}
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
