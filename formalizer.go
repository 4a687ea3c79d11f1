package formalizer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/formalizer/internal/runtime"
	"github.com/aretw0/formalizer/pkg/adapters/llm"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
)

// Engine is the high-level entry point for the Formalizer library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	remote  ports.RemoteFormalizer
	apiKey  string
	llmOpts []llm.Option
	timeout time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

var _ ports.Formalizer = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRemote injects the remote formalizer. Without it every request uses the template.
func WithRemote(remote ports.RemoteFormalizer) Option {
	return func(e *Engine) {
		e.remote = remote
	}
}

// WithAPIKey configures the default chat-completion client with the given credential.
// An empty key leaves the engine unconfigured.
func WithAPIKey(apiKey string, opts ...llm.Option) Option {
	return func(e *Engine) {
		e.apiKey = apiKey
		e.llmOpts = opts
	}
}

// WithRemoteTimeout bounds the single remote attempt (default 30s).
func WithRemoteTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Formalizer Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// An explicit remote wins over the credential shortcut.
	if eng.remote == nil && eng.apiKey != "" {
		opts := append([]llm.Option{llm.WithLogger(eng.logger)}, eng.llmOpts...)
		eng.remote = llm.NewClient(eng.apiKey, opts...)
	}

	eng.runtime = runtime.NewEngine(eng.remote,
		runtime.WithHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRemoteTimeout(eng.timeout),
	)
	return eng
}

// Formalize validates rawText and rewrites it in the named tone.
// See ports.Formalizer for the contract.
func (e *Engine) Formalize(ctx context.Context, rawText, toneName string) (domain.Outcome, error) {
	return e.runtime.Formalize(ctx, rawText, toneName)
}

// Validate checks rawText without formalizing it.
func (e *Engine) Validate(text string) domain.ValidationResult {
	return e.runtime.Validate(text)
}

// Tones lists the registered tones in display order.
func (e *Engine) Tones() []domain.Tone {
	return e.runtime.Tones()
}

// Configured reports whether a remote formalizer is wired in.
func (e *Engine) Configured() bool {
	if e.remote == nil {
		return false
	}
	if c, ok := e.remote.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}
