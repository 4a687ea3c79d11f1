package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/formalizer/internal/fallback"
	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/internal/prompt"
	"github.com/aretw0/formalizer/internal/validator"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
)

// DefaultRemoteTimeout bounds the single remote attempt.
const DefaultRemoteTimeout = 30 * time.Second

// Engine is the formalization orchestrator:
// validate → build prompt → call remote → fallback if needed.
//
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	remote  ports.RemoteFormalizer
	timeout time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithRemoteTimeout overrides the remote attempt deadline.
func WithRemoteTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithHooks registers lifecycle observers.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an orchestrator. A nil remote behaves as an unconfigured one.
func NewEngine(remote ports.RemoteFormalizer, opts ...EngineOption) *Engine {
	e := &Engine{
		remote:  remote,
		timeout: DefaultRemoteTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs input validation only.
func (e *Engine) Validate(text string) domain.ValidationResult {
	return validator.Validate(text)
}

// Tones lists the registered tones.
func (e *Engine) Tones() []domain.Tone {
	return domain.Tones()
}

// Formalize validates rawText and resolves it into an Outcome.
//
// An invalid input returns a *domain.ValidationError and nothing else happens.
// A valid input always yields an Outcome: remote failures are absorbed by the fallback.
// toneName must be registered; an unknown name panics (see domain.MustTone).
func (e *Engine) Formalize(ctx context.Context, rawText, toneName string) (domain.Outcome, error) {
	res := validator.Validate(rawText)
	if !res.Valid {
		e.logger.Debug("input rejected", "reason", res.Reason, "words", res.WordCount)
		if e.hooks.OnValidationFailed != nil {
			e.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{Reason: res.Reason, WordCount: res.WordCount})
		}
		return domain.Outcome{}, res.Err()
	}

	req := domain.Request{RawText: rawText, Tone: domain.MustTone(toneName)}
	return e.Resolve(ctx, req), nil
}

// Resolve runs the post-validation pipeline for an already valid request.
// Exactly one of the remote or fallback branches produces the Outcome.
func (e *Engine) Resolve(ctx context.Context, req domain.Request) domain.Outcome {
	result := e.callRemote(ctx, req)

	var out domain.Outcome
	if text := strings.TrimSpace(result.Text); result.Failure == nil && text != "" {
		out = domain.Outcome{Text: text, Source: domain.SourceRemote, Tone: req.Tone.Name}
	} else {
		out = domain.Outcome{
			Text:   fallback.Generate(req.RawText, req.Tone),
			Source: domain.SourceFallback,
			Tone:   req.Tone.Name,
		}
	}

	if e.hooks.OnOutcome != nil {
		e.hooks.OnOutcome(ctx, &domain.OutcomeEvent{Tone: out.Tone, Source: out.Source})
	}
	return out
}

func (e *Engine) callRemote(ctx context.Context, req domain.Request) domain.RemoteResult {
	start := time.Now()
	result := domain.RemoteFailed(domain.FailureUnconfigured, nil)
	if e.remote != nil {
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		result = e.remote.Complete(ctx, prompt.Build(req.RawText, req.Tone))
		cancel()
	}
	if result.Failure == nil && strings.TrimSpace(result.Text) == "" {
		result = domain.RemoteFailed(domain.FailureEmptyResponse, nil)
	}
	elapsed := time.Since(start)

	if result.Failure != nil {
		level := slog.LevelWarn
		if result.Failure.Reason == domain.FailureUnconfigured {
			level = slog.LevelDebug
		}
		e.logger.Log(ctx, level, "remote formalization unavailable, using template",
			"reason", result.Failure.Reason,
			"tone", req.Tone.Name,
			"duration", elapsed,
			"error", result.Failure.Err,
		)
	}

	if e.hooks.OnRemoteAttempt != nil {
		e.hooks.OnRemoteAttempt(ctx, &domain.RemoteEvent{
			Tone:     req.Tone.Name,
			Duration: elapsed,
			Failure:  result.Failure,
		})
	}
	return result
}
