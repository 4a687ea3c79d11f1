package domain

import (
	"context"
	"time"
)

// RemoteEvent describes a completed remote attempt.
type RemoteEvent struct {
	Tone     string
	Duration time.Duration
	Failure  *RemoteFailure // nil on success
}

// OutcomeEvent describes a resolved formalization.
type OutcomeEvent struct {
	Tone   string
	Source Source
}

// ValidationEvent describes rejected input.
type ValidationEvent struct {
	Reason    ValidationReason
	WordCount int
}

// LifecycleHooks are optional observers invoked synchronously by the orchestrator.
// Any nil hook is skipped.
type LifecycleHooks struct {
	OnValidationFailed func(ctx context.Context, e *ValidationEvent)
	OnRemoteAttempt    func(ctx context.Context, e *RemoteEvent)
	OnOutcome          func(ctx context.Context, e *OutcomeEvent)
}

// Merge returns hooks that call h and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnValidationFailed: chain(h.OnValidationFailed, other.OnValidationFailed),
		OnRemoteAttempt:    chain(h.OnRemoteAttempt, other.OnRemoteAttempt),
		OnOutcome:          chain(h.OnOutcome, other.OnOutcome),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
