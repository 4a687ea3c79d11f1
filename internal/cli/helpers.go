package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/formalizer/internal/config"
	"github.com/aretw0/formalizer/internal/logging"
	"github.com/aretw0/formalizer/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from config.
// Logs always go to Stderr so Stdout stays clean for emails and MCP traffic.
func createLogger(cfg config.Logging, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(cfg.Format, level), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.Debug("Input Rejected", "reason", e.Reason, "words", e.WordCount)
		},
		OnRemoteAttempt: func(ctx context.Context, e *domain.RemoteEvent) {
			if e.Failure != nil {
				logger.Debug("Remote Attempt (Failed)", "tone", e.Tone, "reason", e.Failure.Reason, "duration", e.Duration)
			} else {
				logger.Debug("Remote Attempt (Success)", "tone", e.Tone, "duration", e.Duration)
			}
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			logger.Debug("Outcome", "tone", e.Tone, "source", e.Source)
		},
	}
}
