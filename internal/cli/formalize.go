package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/formalizer/internal/presentation/tui"
	"github.com/aretw0/formalizer/pkg/domain"
)

// ExitCodeInvalidInput is returned by the CLI when the message fails validation.
const ExitCodeInvalidInput = 2

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// FormalizeOptions drives a one-shot formalization.
type FormalizeOptions struct {
	Tone      string
	SessionID string // Records the result when set
	Raw       bool   // Plain text even on a terminal
	Width     int    // Rendering width, 0 for default
}

// ReadMessage joins args, or reads in when there are none.
func ReadMessage(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(io.LimitReader(in, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return string(b), nil
}

// Formalize rewrites text and writes the email to out.
func Formalize(ctx context.Context, app *App, text string, opts FormalizeOptions, out io.Writer) error {
	if opts.Tone == "" {
		opts.Tone = domain.DefaultTone
	}
	if _, ok := domain.LookupTone(opts.Tone); !ok {
		return fmt.Errorf("unknown tone %q (see 'formalizer tones')", opts.Tone)
	}

	var (
		outcome domain.Outcome
		err     error
	)
	if opts.SessionID != "" {
		var entry domain.HistoryEntry
		entry, err = app.Sessions.Formalize(ctx, opts.SessionID, text, opts.Tone)
		if err != nil && entry.FormalText != "" {
			app.Logger.Warn("History not recorded", "err", err, "session_id", opts.SessionID)
			err = nil
		}
		outcome = domain.Outcome{Text: entry.FormalText, Source: entry.Source, Tone: entry.Tone}
	} else {
		outcome, err = app.Engine.Formalize(ctx, text, opts.Tone)
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return &ExitError{Code: ExitCodeInvalidInput, Err: errors.New(verr.Reason.Message())}
	}
	if err != nil {
		return err
	}

	if opts.Raw {
		_, err = fmt.Fprintln(out, outcome.Text)
		return err
	}

	render, err := tui.NewRenderer(opts.Width)
	if err != nil {
		return err
	}
	rendered, err := render(tui.OutcomeMarkdown(outcome))
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// PrintTones lists the tones, rendered unless raw is set.
func PrintTones(out io.Writer, tones []domain.Tone, raw bool, width int) error {
	if raw {
		for _, t := range tones {
			if _, err := fmt.Fprintf(out, "%s\t%s\n", t.Label(), t.PromptModifier); err != nil {
				return err
			}
		}
		return nil
	}
	render, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	rendered, err := render(tui.TonesMarkdown(tones))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
