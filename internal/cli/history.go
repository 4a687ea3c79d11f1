package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aretw0/formalizer/pkg/domain"
)

// previewLength matches the width of the recent conversions list in the UI.
const previewLength = 50

// HistoryOptions selects what the history command prints.
type HistoryOptions struct {
	SessionID string
	EntryID   string // Prints only the formal text of this entry
	JSON      bool
	Clear     bool
}

// History prints, or clears, a session history.
func History(ctx context.Context, app *App, opts HistoryOptions, out io.Writer) error {
	if opts.Clear {
		if err := app.Sessions.Clear(ctx, opts.SessionID); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "History cleared for session %q\n", opts.SessionID)
		return err
	}

	if opts.EntryID != "" {
		entry, err := app.Sessions.Entry(ctx, opts.SessionID, opts.EntryID)
		if err != nil {
			return err
		}
		if opts.JSON {
			return writeJSON(out, entry)
		}
		_, err = fmt.Fprintln(out, entry.FormalText)
		return err
	}

	entries, err := app.Sessions.History(ctx, opts.SessionID)
	if err != nil {
		return err
	}
	if opts.JSON {
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return writeJSON(out, entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintf(out, "No history for session %q\n", opts.SessionID)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTONE\tSOURCE\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp.Local().Format(time.DateTime), e.Tone, e.Source, e.Preview(previewLength))
	}
	return tw.Flush()
}

// Sessions lists known sessions when the store can enumerate them.
func Sessions(ctx context.Context, app *App, out io.Writer) error {
	if app.index == nil {
		return fmt.Errorf("history store cannot list sessions")
	}
	ids, err := app.index.Sessions(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
