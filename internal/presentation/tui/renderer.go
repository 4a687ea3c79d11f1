package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// FallbackNotice is shown when the template produced the email.
const FallbackNotice = "The AI service was unavailable. A basic template was used instead."

// NewRenderer returns a function that renders markdown using glamour.
// A width of zero keeps glamour's default wrapping.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithEmoji(),
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// OutcomeMarkdown formats an outcome for terminal display.
func OutcomeMarkdown(out domain.Outcome) string {
	var b strings.Builder

	label := out.Tone
	if t, ok := domain.LookupTone(out.Tone); ok {
		label = t.Label()
	}
	fmt.Fprintf(&b, "## %s email\n\n", label)
	if out.Source == domain.SourceFallback {
		fmt.Fprintf(&b, "> %s\n\n", FallbackNotice)
	}
	fence := codeFence(out.Text)
	b.WriteString(fence + "text\n")
	b.WriteString(out.Text)
	b.WriteString("\n" + fence + "\n")
	return b.String()
}

// codeFence returns a backtick fence longer than any backtick run in text,
// so model output cannot close the block early.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

// TonesMarkdown formats the tone registry as a table.
func TonesMarkdown(tones []domain.Tone) string {
	var b strings.Builder
	b.WriteString("| Tone | Style |\n|---|---|\n")
	for _, t := range tones {
		fmt.Fprintf(&b, "| %s | %s |\n", t.Label(), t.PromptModifier)
	}
	return b.String()
}
