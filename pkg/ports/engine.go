package ports

import (
	"context"

	"github.com/aretw0/formalizer/pkg/domain"
)

// Formalizer is the driving port used by adapters (HTTP, MCP, CLI).
type Formalizer interface {
	// Formalize validates rawText and returns the remote or fallback outcome.
	// The only error it returns is a *domain.ValidationError.
	Formalize(ctx context.Context, rawText, toneName string) (domain.Outcome, error)

	// Validate runs input validation alone, for live feedback while typing.
	Validate(text string) domain.ValidationResult

	// Tones lists the registered tones in display order.
	Tones() []domain.Tone
}
