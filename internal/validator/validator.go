package validator

import (
	"strings"

	"github.com/aretw0/formalizer/pkg/domain"
)

const (
	// MinWords is the smallest accepted message, in whitespace-delimited words.
	MinWords = 3
	// MaxWords is the largest accepted message, in whitespace-delimited words.
	MaxWords = 500
)

// Validate checks raw user text against the word-count bounds.
// It is a pure function: the same input always yields the same result.
func Validate(text string) domain.ValidationResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(domain.ReasonEmpty, 0)
	}

	words := CountWords(trimmed)
	switch {
	case words < MinWords:
		return invalid(domain.ReasonTooShort, words)
	case words > MaxWords:
		return invalid(domain.ReasonTooLong, words)
	}

	return domain.ValidationResult{Valid: true, WordCount: words}
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func invalid(reason domain.ValidationReason, words int) domain.ValidationResult {
	return domain.ValidationResult{
		Valid:     false,
		Reason:    reason,
		Message:   reason.Message(),
		WordCount: words,
	}
}
