package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/aretw0/formalizer/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d\s().\-]{7,}\d`,
}

type piiMiddleware struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks text matching the patterns
// before entries reach the store. Callers still see the unmasked email they
// were given; only the persisted copy is redacted.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Append(ctx context.Context, sessionID string, entry domain.HistoryEntry) error {
	entry.OriginalText = m.mask(entry.OriginalText)
	entry.FormalText = m.mask(entry.FormalText)
	return m.next.Append(ctx, sessionID, entry)
}

func (m *piiMiddleware) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	return m.next.List(ctx, sessionID)
}

func (m *piiMiddleware) Get(ctx context.Context, sessionID, entryID string) (domain.HistoryEntry, error) {
	return m.next.Get(ctx, sessionID, entryID)
}

func (m *piiMiddleware) Clear(ctx context.Context, sessionID string) error {
	return m.next.Clear(ctx, sessionID)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
