// Package fallback synthesizes the templated email used whenever the remote
// model is unavailable. Generate is total: it never fails and never calls out.
package fallback

import (
	"strings"

	"github.com/aretw0/formalizer/pkg/domain"
)

// Subject is the fixed subject line of every templated email.
const Subject = "Subject: Auto-generated Email"

// Generate wraps the trimmed text in the tone's salutation and closing.
func Generate(text string, tone domain.Tone) string {
	var b strings.Builder
	b.WriteString(Subject)
	b.WriteString("\n\n")
	b.WriteString(tone.Salutation)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\n")
	b.WriteString(tone.Closing)
	return b.String()
}
