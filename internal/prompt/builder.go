// Package prompt builds the single instruction string sent to the remote model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/aretw0/formalizer/pkg/domain"
)

// MessageLabel separates the instructions from the verbatim user text.
const MessageLabel = "Message:"

// Build combines the user's text and the tone into one instruction.
// The text is appended verbatim after MessageLabel.
func Build(text string, tone domain.Tone) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following casual message into a %s professional email. ", tone.PromptModifier)
	b.WriteString("Include a suitable subject line, proper salutation, clear body, and a professional closing. ")
	b.WriteString("Do not include any extra explanations outside the email.")
	b.WriteString("\n\n")
	b.WriteString(MessageLabel)
	b.WriteString("\n")
	b.WriteString(text)
	return b.String()
}
