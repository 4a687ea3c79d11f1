package domain

import "time"

// Source tags where the text of an Outcome came from.
type Source string

const (
	SourceRemote   Source = "remote"   // Returned by the remote chat-completion model
	SourceFallback Source = "fallback" // Synthesized by the local template generator
)

// Request is a single formalization request, built per user action.
type Request struct {
	RawText string
	Tone    Tone
}

// Outcome is the final artifact shown to the user.
//
// When Source is SourceFallback, Text is never empty.
// When Source is SourceRemote, Text is exactly the trimmed remote content.
type Outcome struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	Tone   string `json:"tone"`
}

// HistoryEntry is a recorded outcome, owned by a HistoryStore.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	OriginalText string    `json:"original_text"`
	FormalText   string    `json:"formal_text"`
	Tone         string    `json:"tone"`
	Source       Source    `json:"source"`
}

// Preview returns the first n runes of the original text, with an ellipsis if truncated.
func (e HistoryEntry) Preview(n int) string {
	r := []rune(e.OriginalText)
	if len(r) <= n {
		return e.OriginalText
	}
	return string(r[:n]) + "..."
}
