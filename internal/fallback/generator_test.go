package fallback

import (
	"strings"
	"testing"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerate_Concise(t *testing.T) {
	got := Generate("hey can u send the report", domain.MustTone(domain.ToneConcise))
	assert.Equal(t, "Subject: Auto-generated Email\n\nHello,\n\nhey can u send the report\n\nRegards,\n[Your Name]", got)
}

func TestGenerate_TotalOverRegistry(t *testing.T) {
	inputs := []string{"x", "  padded text here  ", "multi\nline\nmessage", "ünïcödé wörds ok"}
	for _, tone := range domain.Tones() {
		for _, in := range inputs {
			got := Generate(in, tone)
			assert.NotEmpty(t, got)
			assert.Contains(t, got, tone.Salutation)
			assert.Contains(t, got, tone.Closing)
			assert.Contains(t, got, "\n\n"+strings.TrimSpace(in)+"\n\n")
		}
	}
}

func TestGenerate_TrimsInput(t *testing.T) {
	got := Generate("\n  hello world again \t", domain.MustTone(domain.ToneFriendly))
	assert.Equal(t, "Subject: Auto-generated Email\n\nHi there,\n\nhello world again\n\nCheers,\n[Your Name]", got)
}

