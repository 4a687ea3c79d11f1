package domain

import "fmt"

// Tone is a named style profile. It drives both the instruction sent to the
// remote model and the fixed salutation/closing used by the template fallback.
type Tone struct {
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	PromptModifier string `json:"prompt_modifier"`
	Salutation     string `json:"salutation"`
	Closing        string `json:"closing"`
}

// Label returns the display label used by tone selectors ("🏢 Professional").
func (t Tone) Label() string {
	return t.Icon + " " + t.Name
}

// Registered tone names.
const (
	ToneProfessional = "Professional"
	ToneFriendly     = "Friendly"
	ToneConcise      = "Concise"
	ToneFormal       = "Formal"
	TonePersuasive   = "Persuasive"
	ToneDiplomatic   = "Diplomatic"
)

// DefaultTone is preselected by user interfaces.
const DefaultTone = ToneProfessional

// registry is read-only after package initialization.
var registry = [...]Tone{
	{
		Name:           ToneProfessional,
		Icon:           "🏢",
		PromptModifier: "professional and business-appropriate",
		Salutation:     "Dear Sir/Madam,",
		Closing:        "Best regards,\n[Your Name]",
	},
	{
		Name:           ToneFriendly,
		Icon:           "😊",
		PromptModifier: "warm, friendly yet professional",
		Salutation:     "Hi there,",
		Closing:        "Cheers,\n[Your Name]",
	},
	{
		Name:           ToneConcise,
		Icon:           "⚡",
		PromptModifier: "concise, brief, and direct",
		Salutation:     "Hello,",
		Closing:        "Regards,\n[Your Name]",
	},
	{
		Name:           ToneFormal,
		Icon:           "🎩",
		PromptModifier: "very formal, structured, highly professional",
		Salutation:     "Dear [Recipient Name],",
		Closing:        "Sincerely,\n[Your Name]",
	},
	{
		Name:           TonePersuasive,
		Icon:           "💪",
		PromptModifier: "persuasive, compelling, action-oriented",
		Salutation:     "Dear [Recipient Name],",
		Closing:        "Best regards,\n[Your Name]",
	},
	{
		Name:           ToneDiplomatic,
		Icon:           "🤝",
		PromptModifier: "diplomatic, tactful, sensitive",
		Salutation:     "Dear [Recipient Name],",
		Closing:        "Kind regards,\n[Your Name]",
	},
}

// Tones returns the registered tones in display order.
// The returned slice is a copy; mutating it does not affect the registry.
func Tones() []Tone {
	out := make([]Tone, len(registry))
	copy(out, registry[:])
	return out
}

// LookupTone resolves a tone by exact name.
// Boundaries receiving untrusted names (HTTP, MCP, CLI) use this to reject unknown tones.
func LookupTone(name string) (Tone, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return Tone{}, false
}

// MustTone resolves a tone by name and panics if it is not registered.
// Tone names reaching the core are always drawn from the registry, so a miss is a defect.
func MustTone(name string) Tone {
	t, ok := LookupTone(name)
	if !ok {
		panic(fmt.Sprintf("domain: unknown tone %q", name))
	}
	return t
}
