package domain

// ValidationReason identifies why raw input was rejected.
type ValidationReason string

const (
	ReasonEmpty    ValidationReason = "empty"
	ReasonTooShort ValidationReason = "too_short"
	ReasonTooLong  ValidationReason = "too_long"
)

// Message returns the user-facing text for the reason.
func (r ValidationReason) Message() string {
	switch r {
	case ReasonEmpty:
		return "Enter some text."
	case ReasonTooShort:
		return "Enter at least 3 words."
	case ReasonTooLong:
		return "Text too long, max 500 words."
	default:
		return ""
	}
}

// ValidationResult is produced fresh on every validation call.
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Reason    ValidationReason `json:"reason,omitempty"`
	Message   string           `json:"error,omitempty"`
	WordCount int              `json:"word_count"`
}

// Err converts an invalid result into a *ValidationError. Valid results return nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}
