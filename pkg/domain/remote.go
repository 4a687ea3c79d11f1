package domain

// FailureReason classifies a failed remote formalization attempt.
type FailureReason string

const (
	FailureUnconfigured  FailureReason = "unconfigured"
	FailureTimeout       FailureReason = "timeout"
	FailureAPIError      FailureReason = "api_error"
	FailureEmptyResponse FailureReason = "empty_response"
)

// RemoteResult is the typed outcome of one remote attempt.
// Exactly one of Text (non-empty) or Failure (non-nil) is set.
type RemoteResult struct {
	Text    string
	Failure *RemoteFailure
}

// OK reports whether the attempt produced usable text.
func (r RemoteResult) OK() bool {
	return r.Failure == nil && r.Text != ""
}

// RemoteSuccess builds a successful result.
func RemoteSuccess(text string) RemoteResult {
	return RemoteResult{Text: text}
}

// RemoteFailed builds a failed result. cause may be nil.
func RemoteFailed(reason FailureReason, cause error) RemoteResult {
	return RemoteResult{Failure: &RemoteFailure{Reason: reason, Err: cause}}
}
