package ports

import (
	"context"

	"github.com/aretw0/formalizer/pkg/domain"
)

// RemoteFormalizer rewrites a prompt through a hosted chat-completion model.
//
// Implementations make at most one outbound attempt per call and never return
// transport-level errors: every failure is folded into RemoteResult.Failure.
// The deadline carried by ctx bounds the attempt.
type RemoteFormalizer interface {
	Complete(ctx context.Context, prompt string) domain.RemoteResult
}
