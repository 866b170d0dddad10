package driven

import (
	"context"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

// SignalRegistry resolves externally-owned contextual signals for a
// chunk. This is the only method the core calls on the registry; its
// internal resolution and caching policy is the registry's concern.
type SignalRegistry interface {
	// GetSignalsForChunk returns the signals matching the required
	// signal types for the given chunk. It may return signals beyond
	// the requirement set; the core accepts extras without validation.
	// A nil slice with a nil error is a contract violation, not a
	// legitimate empty result - return an empty slice instead.
	GetSignalsForChunk(ctx context.Context, chunk *domain.ChunkRecord, required []string) ([]domain.Signal, error)
}
