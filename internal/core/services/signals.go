package services

import (
	"context"
	"sort"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// ResolveSignals calls the external signal registry exactly once for
// the chunk and validates the response against the question's
// requirements. Any required signal type absent from the response is a
// hard stop: no fallback, no default signal, no degraded mode.
// Signals beyond the requirement set are accepted without validation.
// Duplicate signal types are tolerated with a warning because the
// last-seen value silently wins when signals are later projected into
// the task's keyed signal map.
func ResolveSignals(
	ctx context.Context,
	chunk *domain.ChunkRecord,
	q domain.Question,
	registry driven.SignalRegistry,
) ([]domain.Signal, error) {
	required := q.SignalRequirements

	signals, err := registry.GetSignalsForChunk(ctx, chunk, required)
	if err != nil {
		return nil, &domain.SignalResolutionError{
			QuestionID: q.QuestionID,
			ChunkID:    chunk.ChunkID,
			Reason:     "registry call failed: " + err.Error(),
		}
	}
	if signals == nil {
		// A nil result with no error is a programming-contract
		// violation on the registry's side, not a data error.
		return nil, &domain.SignalResolutionError{
			QuestionID: q.QuestionID,
			ChunkID:    chunk.ChunkID,
			Reason:     "registry returned nil signal collection",
		}
	}

	returned := make(map[string]int, len(signals))
	for _, sig := range signals {
		if sig.Type == "" {
			return nil, &domain.SignalResolutionError{
				QuestionID: q.QuestionID,
				ChunkID:    chunk.ChunkID,
				Reason:     "registry returned a signal without a signal_type",
			}
		}
		returned[sig.Type]++
	}
	for sigType, count := range returned {
		if count > 1 {
			logger.Warn("duplicate signal type %q (%d occurrences) for question %s on chunk %s; last-seen value wins",
				sigType, count, q.QuestionID, chunk.ChunkID)
		}
	}

	var missing []string
	for _, req := range required {
		if _, ok := returned[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.SignalResolutionError{
			QuestionID: q.QuestionID,
			ChunkID:    chunk.ChunkID,
			Missing:    missing,
		}
	}

	out := make([]domain.Signal, len(signals))
	copy(out, signals)
	return out, nil
}
