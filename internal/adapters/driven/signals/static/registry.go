// Package static provides a fixture-backed signal registry. Signals
// are read once from a JSON file keyed by chunk id; the registry never
// fabricates signals for chunks the fixture does not cover, so missing
// required signals surface as the hard stop the core mandates.
package static

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
)

// Ensure Registry implements the driven port.
var _ driven.SignalRegistry = (*Registry)(nil)

// signalJSON is the wire form of one signal.
type signalJSON struct {
	Type    string `json:"signal_type"`
	Content any    `json:"content"`
}

// Registry serves signals from an in-memory fixture.
type Registry struct {
	byChunk map[string][]domain.Signal
}

// NewRegistry creates a registry over an in-memory fixture map.
func NewRegistry(byChunk map[string][]domain.Signal) *Registry {
	copied := make(map[string][]domain.Signal, len(byChunk))
	for chunkID, signals := range byChunk {
		out := make([]domain.Signal, len(signals))
		copy(out, signals)
		copied[chunkID] = out
	}
	return &Registry{byChunk: copied}
}

// LoadRegistry reads a fixture file: a JSON object mapping chunk ids
// to signal lists.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signal fixture %s: %w", path, err)
	}

	var raw map[string][]signalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing signal fixture %s: %w", path, err)
	}

	byChunk := make(map[string][]domain.Signal, len(raw))
	for chunkID, signals := range raw {
		out := make([]domain.Signal, 0, len(signals))
		for _, s := range signals {
			out = append(out, domain.Signal{Type: s.Type, Content: s.Content})
		}
		byChunk[chunkID] = out
	}
	return &Registry{byChunk: byChunk}, nil
}

// GetSignalsForChunk returns the fixture's signals for the chunk. The
// result is never nil: a chunk absent from the fixture yields an empty
// collection, which the core then checks against the question's
// requirements.
func (r *Registry) GetSignalsForChunk(_ context.Context, chunk *domain.ChunkRecord, _ []string) ([]domain.Signal, error) {
	signals := r.byChunk[chunk.ChunkID]
	out := make([]domain.Signal, len(signals))
	copy(out, signals)
	return out, nil
}
