package domain

// ChunkGrid is the complete, validated 10x6 matrix of chunk records,
// addressable by (policy area, dimension) key. A grid is built once
// per input document by the grid builder service and is immutable
// thereafter; lookups never mutate it.
//
// Construction invariants (enforced by the builder, never relaxed):
// exactly 60 entries, every key a member of the PA x DIM cross
// product, no duplicate keys, and every stored record's own
// identifiers matching its key.
type ChunkGrid struct {
	cells map[ChunkKey]*ChunkRecord
	keys  []ChunkKey
}

// NewChunkGrid wraps an already-validated cell map. It is intended for
// the grid builder and for plan reconstruction; it does not re-run the
// validation pipeline. The sorted key slice is computed here so that
// iteration order is a pure function of the key values.
func NewChunkGrid(cells map[ChunkKey]*ChunkRecord) *ChunkGrid {
	keys := make([]ChunkKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	SortChunkKeys(keys)
	return &ChunkGrid{cells: cells, keys: keys}
}

// Get returns the chunk record for the requested key. A lookup miss
// fails with a routing error carrying both requested identifiers.
func (g *ChunkGrid) Get(policyArea, dimension string) (*ChunkRecord, error) {
	rec, ok := g.cells[ChunkKey{PolicyArea: policyArea, Dimension: dimension}]
	if !ok {
		return nil, &RoutingError{
			PolicyArea: policyArea,
			Dimension:  dimension,
			Reason:     "no chunk for requested key",
		}
	}
	return rec, nil
}

// Count returns the number of cells in the grid. Always 60 for a grid
// produced by the builder.
func (g *ChunkGrid) Count() int {
	return len(g.cells)
}

// Keys returns the grid keys in canonical (policy area, dimension)
// order. The returned slice is a copy.
func (g *ChunkGrid) Keys() []ChunkKey {
	out := make([]ChunkKey, len(g.keys))
	copy(out, g.keys)
	return out
}
