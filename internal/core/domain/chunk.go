package domain

import (
	"fmt"
	"sort"
)

// ProcessingModeComplete is the processing-mode marker an ingested
// chunk document must carry. Documents produced under any other mode
// are not guaranteed to cover the full 10x6 grid and are rejected.
const ProcessingModeComplete = "complete_grid"

// Grid dimensions. The planner operates on a fixed catalogue of
// 10 policy areas crossed with 6 analytical dimensions.
const (
	PolicyAreaCount = 10
	DimensionCount  = 6
	GridCellCount   = PolicyAreaCount * DimensionCount
)

// PolicyAreaCodes returns the 10 canonical policy-area codes in
// ascending order: PA01..PA10.
func PolicyAreaCodes() []string {
	codes := make([]string, 0, PolicyAreaCount)
	for i := 1; i <= PolicyAreaCount; i++ {
		codes = append(codes, fmt.Sprintf("PA%02d", i))
	}
	return codes
}

// DimensionCodes returns the 6 canonical dimension codes in ascending
// order: DIM01..DIM06.
func DimensionCodes() []string {
	codes := make([]string, 0, DimensionCount)
	for i := 1; i <= DimensionCount; i++ {
		codes = append(codes, fmt.Sprintf("DIM%02d", i))
	}
	return codes
}

// IsPolicyArea reports whether s is one of PA01..PA10.
func IsPolicyArea(s string) bool {
	var n int
	if _, err := fmt.Sscanf(s, "PA%02d", &n); err != nil {
		return false
	}
	return fmt.Sprintf("PA%02d", n) == s && n >= 1 && n <= PolicyAreaCount
}

// IsDimension reports whether s is one of DIM01..DIM06.
func IsDimension(s string) bool {
	var n int
	if _, err := fmt.Sscanf(s, "DIM%02d", &n); err != nil {
		return false
	}
	return fmt.Sprintf("DIM%02d", n) == s && n >= 1 && n <= DimensionCount
}

// ChunkKey addresses one cell of the grid.
type ChunkKey struct {
	// PolicyArea is the PA01..PA10 code.
	PolicyArea string

	// Dimension is the DIM01..DIM06 code.
	Dimension string
}

// String renders the key in canonical chunk-id form, e.g. "PA05-DIM03".
func (k ChunkKey) String() string {
	return k.PolicyArea + "-" + k.Dimension
}

// Less orders keys lexicographically by (policy area, dimension).
// The ordering is invariant to input record order: it depends only on
// the key values themselves.
func (k ChunkKey) Less(other ChunkKey) bool {
	if k.PolicyArea != other.PolicyArea {
		return k.PolicyArea < other.PolicyArea
	}
	return k.Dimension < other.Dimension
}

// AllChunkKeys returns the full 60-cell cross product of policy areas
// and dimensions in canonical (policy area, dimension) order.
func AllChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, GridCellCount)
	for _, pa := range PolicyAreaCodes() {
		for _, dim := range DimensionCodes() {
			keys = append(keys, ChunkKey{PolicyArea: pa, Dimension: dim})
		}
	}
	return keys
}

// SortChunkKeys sorts keys in place in canonical order.
func SortChunkKeys(keys []ChunkKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// Provenance carries optional source-location metadata for a chunk.
type Provenance struct {
	// Page is the page number in the source document, if paginated.
	Page int

	// Section is the section heading the chunk was extracted from.
	Section string

	// SourceFile is the originating file path or name.
	SourceFile string
}

// ChunkRecord is one analyzable unit of source text: one cell of the
// policy-area x dimension grid plus its metadata. Records are created
// once by the external ingestion stage and never mutated afterwards;
// the ChunkGrid that indexes a record owns it exclusively.
type ChunkRecord struct {
	// ChunkID is the canonical identifier, always derivable as
	// "{PolicyArea}-{Dimension}" (e.g. "PA05-DIM03").
	ChunkID string

	// PolicyArea is the PA01..PA10 code this chunk belongs to.
	PolicyArea string

	// Dimension is the DIM01..DIM06 code this chunk belongs to.
	Dimension string

	// Text is the chunk's source text. Non-empty after trimming.
	Text string

	// StartPos and EndPos span the chunk's position in the source
	// document. Both are non-negative.
	StartPos int
	EndPos   int

	// Confidence is the extraction confidence in [0, 1].
	Confidence float64

	// Provenance carries optional page/section/source-file metadata.
	Provenance *Provenance

	// Budget and KPI carry optional side data extracted alongside the
	// chunk text. Opaque to the planner.
	Budget map[string]any
	KPI    map[string]any

	// ExpectedElements declares the structured elements this chunk can
	// provide, as a SchemaValue (absent, list or map).
	ExpectedElements SchemaValue
}

// NewChunkRecord creates a record and derives its ChunkID from the
// policy area and dimension. Construction fails when both identifiers
// are absent, since the chunk id is then underivable.
func NewChunkRecord(policyArea, dimension, text string) (*ChunkRecord, error) {
	if policyArea == "" && dimension == "" {
		return nil, &ConstructionError{
			Kind:   "chunk record",
			Field:  "policy_area_id/dimension_id",
			Reason: "both identifiers absent; chunk_id is underivable",
		}
	}
	return &ChunkRecord{
		ChunkID:    policyArea + "-" + dimension,
		PolicyArea: policyArea,
		Dimension:  dimension,
		Text:       text,
	}, nil
}

// Key returns the grid key for this record.
func (c *ChunkRecord) Key() ChunkKey {
	return ChunkKey{PolicyArea: c.PolicyArea, Dimension: c.Dimension}
}

// ChunkDocument is the raw collection a document-ingestion collaborator
// hands to the grid builder: an unordered set of chunk records plus the
// processing-mode marker under which they were produced.
type ChunkDocument struct {
	// ProcessingMode must equal ProcessingModeComplete.
	ProcessingMode string

	// Chunks is the unordered record collection. Nil elements are
	// rejected by the grid builder as malformed records.
	Chunks []*ChunkRecord
}
