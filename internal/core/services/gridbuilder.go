package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Validation check names, used in diagnostics.
const (
	checkDocument     = "document-structure"
	checkRecordType   = "record-type"
	checkRequired     = "required-fields"
	checkContent      = "field-content"
	checkFormat       = "identifier-format"
	checkConsistency  = "identifier-consistency"
	checkDuplicate    = "duplicate-detection"
	checkCompleteness = "completeness"
	checkCardinality  = "cardinality"
)

// missingKeyDisplayCap bounds how many missing cells are listed
// individually before collapsing into an overflow count.
const missingKeyDisplayCap = 10

// groupedReportThreshold is the missing-set size up to which the
// completeness diagnostic additionally groups missing cells by policy
// area and by dimension.
const groupedReportThreshold = 12

var (
	chunkIDPattern = regexp.MustCompile(`^PA(0[1-9]|10)-DIM(0[1-6])$`)
	chunkIDShape   = regexp.MustCompile(`^PA(\d{2})-DIM(\d{2})$`)
)

// GridBuilder validates an unordered chunk collection into the
// complete 10x6 ChunkGrid. Validation is a strict pipeline of atomic
// checks; all failing records across the whole batch are collected and
// reported together so a caller sees every defect in one pass.
type GridBuilder struct {
	expectedMode string
}

// NewGridBuilder creates a builder expecting the canonical
// processing-mode marker.
func NewGridBuilder() *GridBuilder {
	return &GridBuilder{expectedMode: domain.ProcessingModeComplete}
}

// Build runs the validation pipeline and, when every check passes,
// returns the grid together with its keys in canonical order. On any
// violation it returns a *domain.StructureError carrying the complete
// violation set.
func (b *GridBuilder) Build(doc *domain.ChunkDocument) (*domain.ChunkGrid, []domain.ChunkKey, error) {
	if v := b.checkDocument(doc); v != nil {
		return nil, nil, &domain.StructureError{Violations: []domain.Violation{*v}}
	}

	var violations []domain.Violation
	cells := make(map[domain.ChunkKey]*domain.ChunkRecord, domain.GridCellCount)
	seenChunkIDs := make(map[string]int)

	for i, rec := range doc.Chunks {
		recViolations := b.checkRecord(i, rec)
		violations = append(violations, recViolations...)
		if len(recViolations) > 0 {
			continue
		}

		key := rec.Key()
		if _, dup := cells[key]; dup {
			violations = append(violations, domain.Violation{
				ChunkIndex: i,
				ChunkID:    rec.ChunkID,
				Check:      checkDuplicate,
				Expected:   "unique grid key",
				Actual:     fmt.Sprintf("duplicate key %s", key),
				Hint:       "the ingestion stage emitted the same cell twice",
			})
			continue
		}
		if firstIdx, dup := seenChunkIDs[rec.ChunkID]; dup {
			violations = append(violations, domain.Violation{
				ChunkIndex: i,
				ChunkID:    rec.ChunkID,
				Check:      checkDuplicate,
				Expected:   "unique chunk_id",
				Actual:     fmt.Sprintf("duplicate chunk_id %s (first seen at chunk #%d)", rec.ChunkID, firstIdx),
			})
			continue
		}
		seenChunkIDs[rec.ChunkID] = i
		cells[key] = rec
	}

	violations = append(violations, b.checkCompleteness(cells)...)

	if len(violations) > 0 {
		logger.Error("chunk grid validation failed: %d violation(s) across %d record(s)", len(violations), len(doc.Chunks))
		return nil, nil, &domain.StructureError{Violations: violations}
	}

	grid := domain.NewChunkGrid(cells)
	logger.Debug("chunk grid built: %d cells", grid.Count())
	return grid, grid.Keys(), nil
}

// checkDocument validates document-level structure: the collection
// exists, is non-empty, and carries the expected processing-mode
// marker.
func (b *GridBuilder) checkDocument(doc *domain.ChunkDocument) *domain.Violation {
	switch {
	case doc == nil:
		return &domain.Violation{
			ChunkIndex: -1,
			Check:      checkDocument,
			Expected:   "a chunk document",
			Actual:     "nil",
		}
	case len(doc.Chunks) == 0:
		return &domain.Violation{
			ChunkIndex: -1,
			Check:      checkDocument,
			Expected:   "a non-empty chunk collection",
			Actual:     "0 chunks",
			Hint:       "ingestion produced no chunks; check the source document",
		}
	case doc.ProcessingMode != b.expectedMode:
		return &domain.Violation{
			ChunkIndex: -1,
			Check:      checkDocument,
			Expected:   fmt.Sprintf("processing mode %q", b.expectedMode),
			Actual:     fmt.Sprintf("%q", doc.ProcessingMode),
			Hint:       "only complete-grid exports cover all 60 cells",
		}
	}
	return nil
}

// checkRecord runs the per-record checks in pipeline order and stops
// at the first failing stage for that record: later stages would only
// repeat the same root cause.
func (b *GridBuilder) checkRecord(idx int, rec *domain.ChunkRecord) []domain.Violation {
	if rec == nil {
		return []domain.Violation{{
			ChunkIndex: idx,
			Check:      checkRecordType,
			Expected:   "a chunk record",
			Actual:     "nil",
		}}
	}

	if vs := b.checkRequiredFields(idx, rec); len(vs) > 0 {
		return vs
	}
	if vs := b.checkFieldContent(idx, rec); len(vs) > 0 {
		return vs
	}
	if v := b.checkIdentifierFormat(idx, rec); v != nil {
		return []domain.Violation{*v}
	}
	if v := b.checkIdentifierConsistency(idx, rec); v != nil {
		return []domain.Violation{*v}
	}
	return nil
}

// checkRequiredFields verifies text and both routing identifiers are
// present.
func (b *GridBuilder) checkRequiredFields(idx int, rec *domain.ChunkRecord) []domain.Violation {
	var out []domain.Violation
	if rec.Text == "" {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkRequired,
			Expected:   "non-empty text",
			Actual:     "missing text",
		})
	}
	if rec.PolicyArea == "" {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkRequired,
			Expected:   "a policy_area_id",
			Actual:     "missing policy_area_id",
		})
	}
	if rec.Dimension == "" {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkRequired,
			Expected:   "a dimension_id",
			Actual:     "missing dimension_id",
		})
	}
	return out
}

// checkFieldContent verifies field values: text non-empty after
// trimming, confidence within [0, 1], span positions non-negative.
func (b *GridBuilder) checkFieldContent(idx int, rec *domain.ChunkRecord) []domain.Violation {
	var out []domain.Violation
	if strings.TrimSpace(rec.Text) == "" {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkContent,
			Expected:   "non-whitespace text",
			Actual:     fmt.Sprintf("%d whitespace character(s)", len(rec.Text)),
		})
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkContent,
			Expected:   "confidence in [0, 1]",
			Actual:     fmt.Sprintf("%g", rec.Confidence),
		})
	}
	if rec.StartPos < 0 || rec.EndPos < 0 {
		out = append(out, domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkContent,
			Expected:   "non-negative span positions",
			Actual:     fmt.Sprintf("start %d, end %d", rec.StartPos, rec.EndPos),
		})
	}
	return out
}

// checkIdentifierFormat verifies the chunk id matches the canonical
// PA{01-10}-DIM{01-06} form, producing a specific range-violation
// message when the shape is right but a numeric part is out of range.
func (b *GridBuilder) checkIdentifierFormat(idx int, rec *domain.ChunkRecord) *domain.Violation {
	if chunkIDPattern.MatchString(rec.ChunkID) {
		return nil
	}
	if m := chunkIDShape.FindStringSubmatch(rec.ChunkID); m != nil {
		pa, _ := strconv.Atoi(m[1])
		dim, _ := strconv.Atoi(m[2])
		var parts []string
		if pa < 1 || pa > domain.PolicyAreaCount {
			parts = append(parts, fmt.Sprintf("policy-area index %02d outside 01-%02d", pa, domain.PolicyAreaCount))
		}
		if dim < 1 || dim > domain.DimensionCount {
			parts = append(parts, fmt.Sprintf("dimension index %02d outside 01-%02d", dim, domain.DimensionCount))
		}
		return &domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkFormat,
			Expected:   "PA{01-10}-DIM{01-06}",
			Actual:     strings.Join(parts, "; "),
		}
	}
	return &domain.Violation{
		ChunkIndex: idx,
		ChunkID:    rec.ChunkID,
		Check:      checkFormat,
		Expected:   "chunk_id matching PA{01-10}-DIM{01-06}",
		Actual:     fmt.Sprintf("%q", rec.ChunkID),
	}
}

// checkIdentifierConsistency verifies each identifier independently
// against its enumeration and the chunk id against its derivation.
func (b *GridBuilder) checkIdentifierConsistency(idx int, rec *domain.ChunkRecord) *domain.Violation {
	if !domain.IsPolicyArea(rec.PolicyArea) {
		return &domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkConsistency,
			Expected:   "policy_area_id in PA01..PA10",
			Actual:     fmt.Sprintf("%q", rec.PolicyArea),
		}
	}
	if !domain.IsDimension(rec.Dimension) {
		return &domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkConsistency,
			Expected:   "dimension_id in DIM01..DIM06",
			Actual:     fmt.Sprintf("%q", rec.Dimension),
		}
	}
	if derived := rec.PolicyArea + "-" + rec.Dimension; rec.ChunkID != derived {
		return &domain.Violation{
			ChunkIndex: idx,
			ChunkID:    rec.ChunkID,
			Check:      checkConsistency,
			Expected:   fmt.Sprintf("chunk_id %s derived from identifiers", derived),
			Actual:     fmt.Sprintf("%q", rec.ChunkID),
			Hint:       "chunk_id must equal {policy_area_id}-{dimension_id}",
		}
	}
	return nil
}

// checkCompleteness verifies every one of the 60 expected cells is
// present, reporting missing cells with a capped display plus grouped
// summaries when the missing set is small, and then verifies the final
// cardinality.
func (b *GridBuilder) checkCompleteness(cells map[domain.ChunkKey]*domain.ChunkRecord) []domain.Violation {
	var missing []domain.ChunkKey
	for _, key := range domain.AllChunkKeys() {
		if _, ok := cells[key]; !ok {
			missing = append(missing, key)
		}
	}

	var out []domain.Violation
	if len(missing) > 0 {
		out = append(out, domain.Violation{
			ChunkIndex: -1,
			Check:      checkCompleteness,
			Expected:   fmt.Sprintf("all %d (policy area, dimension) cells", domain.GridCellCount),
			Actual:     fmt.Sprintf("%d missing: %s", len(missing), formatMissing(missing)),
			Hint:       groupMissing(missing),
		})
	}
	if len(cells) != domain.GridCellCount {
		out = append(out, domain.Violation{
			ChunkIndex: -1,
			Check:      checkCardinality,
			Expected:   fmt.Sprintf("exactly %d cells", domain.GridCellCount),
			Actual:     fmt.Sprintf("%d cells", len(cells)),
		})
	}
	return out
}

// formatMissing lists missing cells individually up to the display
// cap, then collapses the remainder into an overflow count.
func formatMissing(missing []domain.ChunkKey) string {
	ids := make([]string, 0, len(missing))
	for _, key := range missing {
		ids = append(ids, key.String())
	}
	if len(ids) <= missingKeyDisplayCap {
		return strings.Join(ids, ", ")
	}
	shown := strings.Join(ids[:missingKeyDisplayCap], ", ")
	return fmt.Sprintf("%s (and %d more)", shown, len(ids)-missingKeyDisplayCap)
}

// groupMissing summarizes a small missing set by policy area and by
// dimension. Larger sets return no grouping: the per-cell list and
// overflow count already tell the story.
func groupMissing(missing []domain.ChunkKey) string {
	if len(missing) == 0 || len(missing) > groupedReportThreshold {
		return ""
	}
	byArea := make(map[string]int)
	byDim := make(map[string]int)
	for _, key := range missing {
		byArea[key.PolicyArea]++
		byDim[key.Dimension]++
	}
	return fmt.Sprintf("by policy area: %s; by dimension: %s", formatCounts(byArea), formatCounts(byDim))
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
