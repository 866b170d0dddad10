package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// ValidateCompatibility checks that a question's expected elements and
// a chunk's declared ones are type- and threshold-compatible. It runs
// the structural layer first and the semantic layer only when both
// sides are present and of compatible classification. The returned
// count is the number of successfully validated element pairs.
//
// Absence on either side is compatible with any present classification
// on the other: the relaxation is symmetric and both directions emit
// the same diagnostic observation, never an error.
func ValidateCompatibility(q domain.Question, chunk *domain.ChunkRecord) (int, error) {
	qs, cs := q.ExpectedElements, chunk.ExpectedElements

	if err := validateStructural(q.QuestionID, chunk.ChunkID, qs, cs); err != nil {
		return 0, err
	}

	if qs.IsAbsent() && cs.IsAbsent() {
		return 0, nil
	}
	if qs.IsAbsent() || cs.IsAbsent() {
		// Compatible via constraint relaxation, not a defect.
		logger.Debug("schema relaxation for question %s on chunk %s: question declares %s, chunk declares %s",
			q.QuestionID, chunk.ChunkID, qs.Kind(), cs.Kind())
		return 0, nil
	}

	return validateSemantic(q.QuestionID, chunk.ChunkID, qs, cs)
}

// validateStructural classifies both sides and rejects invalid types,
// heterogeneous classifications, list-length mismatches and map
// key-set mismatches.
func validateStructural(questionID, chunkID string, qs, cs domain.SchemaValue) error {
	if qs.Kind() == domain.SchemaInvalid {
		return &domain.SchemaCompatibilityError{
			QuestionID: questionID,
			ChunkID:    chunkID,
			Reason:     fmt.Sprintf("question expected_elements has unclassifiable type %s", qs.InvalidType()),
		}
	}
	if cs.Kind() == domain.SchemaInvalid {
		return &domain.SchemaCompatibilityError{
			QuestionID: questionID,
			ChunkID:    chunkID,
			Reason:     fmt.Sprintf("chunk expected_elements has unclassifiable type %s", cs.InvalidType()),
		}
	}

	// Absent on either side is always compatible with the other.
	if qs.IsAbsent() || cs.IsAbsent() {
		return nil
	}

	if qs.Kind() != cs.Kind() {
		return &domain.SchemaCompatibilityError{
			QuestionID: questionID,
			ChunkID:    chunkID,
			Reason:     fmt.Sprintf("heterogeneous declarations: question is %s, chunk is %s", qs.Kind(), cs.Kind()),
		}
	}

	switch qs.Kind() {
	case domain.SchemaList:
		if qs.Len() != cs.Len() {
			return &domain.SchemaCompatibilityError{
				QuestionID: questionID,
				ChunkID:    chunkID,
				Reason:     fmt.Sprintf("list length mismatch: question declares %d element(s), chunk declares %d", qs.Len(), cs.Len()),
			}
		}
	case domain.SchemaMap:
		missingInChunk, extraInChunk := keySetDifference(qs.Keys(), cs.Keys())
		if len(missingInChunk) > 0 || len(extraInChunk) > 0 {
			return &domain.SchemaCompatibilityError{
				QuestionID: questionID,
				ChunkID:    chunkID,
				Reason: fmt.Sprintf("map key sets differ: missing in chunk [%s], extra in chunk [%s]",
					strings.Join(missingInChunk, ", "), strings.Join(extraInChunk, ", ")),
			}
		}
	}
	return nil
}

// validateSemantic applies the required-implication and
// threshold-ordering rules to each deterministic element pair: index
// order for lists, sorted common-key order for maps.
func validateSemantic(questionID, chunkID string, qs, cs domain.SchemaValue) (int, error) {
	type pair struct {
		name string
		q, c domain.ElementSpec
	}
	var pairs []pair

	switch qs.Kind() {
	case domain.SchemaList:
		qList, cList := qs.List(), cs.List()
		for i := range qList {
			pairs = append(pairs, pair{name: fmt.Sprintf("[%d]", i), q: qList[i], c: cList[i]})
		}
	case domain.SchemaMap:
		qMap, cMap := qs.Map(), cs.Map()
		common := make([]string, 0, len(qMap))
		for k := range qMap {
			if _, ok := cMap[k]; ok {
				common = append(common, k)
			}
		}
		sort.Strings(common)
		for _, k := range common {
			pairs = append(pairs, pair{name: k, q: qMap[k], c: cMap[k]})
		}
	}

	validated := 0
	for _, p := range pairs {
		if p.q.Required && !p.c.Required {
			return validated, &domain.SchemaCompatibilityError{
				QuestionID: questionID,
				ChunkID:    chunkID,
				Element:    p.name,
				Reason:     "question requires the element but the chunk does not mark it required",
			}
		}
		if p.c.Minimum < p.q.Minimum {
			return validated, &domain.SchemaCompatibilityError{
				QuestionID: questionID,
				ChunkID:    chunkID,
				Element:    p.name,
				Reason:     fmt.Sprintf("chunk minimum %g is below question minimum %g", p.c.Minimum, p.q.Minimum),
			}
		}
		validated++
	}
	return validated, nil
}

// keySetDifference returns the symmetric difference of two sorted key
// sets, split into keys only in want and keys only in got.
func keySetDifference(want, got []string) (missing, extra []string) {
	gotSet := make(map[string]struct{}, len(got))
	for _, k := range got {
		gotSet[k] = struct{}{}
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, k := range want {
		wantSet[k] = struct{}{}
	}
	for _, k := range want {
		if _, ok := gotSet[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range got {
		if _, ok := wantSet[k]; !ok {
			extra = append(extra, k)
		}
	}
	return missing, extra
}
