package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureError_ClassifiesAndRendersAllViolations(t *testing.T) {
	err := &StructureError{Violations: []Violation{
		{ChunkIndex: 3, ChunkID: "PA01-DIM01", Check: "duplicate-key", Expected: "unique key", Actual: "duplicate PA01-DIM01"},
		{ChunkIndex: -1, Check: "completeness", Expected: "60 cells", Actual: "59 cells", Hint: "missing PA05-DIM03"},
	}}

	assert.ErrorIs(t, err, ErrStructure)
	msg := err.Error()
	assert.Contains(t, msg, "2 violation(s)")
	assert.Contains(t, msg, "PA01-DIM01")
	assert.Contains(t, msg, "missing PA05-DIM03")
	assert.NotContains(t, msg, "chunk #-1")
}

func TestErrorTaxonomy_SurvivesWrapping(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{&RoutingError{PolicyArea: "PA05", Dimension: "DIM03", Reason: "no chunk"}, ErrRouting},
		{&SchemaCompatibilityError{QuestionID: "Q1", ChunkID: "PA01-DIM01", Reason: "length mismatch"}, ErrSchemaCompatibility},
		{&SignalResolutionError{QuestionID: "Q1", ChunkID: "PA01-DIM01", Missing: []string{"indicator"}}, ErrSignalResolution},
		{&ConstructionError{Kind: "task", Field: "chunk_id", Reason: "empty"}, ErrConstruction},
		{&IntegrityError{Algorithm: "sha256", Digest: "xyz", Reason: "not hex"}, ErrIntegrity},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("synchronizing: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.sentinel, "%T", tt.err)
	}
}

func TestSignalResolutionError_ListsMissingTypes(t *testing.T) {
	err := &SignalResolutionError{
		QuestionID: "Q7",
		ChunkID:    "PA02-DIM04",
		Missing:    []string{"indicator", "temporal"},
	}
	assert.Contains(t, err.Error(), "indicator")
	assert.Contains(t, err.Error(), "temporal")
}

func TestRoutingError_NamesBothKeys(t *testing.T) {
	var rerr *RoutingError
	err := fmt.Errorf("step 1: %w", &RoutingError{QuestionID: "Q1", PolicyArea: "PA05", Dimension: "DIM03", Reason: "no chunk for requested key"})
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Error(), "PA05")
	assert.Contains(t, rerr.Error(), "DIM03")
}
