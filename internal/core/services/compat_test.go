package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

func compatQuestion(schema domain.SchemaValue) domain.Question {
	return domain.Question{
		QuestionID:       "Q-CMP",
		PolicyArea:       "PA03",
		Dimension:        "DIM02",
		ExpectedElements: schema,
	}
}

func compatChunk(t *testing.T, schema domain.SchemaValue) *domain.ChunkRecord {
	t.Helper()
	rec, err := domain.NewChunkRecord("PA03", "DIM02", "chunk text")
	require.NoError(t, err)
	rec.ExpectedElements = schema
	return rec
}

func TestValidateCompatibility_BothAbsent(t *testing.T) {
	n, err := ValidateCompatibility(compatQuestion(domain.AbsentSchema()), compatChunk(t, domain.AbsentSchema()))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestValidateCompatibility_RelaxationIsSymmetric(t *testing.T) {
	present := domain.MapSchema(map[string]domain.ElementSpec{
		"budget": {Type: "number", Required: true, Minimum: 1},
	})

	n, err := ValidateCompatibility(compatQuestion(domain.AbsentSchema()), compatChunk(t, present))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ValidateCompatibility(compatQuestion(present), compatChunk(t, domain.AbsentSchema()))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestValidateCompatibility_InvalidTypeNamed(t *testing.T) {
	invalid := domain.InvalidSchema("string")

	_, err := ValidateCompatibility(compatQuestion(invalid), compatChunk(t, domain.AbsentSchema()))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
	assert.Contains(t, err.Error(), "string")

	_, err = ValidateCompatibility(compatQuestion(domain.AbsentSchema()), compatChunk(t, invalid))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
	assert.Contains(t, err.Error(), "chunk")
}

func TestValidateCompatibility_HeterogeneousClassification(t *testing.T) {
	asList := domain.ListSchema(domain.ElementSpec{Type: "number"})
	asMap := domain.MapSchema(map[string]domain.ElementSpec{"budget": {Type: "number"}})

	_, err := ValidateCompatibility(compatQuestion(asList), compatChunk(t, asMap))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
	assert.Contains(t, err.Error(), "heterogeneous")
}

func TestValidateCompatibility_ListLengthMismatch(t *testing.T) {
	q := domain.ListSchema(domain.ElementSpec{Type: "number"}, domain.ElementSpec{Type: "string"})
	c := domain.ListSchema(domain.ElementSpec{Type: "number"})

	_, err := ValidateCompatibility(compatQuestion(q), compatChunk(t, c))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
	assert.Contains(t, err.Error(), "length")
}

func TestValidateCompatibility_MapKeySetMismatchListsBothSides(t *testing.T) {
	q := domain.MapSchema(map[string]domain.ElementSpec{
		"budget": {Type: "number"},
		"kpi":    {Type: "string"},
	})
	c := domain.MapSchema(map[string]domain.ElementSpec{
		"budget":   {Type: "number"},
		"timeline": {Type: "string"},
	})

	_, err := ValidateCompatibility(compatQuestion(q), compatChunk(t, c))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
	assert.Contains(t, err.Error(), "kpi")
	assert.Contains(t, err.Error(), "timeline")
}

// The semantic triples: identical specs pass, a dropped required flag
// fails, a lowered threshold fails, a raised threshold passes.
func TestValidateCompatibility_SemanticRules(t *testing.T) {
	question := domain.MapSchema(map[string]domain.ElementSpec{
		"budget": {Type: "number", Required: true, Minimum: 3},
	})

	tests := []struct {
		name    string
		chunk   domain.SchemaValue
		wantErr string
	}{
		{
			name: "identical specs pass",
			chunk: domain.MapSchema(map[string]domain.ElementSpec{
				"budget": {Type: "number", Required: true, Minimum: 3},
			}),
		},
		{
			name: "required implication violated",
			chunk: domain.MapSchema(map[string]domain.ElementSpec{
				"budget": {Type: "number", Required: false, Minimum: 3},
			}),
			wantErr: "requires the element",
		},
		{
			name: "threshold ordering violated",
			chunk: domain.MapSchema(map[string]domain.ElementSpec{
				"budget": {Type: "number", Required: true, Minimum: 2},
			}),
			wantErr: "minimum 2 is below question minimum 3",
		},
		{
			name: "chunk may exceed the threshold",
			chunk: domain.MapSchema(map[string]domain.ElementSpec{
				"budget": {Type: "number", Required: true, Minimum: 5},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ValidateCompatibility(compatQuestion(question), compatChunk(t, tt.chunk))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 1, n)
				return
			}
			require.ErrorIs(t, err, domain.ErrSchemaCompatibility)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "budget")
		})
	}
}

func TestValidateCompatibility_ListPairsValidatedInIndexOrder(t *testing.T) {
	q := domain.ListSchema(
		domain.ElementSpec{Type: "number", Minimum: 1},
		domain.ElementSpec{Type: "number", Minimum: 4},
	)
	c := domain.ListSchema(
		domain.ElementSpec{Type: "number", Minimum: 1},
		domain.ElementSpec{Type: "number", Minimum: 3},
	)

	_, err := ValidateCompatibility(compatQuestion(q), compatChunk(t, c))
	require.ErrorIs(t, err, domain.ErrSchemaCompatibility)

	var serr *domain.SchemaCompatibilityError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "[1]", serr.Element)
}
