package services

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/logger"
)

func questionWithPatterns(areas ...string) domain.Question {
	patterns := make([]domain.Pattern, len(areas))
	for i, area := range areas {
		patterns[i] = domain.Pattern{
			PatternID:  "PAT-" + area,
			PolicyArea: area,
			Expression: "expr-" + area,
		}
	}
	return domain.Question{
		QuestionID: "Q-PAT",
		PolicyArea: "PA05",
		Dimension:  "DIM01",
		Patterns:   patterns,
	}
}

func TestFilterPatterns_StrictEqualityPreservesOrder(t *testing.T) {
	q := questionWithPatterns("PA01", "PA05", "PA02", "PA05")

	matched, err := FilterPatterns(q, "PA05")
	require.NoError(t, err)

	require.Len(t, matched, 2)
	assert.Equal(t, q.Patterns[1], matched[0])
	assert.Equal(t, q.Patterns[3], matched[1])
}

func TestFilterPatterns_NoMatchesWarnsButSucceeds(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	q := questionWithPatterns("PA01", "PA05", "PA02", "PA05")

	matched, err := FilterPatterns(q, "PA09")
	require.NoError(t, err)
	assert.Empty(t, matched)
	assert.Contains(t, buf.String(), "Q-PAT")
	assert.Contains(t, buf.String(), "PA09")
}

func TestFilterPatterns_UntaggedPatternIsHardError(t *testing.T) {
	q := questionWithPatterns("PA05")
	q.Patterns = append(q.Patterns, domain.Pattern{PatternID: "PAT-BARE", Expression: "x"})

	_, err := FilterPatterns(q, "PA05")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConstruction)
	assert.Contains(t, err.Error(), "PAT-BARE")
	assert.Contains(t, err.Error(), "policy_area_id")
}

func TestFilterPatterns_KeepsDuplicatePatternIDs(t *testing.T) {
	q := questionWithPatterns("PA05", "PA05")
	q.Patterns[1].PatternID = q.Patterns[0].PatternID

	matched, err := FilterPatterns(q, "PA05")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestFilterPatterns_IsPure(t *testing.T) {
	q := questionWithPatterns("PA01", "PA05")

	first, err := FilterPatterns(q, "PA05")
	require.NoError(t, err)
	second, err := FilterPatterns(q, "PA05")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Mutating a result must not leak into the question.
	first[0].Expression = "mutated"
	assert.Equal(t, "expr-PA05", q.Patterns[1].Expression)
}
