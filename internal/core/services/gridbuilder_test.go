package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

// completeDocument builds a valid 60-chunk document in canonical order.
func completeDocument(t *testing.T) *domain.ChunkDocument {
	t.Helper()
	chunks := make([]*domain.ChunkRecord, 0, domain.GridCellCount)
	for _, key := range domain.AllChunkKeys() {
		rec, err := domain.NewChunkRecord(key.PolicyArea, key.Dimension, "text for "+key.String())
		require.NoError(t, err)
		rec.Confidence = 0.9
		rec.StartPos = 0
		rec.EndPos = 100
		chunks = append(chunks, rec)
	}
	return &domain.ChunkDocument{
		ProcessingMode: domain.ProcessingModeComplete,
		Chunks:         chunks,
	}
}

func TestGridBuilder_CompleteDocument(t *testing.T) {
	grid, keys, err := NewGridBuilder().Build(completeDocument(t))
	require.NoError(t, err)

	assert.Equal(t, 60, grid.Count())
	require.Len(t, keys, 60)
	assert.Equal(t, "PA01-DIM01", keys[0].String())
	assert.Equal(t, "PA10-DIM06", keys[59].String())
}

func TestGridBuilder_OrderInvariance(t *testing.T) {
	sequential := completeDocument(t)

	reversed := completeDocument(t)
	for i, j := 0, len(reversed.Chunks)-1; i < j; i, j = i+1, j-1 {
		reversed.Chunks[i], reversed.Chunks[j] = reversed.Chunks[j], reversed.Chunks[i]
	}

	shuffled := completeDocument(t)
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(shuffled.Chunks), func(i, j int) {
		shuffled.Chunks[i], shuffled.Chunks[j] = shuffled.Chunks[j], shuffled.Chunks[i]
	})

	builder := NewGridBuilder()
	gridA, keysA, err := builder.Build(sequential)
	require.NoError(t, err)
	gridB, keysB, err := builder.Build(reversed)
	require.NoError(t, err)
	gridC, keysC, err := builder.Build(shuffled)
	require.NoError(t, err)

	assert.Equal(t, keysA, keysB)
	assert.Equal(t, keysA, keysC)

	for _, key := range keysA {
		a, err := gridA.Get(key.PolicyArea, key.Dimension)
		require.NoError(t, err)
		b, err := gridB.Get(key.PolicyArea, key.Dimension)
		require.NoError(t, err)
		c, err := gridC.Get(key.PolicyArea, key.Dimension)
		require.NoError(t, err)

		assert.Equal(t, a.ChunkID, b.ChunkID)
		assert.Equal(t, a.Text, b.Text)
		assert.Equal(t, a.ChunkID, c.ChunkID)
		assert.Equal(t, a.Text, c.Text)
	}
}

func TestGridBuilder_MissingCellDetection(t *testing.T) {
	doc := completeDocument(t)
	kept := doc.Chunks[:0]
	for _, rec := range doc.Chunks {
		if rec.ChunkID != "PA05-DIM03" {
			kept = append(kept, rec)
		}
	}
	doc.Chunks = kept

	_, _, err := NewGridBuilder().Build(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "PA05-DIM03")
}

func TestGridBuilder_DuplicateDetection(t *testing.T) {
	doc := completeDocument(t)
	dup, err := domain.NewChunkRecord("PA01", "DIM01", "second copy")
	require.NoError(t, err)
	dup.Confidence = 0.5
	doc.Chunks = append(doc.Chunks, dup)

	_, _, buildErr := NewGridBuilder().Build(doc)
	require.Error(t, buildErr)
	assert.ErrorIs(t, buildErr, domain.ErrStructure)
	assert.Contains(t, buildErr.Error(), "PA01-DIM01")
	assert.Contains(t, buildErr.Error(), "duplicate")
}

func TestGridBuilder_DocumentLevelChecks(t *testing.T) {
	builder := NewGridBuilder()

	_, _, err := builder.Build(nil)
	require.ErrorIs(t, err, domain.ErrStructure)

	_, _, err = builder.Build(&domain.ChunkDocument{ProcessingMode: domain.ProcessingModeComplete})
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "non-empty")

	doc := completeDocument(t)
	doc.ProcessingMode = "sampled"
	_, _, err = builder.Build(doc)
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), domain.ProcessingModeComplete)
	assert.Contains(t, err.Error(), "sampled")
}

func TestGridBuilder_NilRecord(t *testing.T) {
	doc := completeDocument(t)
	doc.Chunks[7] = nil

	_, _, err := NewGridBuilder().Build(doc)
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "chunk #7")
}

func TestGridBuilder_IdentifierRangeViolation(t *testing.T) {
	doc := completeDocument(t)
	doc.Chunks[0].ChunkID = "PA11-DIM01"
	doc.Chunks[0].PolicyArea = "PA11"

	_, _, err := NewGridBuilder().Build(doc)
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "policy-area index 11 outside 01-10")
}

func TestGridBuilder_IdentifierConsistency(t *testing.T) {
	doc := completeDocument(t)
	doc.Chunks[0].ChunkID = "PA02-DIM02" // record claims PA01/DIM01

	_, _, err := NewGridBuilder().Build(doc)
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "chunk_id must equal {policy_area_id}-{dimension_id}")
}

func TestGridBuilder_WhitespaceText(t *testing.T) {
	doc := completeDocument(t)
	doc.Chunks[3].Text = "   \n\t "

	_, _, err := NewGridBuilder().Build(doc)
	require.ErrorIs(t, err, domain.ErrStructure)
	assert.Contains(t, err.Error(), "non-whitespace text")
}

func TestGridBuilder_CollectsAllViolationsInOnePass(t *testing.T) {
	doc := completeDocument(t)
	doc.Chunks[0].Text = ""                 // required-field violation
	doc.Chunks[1].Confidence = 1.5          // content violation
	doc.Chunks[2].ChunkID = "PA99-DIM09"    // format violation
	doc.Chunks[3] = nil                     // record-type violation

	_, _, err := NewGridBuilder().Build(doc)
	require.Error(t, err)

	var serr *domain.StructureError
	require.ErrorAs(t, err, &serr)
	// Four defective records plus the completeness/cardinality fallout
	// of their exclusion.
	assert.GreaterOrEqual(t, len(serr.Violations), 4)
}
