package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

const chunkFixture = `{
  "processing_mode": "complete_grid",
  "chunks": [
    {
      "chunk_id": "PA01-DIM01",
      "policy_area_id": "PA01",
      "dimension_id": "DIM01",
      "text": "Annual irrigation budget allocation.",
      "start_pos": 0,
      "end_pos": 36,
      "confidence": 0.92,
      "provenance": {"page": 4, "section": "2.1", "source_file": "plan.pdf"},
      "budget": {"amount": 120000},
      "expected_elements": {
        "budget": {"type": "number", "required": true, "minimum": 1}
      }
    },
    {
      "chunk_id": "PA01-DIM02",
      "policy_area_id": "PA01",
      "dimension_id": "DIM02",
      "text": "Quarterly maintenance schedule.",
      "confidence": 0.8
    }
  ]
}`

func writeChunks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestor_Ingest(t *testing.T) {
	ingestor := NewIngestor(writeChunks(t, chunkFixture))

	doc, err := ingestor.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingModeComplete, doc.ProcessingMode)
	require.Len(t, doc.Chunks, 2)

	first := doc.Chunks[0]
	assert.Equal(t, "PA01-DIM01", first.ChunkID)
	assert.Equal(t, "PA01", first.PolicyArea)
	assert.Equal(t, "DIM01", first.Dimension)
	assert.Equal(t, 0.92, first.Confidence)
	require.NotNil(t, first.Provenance)
	assert.Equal(t, 4, first.Provenance.Page)
	assert.Equal(t, "plan.pdf", first.Provenance.SourceFile)

	require.Equal(t, domain.SchemaMap, first.ExpectedElements.Kind())
	spec := first.ExpectedElements.Map()["budget"]
	assert.True(t, spec.Required)
	assert.Equal(t, 1.0, spec.Minimum)

	// Undeclared expected elements classify as absent.
	assert.True(t, doc.Chunks[1].ExpectedElements.IsAbsent())
	assert.Nil(t, doc.Chunks[1].Provenance)
}

func TestIngestor_MissingFile(t *testing.T) {
	ingestor := NewIngestor(filepath.Join(t.TempDir(), "absent.json"))

	_, err := ingestor.Ingest(context.Background())
	require.Error(t, err)
}

func TestIngestor_MalformedJSON(t *testing.T) {
	ingestor := NewIngestor(writeChunks(t, `{"chunks": [`))

	_, err := ingestor.Ingest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing chunk document")
}

func TestIngestor_ModePassedThroughUnvalidated(t *testing.T) {
	ingestor := NewIngestor(writeChunks(t, `{"processing_mode": "sampled", "chunks": []}`))

	doc, err := ingestor.Ingest(context.Background())
	require.NoError(t, err)
	// The grid builder owns mode validation.
	assert.Equal(t, "sampled", doc.ProcessingMode)
}
