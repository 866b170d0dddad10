// Package file provides the JSON chunk-document ingestor.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Ensure Ingestor implements the driven port.
var _ driven.DocumentIngestor = (*Ingestor)(nil)

// provenanceJSON is the wire form of a chunk's source location.
type provenanceJSON struct {
	Page       int    `json:"page"`
	Section    string `json:"section"`
	SourceFile string `json:"source_file"`
}

// chunkJSON is the wire form of one chunk record. Expected elements
// are decoded untyped and classified afterwards.
type chunkJSON struct {
	ChunkID          string          `json:"chunk_id"`
	PolicyArea       string          `json:"policy_area_id"`
	Dimension        string          `json:"dimension_id"`
	Text             string          `json:"text"`
	StartPos         int             `json:"start_pos"`
	EndPos           int             `json:"end_pos"`
	Confidence       float64         `json:"confidence"`
	Provenance       *provenanceJSON `json:"provenance"`
	Budget           map[string]any  `json:"budget"`
	KPI              map[string]any  `json:"kpi"`
	ExpectedElements any             `json:"expected_elements"`
}

// documentJSON is the document root.
type documentJSON struct {
	ProcessingMode string      `json:"processing_mode"`
	Chunks         []chunkJSON `json:"chunks"`
}

// Ingestor reads a materialized chunk document from a JSON file.
type Ingestor struct {
	path string
}

// NewIngestor creates an ingestor for the given chunk file.
func NewIngestor(path string) *Ingestor {
	return &Ingestor{path: path}
}

// Ingest parses the chunk document. Grid validation is the core's job;
// the ingestor only rejects files it cannot parse at all, so a
// structurally broken document still gets the full batched diagnostic
// from the grid builder.
func (i *Ingestor) Ingest(_ context.Context) (*domain.ChunkDocument, error) {
	data, err := os.ReadFile(i.path)
	if err != nil {
		return nil, fmt.Errorf("reading chunk document %s: %w", i.path, err)
	}

	var doc documentJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing chunk document %s: %w", i.path, err)
	}

	chunks := make([]*domain.ChunkRecord, 0, len(doc.Chunks))
	for _, c := range doc.Chunks {
		rec := &domain.ChunkRecord{
			ChunkID:          c.ChunkID,
			PolicyArea:       c.PolicyArea,
			Dimension:        c.Dimension,
			Text:             c.Text,
			StartPos:         c.StartPos,
			EndPos:           c.EndPos,
			Confidence:       c.Confidence,
			Budget:           c.Budget,
			KPI:              c.KPI,
			ExpectedElements: domain.ClassifySchema(c.ExpectedElements),
		}
		if c.Provenance != nil {
			rec.Provenance = &domain.Provenance{
				Page:       c.Provenance.Page,
				Section:    c.Provenance.Section,
				SourceFile: c.Provenance.SourceFile,
			}
		}
		chunks = append(chunks, rec)
	}

	logger.Debug("chunk document %s: %d chunk(s) in mode %q", i.path, len(chunks), doc.ProcessingMode)
	return &domain.ChunkDocument{
		ProcessingMode: doc.ProcessingMode,
		Chunks:         chunks,
	}, nil
}
