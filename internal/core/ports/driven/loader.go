package driven

import (
	"context"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

// QuestionnaireLoader supplies the ordered question collection. The
// core does not parse questionnaire storage formats; questions arrive
// already carrying their global ordinal, routing keys, patterns,
// schema declaration and signal requirements.
type QuestionnaireLoader interface {
	// Load returns the questionnaire's questions in storage order.
	Load(ctx context.Context) ([]domain.Question, error)
}

// DocumentIngestor supplies the materialized chunk collection for one
// source document, together with its processing-mode marker. The core
// does not parse source documents.
type DocumentIngestor interface {
	// Ingest returns the raw chunk document for grid construction.
	Ingest(ctx context.Context) (*domain.ChunkDocument, error)
}
