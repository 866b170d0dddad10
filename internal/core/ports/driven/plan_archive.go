package driven

import (
	"context"
	"time"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

// PlanIndexEntry is one row of the append-only plan index.
type PlanIndexEntry struct {
	// PlanID is the archived plan's content-addressed identifier.
	PlanID string

	// CorrelationID ties the entry to its synchronization run.
	CorrelationID string

	// TaskCount is the archived plan's task count.
	TaskCount int

	// ArchivedAt is when the plan was committed to the archive.
	ArchivedAt time.Time
}

// PlanArchive persists finished, integrity-verified plans. The archive
// is append-only: plans are never updated or deleted, and archiving
// the same plan id twice is a no-op. Implementations must verify the
// serialize-deserialize-reconstruct round trip before committing.
type PlanArchive interface {
	// Save archives a plan and appends an index entry.
	Save(ctx context.Context, plan *domain.ExecutionPlan) error

	// Load retrieves and reconstructs an archived plan by plan id.
	// Returns domain.ErrNotFound when absent.
	Load(ctx context.Context, planID string) (*domain.ExecutionPlan, error)

	// List returns all index entries in append order.
	List(ctx context.Context) ([]PlanIndexEntry, error)
}
