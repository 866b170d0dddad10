package driving

import (
	"context"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

// Planner runs synchronization: routing every question to its chunk
// and assembling the deterministic, content-addressed execution plan.
type Planner interface {
	// Synchronize executes one run over the given questions against
	// the planner's chunk grid. It either returns a fully validated
	// plan or fails fast with a typed error; partial plans are never
	// returned.
	Synchronize(ctx context.Context, questions []domain.Question) (*domain.ExecutionPlan, error)

	// Verify re-checks a plan's identifiers: the plan id against the
	// canonical payload of its tasks and both digests against their
	// format self-checks.
	Verify(ctx context.Context, plan *domain.ExecutionPlan) error
}
