// Package memory provides an in-memory plan archive, used by tests and
// by runs that do not configure a database path.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Ensure Archive implements the driven port.
var _ driven.PlanArchive = (*Archive)(nil)

// Archive is an append-only in-memory plan store. Safe for concurrent
// use. Archived plans are stored in serialized form so Load exercises
// the same reconstruction path as a persistent archive.
type Archive struct {
	mu    sync.RWMutex
	plans map[string][]byte
	index []driven.PlanIndexEntry

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		plans: make(map[string][]byte),
		now:   time.Now,
	}
}

// Save serializes the plan, verifies the round trip, and commits it.
// Saving an already-archived plan id is a no-op.
func (a *Archive) Save(_ context.Context, plan *domain.ExecutionPlan) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.plans[plan.PlanID()]; exists {
		logger.Debug("plan %s already archived; skipping", plan.PlanID()[:12])
		return nil
	}

	payload, err := domain.MarshalPlan(plan)
	if err != nil {
		return fmt.Errorf("serializing plan %s: %w", plan.PlanID(), err)
	}
	// Round-trip verification before commit: a snapshot that cannot
	// reconstruct must never enter the archive.
	snap, err := domain.UnmarshalPlanSnapshot(payload)
	if err != nil {
		return fmt.Errorf("verifying plan %s: %w", plan.PlanID(), err)
	}
	if _, err := domain.ReconstructPlan(snap); err != nil {
		return fmt.Errorf("verifying plan %s: %w", plan.PlanID(), err)
	}

	a.plans[plan.PlanID()] = payload
	a.index = append(a.index, driven.PlanIndexEntry{
		PlanID:        plan.PlanID(),
		CorrelationID: plan.CorrelationID(),
		TaskCount:     plan.TaskCount(),
		ArchivedAt:    a.now(),
	})
	return nil
}

// Load reconstructs an archived plan.
func (a *Archive) Load(_ context.Context, planID string) (*domain.ExecutionPlan, error) {
	a.mu.RLock()
	payload, ok := a.plans[planID]
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, domain.ErrNotFound)
	}

	snap, err := domain.UnmarshalPlanSnapshot(payload)
	if err != nil {
		return nil, err
	}
	return domain.ReconstructPlan(snap)
}

// List returns the index entries in append order.
func (a *Archive) List(_ context.Context) ([]driven.PlanIndexEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]driven.PlanIndexEntry, len(a.index))
	copy(out, a.index)
	return out, nil
}
