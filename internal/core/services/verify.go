package services

import (
	"context"
	"fmt"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
)

// Verifier re-checks finished plans without the rest of the planning
// collaborators. Used by callers that hold a reconstructed plan but no
// grid or registry.
type Verifier struct {
	hasher driven.IntegrityHasher
}

// NewVerifier creates a verifier with the hasher the plan was built
// with. The hasher may be nil, in which case only the plan id is
// re-checked.
func NewVerifier(hasher driven.IntegrityHasher) *Verifier {
	return &Verifier{hasher: hasher}
}

// Verify re-checks the plan id and, when a hasher is configured, the
// integrity hash.
func (v *Verifier) Verify(_ context.Context, plan *domain.ExecutionPlan) error {
	return verifyPlan(v.hasher, plan)
}

// verifyPlan re-derives both digests from the plan's own tasks: the
// plan id against the canonical payload, and the integrity hash
// against a fresh computation with the given hasher (skipped when
// nil).
func verifyPlan(hasher driven.IntegrityHasher, plan *domain.ExecutionPlan) error {
	tasks := plan.Tasks()

	recomputed, err := domain.ComputePlanID(tasks)
	if err != nil {
		return err
	}
	if recomputed != plan.PlanID() {
		return &domain.IntegrityError{
			Algorithm: "sha256",
			Digest:    plan.PlanID(),
			Reason:    "plan id does not match canonical payload of archived tasks",
		}
	}

	if hasher != nil {
		payload, err := domain.IntegrityPayload(tasks)
		if err != nil {
			return err
		}
		if got := hasher.Sum(payload); got != plan.IntegrityHash() {
			return &domain.IntegrityError{
				Algorithm: hasher.Name(),
				Digest:    plan.IntegrityHash(),
				Reason:    fmt.Sprintf("integrity hash does not match recomputation %s", got),
			}
		}
	}
	return nil
}
