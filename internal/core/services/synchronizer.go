package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/core/ports/driving"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Ensure Synchronizer implements the driving port.
var _ driving.Planner = (*Synchronizer)(nil)

// Synchronizer routes questions to chunks and assembles the
// deterministic execution plan. It holds a reference to an immutable
// grid and never mutates it. The whole run is synchronous and
// strictly sequential: task-id uniqueness and plan-id determinism
// depend on the fixed iteration order.
type Synchronizer struct {
	grid     *domain.ChunkGrid
	registry driven.SignalRegistry
	hasher   driven.IntegrityHasher
	metrics  driven.MetricsRecorder

	// now is injectable for deterministic tests.
	now func() time.Time

	// newCorrelationID is injectable for deterministic tests.
	newCorrelationID func() string
}

// NewSynchronizer creates a synchronizer over a validated grid.
// The registry and hasher are required collaborators; their absence is
// reported as a configuration error at run time, not silently skipped.
// Metrics may be nil, in which case recording is disabled.
func NewSynchronizer(
	grid *domain.ChunkGrid,
	registry driven.SignalRegistry,
	hasher driven.IntegrityHasher,
	metrics driven.MetricsRecorder,
) *Synchronizer {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Synchronizer{
		grid:             grid,
		registry:         registry,
		hasher:           hasher,
		metrics:          metrics,
		now:              time.Now,
		newCorrelationID: uuid.NewString,
	}
}

// Synchronize executes one run: every question is routed, scoped,
// enriched and validated, then the task set is assembled into one
// content-addressed plan. Any failure aborts the run; partial plans
// are never returned.
func (s *Synchronizer) Synchronize(ctx context.Context, questions []domain.Question) (*domain.ExecutionPlan, error) {
	s.metrics.RunStarted()

	plan, err := s.synchronize(ctx, questions)
	if err != nil {
		s.metrics.RunFailed()
		return nil, err
	}
	s.metrics.RunSucceeded(plan.TaskCount())
	return plan, nil
}

func (s *Synchronizer) synchronize(ctx context.Context, questions []domain.Question) (*domain.ExecutionPlan, error) {
	if s.registry == nil {
		return nil, &domain.ConstructionError{
			Kind:   "synchronizer",
			Field:  "signal registry",
			Reason: "no signal registry injected; signal resolution cannot run",
		}
	}
	if s.hasher == nil {
		return nil, &domain.ConstructionError{
			Kind:   "synchronizer",
			Field:  "integrity hasher",
			Reason: "no integrity hasher injected",
		}
	}
	if len(questions) == 0 {
		return nil, &domain.ConstructionError{
			Kind:   "plan",
			Field:  "questions",
			Reason: "question collection is empty",
		}
	}

	correlationID := s.newCorrelationID()
	logger.Info("synchronization run %s: %d question(s) against %d chunk(s)",
		correlationID, len(questions), s.grid.Count())

	// Fixed deterministic question order: (dimension, question id).
	ordered := make([]domain.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Dimension != ordered[j].Dimension {
			return ordered[i].Dimension < ordered[j].Dimension
		}
		return ordered[i].QuestionID < ordered[j].QuestionID
	})

	tasks := make([]*domain.Task, 0, len(ordered))
	seenTaskIDs := make(map[string]string, len(ordered))
	for _, q := range ordered {
		task, err := s.buildTask(ctx, q, correlationID)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.QuestionID, err)
		}
		if prevQuestion, dup := seenTaskIDs[task.TaskID()]; dup {
			return nil, &domain.ConstructionError{
				Kind:  "task",
				Field: "task_id",
				Reason: fmt.Sprintf("duplicate task id %s: questions %s and %s derive the same identifier",
					task.TaskID(), prevQuestion, q.QuestionID),
			}
		}
		seenTaskIDs[task.TaskID()] = q.QuestionID
		tasks = append(tasks, task)
	}

	return s.assemblePlan(tasks, len(questions), correlationID)
}

// buildTask runs the per-question sequence: route, scope patterns,
// resolve signals, validate schema compatibility, construct.
func (s *Synchronizer) buildTask(ctx context.Context, q domain.Question, correlationID string) (*domain.Task, error) {
	routing, err := s.route(q)
	if err != nil {
		return nil, err
	}

	patterns, err := FilterPatterns(q, routing.PolicyArea)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		s.metrics.WarningEmitted("empty_pattern_filter")
	}

	signals, err := ResolveSignals(ctx, routing.Chunk, q, s.registry)
	if err != nil {
		return nil, err
	}

	if _, err := ValidateCompatibility(q, routing.Chunk); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(domain.TaskParams{
		QuestionID:       q.QuestionID,
		QuestionGlobal:   q.QuestionGlobal,
		PolicyArea:       routing.PolicyArea,
		Dimension:        routing.Dimension,
		ChunkID:          routing.Chunk.ChunkID,
		Patterns:         patterns,
		Signals:          signals,
		ExpectedElements: q.ExpectedElements,
		CreatedAt:        s.now(),
		Metadata: domain.TaskMetadata{
			StartPos:         routing.StartPos,
			EndPos:           routing.EndPos,
			CorrelationID:    correlationID,
			PatternsOriginal: len(q.Patterns),
			PatternsFiltered: len(patterns),
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("task %s: question %s -> chunk %s (%d pattern(s), %d signal(s))",
		task.TaskID(), q.QuestionID, task.ChunkID(), len(patterns), len(task.Signals()))
	return task, nil
}

// route binds a question to its chunk and defends against a corrupted
// grid by re-verifying the routed record's own identifiers.
func (s *Synchronizer) route(q domain.Question) (*domain.ChunkRoutingResult, error) {
	chunk, err := s.grid.Get(q.PolicyArea, q.Dimension)
	if err != nil {
		return nil, err
	}
	if chunk.PolicyArea != q.PolicyArea || chunk.Dimension != q.Dimension {
		return nil, &domain.RoutingError{
			QuestionID: q.QuestionID,
			PolicyArea: q.PolicyArea,
			Dimension:  q.Dimension,
			Reason: fmt.Sprintf("routed chunk %s carries identifiers (%s, %s) that disagree with the requested key",
				chunk.ChunkID, chunk.PolicyArea, chunk.Dimension),
		}
	}
	return &domain.ChunkRoutingResult{
		Chunk:            chunk,
		QuestionID:       q.QuestionID,
		PolicyArea:       q.PolicyArea,
		Dimension:        q.Dimension,
		Text:             chunk.Text,
		ExpectedElements: chunk.ExpectedElements,
		StartPos:         chunk.StartPos,
		EndPos:           chunk.EndPos,
	}, nil
}

// assemblePlan sorts the task set, derives both digests and constructs
// the final plan, then runs the non-fatal cardinality audit.
func (s *Synchronizer) assemblePlan(tasks []*domain.Task, questionCount int, correlationID string) (*domain.ExecutionPlan, error) {
	if len(tasks) != questionCount {
		return nil, &domain.ConstructionError{
			Kind:   "plan",
			Field:  "tasks",
			Reason: fmt.Sprintf("constructed %d task(s) for %d question(s)", len(tasks), questionCount),
		}
	}

	// Batch-level duplicate audit: report every duplicate id, not just
	// the first. Per-question construction already hard-stops on the
	// first duplicate, so anything found here indicates a logic fault.
	if dups := duplicateTaskIDs(tasks); len(dups) > 0 {
		return nil, &domain.ConstructionError{
			Kind:   "plan",
			Field:  "tasks",
			Reason: "duplicate task id(s): " + joinSorted(dups),
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskID() < tasks[j].TaskID() })

	planID, err := domain.ComputePlanID(tasks)
	if err != nil {
		return nil, err
	}

	integrityPayload, err := domain.IntegrityPayload(tasks)
	if err != nil {
		return nil, err
	}
	integrityHash := s.hasher.Sum(integrityPayload)
	if err := domain.ValidateDigest(s.hasher.Name(), integrityHash, s.hasher.HexLength()); err != nil {
		return nil, err
	}

	plan, err := domain.NewExecutionPlan(domain.PlanParams{
		PlanID:        planID,
		Tasks:         tasks,
		ChunkCount:    s.grid.Count(),
		QuestionCount: questionCount,
		IntegrityHash: integrityHash,
		CreatedAt:     s.now(),
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	s.auditChunkUsage(plan)

	logger.Info("plan %s assembled: %d task(s), integrity %s:%s",
		plan.PlanID()[:12], plan.TaskCount(), s.hasher.Name(), integrityHash[:12])
	return plan, nil
}

// Verify re-checks a plan's identifiers: the plan id against the
// canonical payload of its tasks, the integrity hash against a fresh
// computation with the configured hasher, and both digests against
// their format self-checks.
func (s *Synchronizer) Verify(_ context.Context, plan *domain.ExecutionPlan) error {
	return verifyPlan(s.hasher, plan)
}

// duplicateTaskIDs returns every task id occurring more than once.
func duplicateTaskIDs(tasks []*domain.Task) []string {
	counts := make(map[string]int, len(tasks))
	for _, t := range tasks {
		counts[t.TaskID()]++
	}
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

func joinSorted(ids []string) string {
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}

// noopMetrics is the recorder used when none is injected.
type noopMetrics struct{}

func (noopMetrics) RunStarted()           {}
func (noopMetrics) RunSucceeded(int)      {}
func (noopMetrics) RunFailed()            {}
func (noopMetrics) WarningEmitted(string) {}
