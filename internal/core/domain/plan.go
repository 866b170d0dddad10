package domain

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// PlanIDHexLength is the required digest length for a plan id:
// 64 lowercase hexadecimal characters (SHA-256).
const PlanIDHexLength = 64

// ValidateDigest checks that a digest is exactly wantLen lowercase-hex
// characters. This is a self-check against a tampered or misconfigured
// hash implementation, applied independently of the computation.
func ValidateDigest(algorithm, digest string, wantLen int) error {
	if len(digest) != wantLen {
		return &IntegrityError{
			Algorithm: algorithm,
			Digest:    digest,
			Reason:    fmt.Sprintf("expected %d hex characters, got %d", wantLen, len(digest)),
		}
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return &IntegrityError{
				Algorithm: algorithm,
				Digest:    digest,
				Reason:    fmt.Sprintf("character %q is not lowercase hex", r),
			}
		}
	}
	return nil
}

// CanonicalTaskProjection reduces a task to the field set covered by
// the plan id. Map keys serialize in sorted order, which together with
// compact output gives the canonical whitespace-free text form.
func CanonicalTaskProjection(t *Task) map[string]any {
	return map[string]any{
		"task_id":         t.TaskID(),
		"question_id":     t.QuestionID(),
		"question_global": t.QuestionGlobal(),
		"policy_area_id":  t.PolicyArea(),
		"dimension_id":    t.Dimension(),
		"chunk_id":        t.ChunkID(),
	}
}

// CanonicalPlanPayload serializes the reduced projections of an
// already-sorted task sequence to the canonical text form the plan id
// is computed over.
func CanonicalPlanPayload(tasks []*Task) ([]byte, error) {
	projections := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		projections = append(projections, CanonicalTaskProjection(t))
	}
	payload, err := json.Marshal(projections)
	if err != nil {
		return nil, fmt.Errorf("serializing plan projection: %w", err)
	}
	return payload, nil
}

// ComputePlanID hashes the canonical payload of the sorted task
// sequence with SHA-256 and self-checks the digest format before
// returning it.
func ComputePlanID(tasks []*Task) (string, error) {
	payload, err := CanonicalPlanPayload(tasks)
	if err != nil {
		return "", err
	}
	digest := fmt.Sprintf("%x", sha256.Sum256(payload))
	if err := ValidateDigest("sha256", digest, PlanIDHexLength); err != nil {
		return "", err
	}
	return digest, nil
}

// IntegrityPayload serializes the integrity-hash projection of the
// sorted task sequence. It deliberately covers a different field set
// than the plan id: pattern cardinality and the resolved signal types,
// so that a plan with identical routing but different enrichment
// hashes differently.
func IntegrityPayload(tasks []*Task) ([]byte, error) {
	projections := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		signalTypes := make([]string, 0, len(t.signals))
		for st := range t.signals {
			signalTypes = append(signalTypes, st)
		}
		sort.Strings(signalTypes)
		projections = append(projections, map[string]any{
			"task_id":       t.TaskID(),
			"chunk_id":      t.ChunkID(),
			"question_id":   t.QuestionID(),
			"pattern_count": len(t.patterns),
			"signal_types":  signalTypes,
		})
	}
	payload, err := json.Marshal(projections)
	if err != nil {
		return nil, fmt.Errorf("serializing integrity projection: %w", err)
	}
	return payload, nil
}

// PlanMetadata carries the bidirectional task-chunk traceability maps.
type PlanMetadata struct {
	// TaskToChunk maps each task id to its bound chunk id.
	TaskToChunk map[string]string

	// ChunkToTasks maps each chunk id to the task ids bound to it,
	// in ascending task-id order.
	ChunkToTasks map[string][]string
}

// PlanParams carries the inputs to NewExecutionPlan. Tasks must
// already be sorted ascending by task id.
type PlanParams struct {
	PlanID        string
	Tasks         []*Task
	ChunkCount    int
	QuestionCount int
	IntegrityHash string
	CreatedAt     time.Time
	CorrelationID string
}

// ExecutionPlan is the complete, ordered result of one synchronization
// run. Like Task, all fields are unexported: a plan is immutable after
// construction and is optionally archived by an external persistence
// collaborator.
type ExecutionPlan struct {
	planID        string
	tasks         []*Task
	chunkCount    int
	questionCount int
	integrityHash string
	createdAt     time.Time
	correlationID string
	metadata      PlanMetadata
}

// NewExecutionPlan constructs a plan, enforcing its invariants:
// task count equal to question count, strict ascending task-id order,
// unique task ids, and a plan id that matches the canonical payload of
// the task sequence. Traceability metadata is derived here so it can
// never disagree with the task set.
func NewExecutionPlan(p PlanParams) (*ExecutionPlan, error) {
	if len(p.Tasks) == 0 {
		return nil, &ConstructionError{Kind: "plan", Field: "tasks", Reason: "must be non-empty"}
	}
	if len(p.Tasks) != p.QuestionCount {
		return nil, &ConstructionError{
			Kind:   "plan",
			Field:  "tasks",
			Reason: fmt.Sprintf("task count %d does not equal question count %d", len(p.Tasks), p.QuestionCount),
		}
	}
	if p.ChunkCount <= 0 {
		return nil, &ConstructionError{Kind: "plan", Field: "chunk_count", Reason: "must be positive"}
	}
	if p.CorrelationID == "" {
		return nil, &ConstructionError{Kind: "plan", Field: "correlation_id", Reason: "must be non-empty"}
	}
	if p.CreatedAt.IsZero() {
		return nil, &ConstructionError{Kind: "plan", Field: "created_at", Reason: "must be set"}
	}
	if p.IntegrityHash == "" {
		return nil, &ConstructionError{Kind: "plan", Field: "integrity_hash", Reason: "must be non-empty"}
	}
	if err := ValidateDigest("sha256", p.PlanID, PlanIDHexLength); err != nil {
		return nil, err
	}
	for i := 1; i < len(p.Tasks); i++ {
		prev, cur := p.Tasks[i-1].TaskID(), p.Tasks[i].TaskID()
		if prev >= cur {
			return nil, &ConstructionError{
				Kind:   "plan",
				Field:  "tasks",
				Reason: fmt.Sprintf("task ids not strictly ascending at position %d: %q >= %q", i, prev, cur),
			}
		}
	}

	// Recompute the plan id from the supplied tasks; a mismatch means
	// the caller hashed a different task sequence than it handed over.
	recomputed, err := ComputePlanID(p.Tasks)
	if err != nil {
		return nil, err
	}
	if recomputed != p.PlanID {
		return nil, &IntegrityError{
			Algorithm: "sha256",
			Digest:    p.PlanID,
			Reason:    "plan id does not match canonical payload of supplied tasks",
		}
	}

	tasks := make([]*Task, len(p.Tasks))
	copy(tasks, p.Tasks)

	meta := PlanMetadata{
		TaskToChunk:  make(map[string]string, len(tasks)),
		ChunkToTasks: make(map[string][]string),
	}
	for _, t := range tasks {
		meta.TaskToChunk[t.TaskID()] = t.ChunkID()
		meta.ChunkToTasks[t.ChunkID()] = append(meta.ChunkToTasks[t.ChunkID()], t.TaskID())
	}

	return &ExecutionPlan{
		planID:        p.PlanID,
		tasks:         tasks,
		chunkCount:    p.ChunkCount,
		questionCount: p.QuestionCount,
		integrityHash: p.IntegrityHash,
		createdAt:     p.CreatedAt,
		correlationID: p.CorrelationID,
		metadata:      meta,
	}, nil
}

// PlanID returns the 64-character lowercase hex plan identifier.
func (p *ExecutionPlan) PlanID() string { return p.planID }

// Tasks returns the ordered task sequence. The slice is a copy; the
// tasks themselves are immutable.
func (p *ExecutionPlan) Tasks() []*Task {
	out := make([]*Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// TaskCount returns the number of tasks in the plan.
func (p *ExecutionPlan) TaskCount() int { return len(p.tasks) }

// ChunkCount returns the size of the grid the plan was built against.
func (p *ExecutionPlan) ChunkCount() int { return p.chunkCount }

// QuestionCount returns the number of questions the plan covers.
func (p *ExecutionPlan) QuestionCount() int { return p.questionCount }

// IntegrityHash returns the algorithm-agile integrity digest.
func (p *ExecutionPlan) IntegrityHash() string { return p.integrityHash }

// CreatedAt returns the plan's construction timestamp.
func (p *ExecutionPlan) CreatedAt() time.Time { return p.createdAt }

// CorrelationID returns the synchronization run's correlation id.
func (p *ExecutionPlan) CorrelationID() string { return p.correlationID }

// Metadata returns the traceability maps. Maps are copied so callers
// cannot reach the plan's internal state.
func (p *ExecutionPlan) Metadata() PlanMetadata {
	meta := PlanMetadata{
		TaskToChunk:  make(map[string]string, len(p.metadata.TaskToChunk)),
		ChunkToTasks: make(map[string][]string, len(p.metadata.ChunkToTasks)),
	}
	for k, v := range p.metadata.TaskToChunk {
		meta.TaskToChunk[k] = v
	}
	for k, v := range p.metadata.ChunkToTasks {
		ids := make([]string, len(v))
		copy(ids, v)
		meta.ChunkToTasks[k] = ids
	}
	return meta
}
