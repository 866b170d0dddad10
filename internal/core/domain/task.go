package domain

import (
	"fmt"
	"time"
)

// DeriveTaskID builds the canonical task identifier from a question's
// global ordinal and its routed policy area: "MQC-{ordinal:03d}_{PA}".
func DeriveTaskID(questionGlobal int, policyArea string) string {
	return fmt.Sprintf("MQC-%03d_%s", questionGlobal, policyArea)
}

// TaskMetadata is the provenance bag attached to a task.
type TaskMetadata struct {
	// StartPos and EndPos span the routed chunk's document position.
	StartPos int
	EndPos   int

	// CorrelationID ties the task to its synchronization run.
	CorrelationID string

	// PatternsOriginal and PatternsFiltered record the pattern counts
	// before and after area scoping.
	PatternsOriginal int
	PatternsFiltered int
}

// TaskParams carries the inputs to NewTask. All fields are required
// except Patterns and Signals, which may legitimately be empty.
type TaskParams struct {
	QuestionID       string
	QuestionGlobal   int
	PolicyArea       string
	Dimension        string
	ChunkID          string
	Patterns         []Pattern
	Signals          []Signal
	ExpectedElements SchemaValue
	CreatedAt        time.Time
	Metadata         TaskMetadata
}

// Task is the atomic, immutable unit of planned work: one question
// bound to one chunk, with scoped patterns and resolved signals.
// All fields are unexported so no handle can reassign them after
// construction; accessors return copies of composite values.
//
// A task is constructed exactly once per question during plan assembly
// and is owned by the ExecutionPlan that contains it.
type Task struct {
	taskID           string
	questionID       string
	questionGlobal   int
	policyArea       string
	dimension        string
	chunkID          string
	patterns         []Pattern
	signals          map[string]Signal
	createdAt        time.Time
	expectedElements SchemaValue
	metadata         TaskMetadata
}

// NewTask constructs a task, enforcing every construction-time
// invariant: required fields present, the global ordinal in [0, 999],
// and the task id derived from ordinal and policy area. Duplicate
// signal types collapse to the last-seen value; the caller is expected
// to have warned about duplicates during resolution.
func NewTask(p TaskParams) (*Task, error) {
	switch {
	case p.QuestionID == "":
		return nil, &ConstructionError{Kind: "task", Field: "question_id", Reason: "must be non-empty"}
	case p.PolicyArea == "":
		return nil, &ConstructionError{Kind: "task", Field: "policy_area_id", Reason: "must be non-empty"}
	case p.Dimension == "":
		return nil, &ConstructionError{Kind: "task", Field: "dimension_id", Reason: "must be non-empty"}
	case p.ChunkID == "":
		return nil, &ConstructionError{Kind: "task", Field: "chunk_id", Reason: "must be non-empty"}
	case p.CreatedAt.IsZero():
		return nil, &ConstructionError{Kind: "task", Field: "creation_timestamp", Reason: "must be set"}
	}
	if p.QuestionGlobal < 0 || p.QuestionGlobal > 999 {
		return nil, &ConstructionError{
			Kind:   "task",
			Field:  "question_global",
			Reason: fmt.Sprintf("must be in [0, 999], got %d", p.QuestionGlobal),
		}
	}

	patterns := make([]Pattern, len(p.Patterns))
	copy(patterns, p.Patterns)

	// Last-seen wins for duplicate signal types.
	signals := make(map[string]Signal, len(p.Signals))
	for _, sig := range p.Signals {
		signals[sig.Type] = sig
	}

	return &Task{
		taskID:           DeriveTaskID(p.QuestionGlobal, p.PolicyArea),
		questionID:       p.QuestionID,
		questionGlobal:   p.QuestionGlobal,
		policyArea:       p.PolicyArea,
		dimension:        p.Dimension,
		chunkID:          p.ChunkID,
		patterns:         patterns,
		signals:          signals,
		createdAt:        p.CreatedAt,
		expectedElements: p.ExpectedElements,
		metadata:         p.Metadata,
	}, nil
}

// TaskID returns the derived identifier, e.g. "MQC-005_PA03".
func (t *Task) TaskID() string { return t.taskID }

// QuestionID returns the question's display identifier.
func (t *Task) QuestionID() string { return t.questionID }

// QuestionGlobal returns the question's global ordinal.
func (t *Task) QuestionGlobal() int { return t.questionGlobal }

// PolicyArea returns the routed policy area code.
func (t *Task) PolicyArea() string { return t.policyArea }

// Dimension returns the routed dimension code.
func (t *Task) Dimension() string { return t.dimension }

// ChunkID returns the bound chunk's identifier.
func (t *Task) ChunkID() string { return t.chunkID }

// Patterns returns the scoped pattern sequence. The slice is a copy;
// original order and duplicate pattern ids are preserved.
func (t *Task) Patterns() []Pattern {
	out := make([]Pattern, len(t.patterns))
	copy(out, t.patterns)
	return out
}

// Signals returns the resolved signals keyed by signal type. The map
// is a copy.
func (t *Task) Signals() map[string]Signal {
	out := make(map[string]Signal, len(t.signals))
	for k, v := range t.signals {
		out[k] = v
	}
	return out
}

// Signal looks up one resolved signal by type.
func (t *Task) Signal(signalType string) (Signal, bool) {
	s, ok := t.signals[signalType]
	return s, ok
}

// CreatedAt returns the construction timestamp.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// CreatedAtISO returns the construction timestamp as ISO-8601 with
// timezone.
func (t *Task) CreatedAtISO() string { return t.createdAt.Format(time.RFC3339) }

// ExpectedElements returns the question's schema declaration, carried
// forward into the task.
func (t *Task) ExpectedElements() SchemaValue { return t.expectedElements }

// Metadata returns the task's provenance bag.
func (t *Task) Metadata() TaskMetadata { return t.metadata }
