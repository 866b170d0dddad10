package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// PatternSnapshot is the wire form of one scoped pattern.
type PatternSnapshot struct {
	PatternID   string `json:"pattern_id"`
	PolicyArea  string `json:"policy_area_id"`
	Expression  string `json:"expression,omitempty"`
	Description string `json:"description,omitempty"`
}

// SignalSnapshot is the wire form of one resolved signal.
type SignalSnapshot struct {
	Type    string `json:"signal_type"`
	Content any    `json:"content"`
}

// TaskSnapshot is the wire form of one task.
type TaskSnapshot struct {
	TaskID           string            `json:"task_id"`
	QuestionID       string            `json:"question_id"`
	QuestionGlobal   int               `json:"question_global"`
	PolicyArea       string            `json:"policy_area_id"`
	Dimension        string            `json:"dimension_id"`
	ChunkID          string            `json:"chunk_id"`
	Patterns         []PatternSnapshot `json:"patterns"`
	Signals          []SignalSnapshot  `json:"signals"`
	CreatedAt        string            `json:"creation_timestamp"`
	ExpectedElements SchemaValue       `json:"expected_elements"`
	StartPos         int               `json:"start_pos"`
	EndPos           int               `json:"end_pos"`
	CorrelationID    string            `json:"correlation_id"`
	PatternsOriginal int               `json:"patterns_original"`
	PatternsFiltered int               `json:"patterns_filtered"`
}

// PlanSnapshot is the serialized, archivable form of an execution
// plan. Round-tripping a plan through its snapshot reproduces an
// identical plan id and task count; the persistence layer verifies
// this before committing anything.
type PlanSnapshot struct {
	PlanID        string         `json:"plan_id"`
	Tasks         []TaskSnapshot `json:"tasks"`
	ChunkCount    int            `json:"chunk_count"`
	QuestionCount int            `json:"question_count"`
	IntegrityHash string         `json:"integrity_hash"`
	CreatedAt     string         `json:"created_at"`
	CorrelationID string         `json:"correlation_id"`
}

// Snapshot produces the plan's serialized form.
func (p *ExecutionPlan) Snapshot() PlanSnapshot {
	tasks := make([]TaskSnapshot, 0, len(p.tasks))
	for _, t := range p.tasks {
		patterns := make([]PatternSnapshot, 0, len(t.patterns))
		for _, pat := range t.patterns {
			patterns = append(patterns, PatternSnapshot{
				PatternID:   pat.PatternID,
				PolicyArea:  pat.PolicyArea,
				Expression:  pat.Expression,
				Description: pat.Description,
			})
		}
		// Keyed map order is irrelevant on the wire: reconstruction
		// rebuilds the same keyed map regardless of slice order.
		signals := make([]SignalSnapshot, 0, len(t.signals))
		for _, st := range sortedSignalTypes(t.signals) {
			sig := t.signals[st]
			signals = append(signals, SignalSnapshot{Type: sig.Type, Content: sig.Content})
		}
		tasks = append(tasks, TaskSnapshot{
			TaskID:           t.taskID,
			QuestionID:       t.questionID,
			QuestionGlobal:   t.questionGlobal,
			PolicyArea:       t.policyArea,
			Dimension:        t.dimension,
			ChunkID:          t.chunkID,
			Patterns:         patterns,
			Signals:          signals,
			CreatedAt:        t.createdAt.Format(time.RFC3339Nano),
			ExpectedElements: t.expectedElements,
			StartPos:         t.metadata.StartPos,
			EndPos:           t.metadata.EndPos,
			CorrelationID:    t.metadata.CorrelationID,
			PatternsOriginal: t.metadata.PatternsOriginal,
			PatternsFiltered: t.metadata.PatternsFiltered,
		})
	}
	return PlanSnapshot{
		PlanID:        p.planID,
		Tasks:         tasks,
		ChunkCount:    p.chunkCount,
		QuestionCount: p.questionCount,
		IntegrityHash: p.integrityHash,
		CreatedAt:     p.createdAt.Format(time.RFC3339Nano),
		CorrelationID: p.correlationID,
	}
}

// MarshalPlan encodes a plan's snapshot as JSON.
func MarshalPlan(p *ExecutionPlan) ([]byte, error) {
	return json.Marshal(p.Snapshot())
}

// UnmarshalPlanSnapshot decodes a serialized snapshot.
func UnmarshalPlanSnapshot(data []byte) (PlanSnapshot, error) {
	var snap PlanSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return PlanSnapshot{}, fmt.Errorf("decoding plan snapshot: %w", err)
	}
	return snap, nil
}

// ReconstructPlan rebuilds a full ExecutionPlan from its snapshot.
// Every construction-time invariant is re-enforced, and the snapshot's
// plan id is re-validated against the canonical payload of the rebuilt
// task sequence, so a tampered snapshot cannot reconstruct.
func ReconstructPlan(snap PlanSnapshot) (*ExecutionPlan, error) {
	tasks := make([]*Task, 0, len(snap.Tasks))
	for _, ts := range snap.Tasks {
		createdAt, err := time.Parse(time.RFC3339Nano, ts.CreatedAt)
		if err != nil {
			return nil, &ConstructionError{
				Kind:   "task",
				Field:  "creation_timestamp",
				Reason: fmt.Sprintf("unparseable timestamp %q: %v", ts.CreatedAt, err),
			}
		}
		patterns := make([]Pattern, 0, len(ts.Patterns))
		for _, pat := range ts.Patterns {
			patterns = append(patterns, Pattern{
				PatternID:   pat.PatternID,
				PolicyArea:  pat.PolicyArea,
				Expression:  pat.Expression,
				Description: pat.Description,
			})
		}
		signals := make([]Signal, 0, len(ts.Signals))
		for _, sig := range ts.Signals {
			signals = append(signals, Signal{Type: sig.Type, Content: sig.Content})
		}
		task, err := NewTask(TaskParams{
			QuestionID:       ts.QuestionID,
			QuestionGlobal:   ts.QuestionGlobal,
			PolicyArea:       ts.PolicyArea,
			Dimension:        ts.Dimension,
			ChunkID:          ts.ChunkID,
			Patterns:         patterns,
			Signals:          signals,
			ExpectedElements: ts.ExpectedElements,
			CreatedAt:        createdAt,
			Metadata: TaskMetadata{
				StartPos:         ts.StartPos,
				EndPos:           ts.EndPos,
				CorrelationID:    ts.CorrelationID,
				PatternsOriginal: ts.PatternsOriginal,
				PatternsFiltered: ts.PatternsFiltered,
			},
		})
		if err != nil {
			return nil, err
		}
		if task.TaskID() != ts.TaskID {
			return nil, &ConstructionError{
				Kind:   "task",
				Field:  "task_id",
				Reason: fmt.Sprintf("snapshot id %q does not match derived id %q", ts.TaskID, task.TaskID()),
			}
		}
		tasks = append(tasks, task)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, snap.CreatedAt)
	if err != nil {
		return nil, &ConstructionError{
			Kind:   "plan",
			Field:  "created_at",
			Reason: fmt.Sprintf("unparseable timestamp %q: %v", snap.CreatedAt, err),
		}
	}

	return NewExecutionPlan(PlanParams{
		PlanID:        snap.PlanID,
		Tasks:         tasks,
		ChunkCount:    snap.ChunkCount,
		QuestionCount: snap.QuestionCount,
		IntegrityHash: snap.IntegrityHash,
		CreatedAt:     createdAt,
		CorrelationID: snap.CorrelationID,
	})
}

func sortedSignalTypes(signals map[string]Signal) []string {
	types := make([]string, 0, len(signals))
	for st := range signals {
		types = append(types, st)
	}
	sort.Strings(types)
	return types
}
