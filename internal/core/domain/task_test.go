package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTaskParams() TaskParams {
	return TaskParams{
		QuestionID:     "Q-005",
		QuestionGlobal: 5,
		PolicyArea:     "PA03",
		Dimension:      "DIM01",
		ChunkID:        "PA03-DIM01",
		Patterns:       []Pattern{{PatternID: "p1", PolicyArea: "PA03"}},
		Signals:        []Signal{{Type: "temporal", Content: "2019-2022"}},
		CreatedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Metadata:       TaskMetadata{CorrelationID: "run-1", PatternsOriginal: 4, PatternsFiltered: 1},
	}
}

func TestDeriveTaskID(t *testing.T) {
	assert.Equal(t, "MQC-005_PA03", DeriveTaskID(5, "PA03"))
	assert.Equal(t, "MQC-000_PA01", DeriveTaskID(0, "PA01"))
	assert.Equal(t, "MQC-999_PA10", DeriveTaskID(999, "PA10"))
}

func TestNewTask_Valid(t *testing.T) {
	task, err := NewTask(validTaskParams())
	require.NoError(t, err)

	assert.Equal(t, "MQC-005_PA03", task.TaskID())
	assert.Equal(t, "Q-005", task.QuestionID())
	assert.Equal(t, 5, task.QuestionGlobal())
	assert.Equal(t, "PA03-DIM01", task.ChunkID())
	assert.Equal(t, "2024-06-01T12:00:00Z", task.CreatedAtISO())

	sig, ok := task.Signal("temporal")
	require.True(t, ok)
	assert.Equal(t, "2019-2022", sig.Content)
}

func TestNewTask_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TaskParams)
	}{
		{"question_id", func(p *TaskParams) { p.QuestionID = "" }},
		{"policy_area", func(p *TaskParams) { p.PolicyArea = "" }},
		{"dimension", func(p *TaskParams) { p.Dimension = "" }},
		{"chunk_id", func(p *TaskParams) { p.ChunkID = "" }},
		{"created_at", func(p *TaskParams) { p.CreatedAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validTaskParams()
			tt.mutate(&p)
			_, err := NewTask(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConstruction)
		})
	}
}

func TestNewTask_OrdinalOutOfRange(t *testing.T) {
	for _, ordinal := range []int{-1, 1000} {
		p := validTaskParams()
		p.QuestionGlobal = ordinal
		_, err := NewTask(p)
		require.Error(t, err, "ordinal %d", ordinal)
		assert.ErrorIs(t, err, ErrConstruction)
	}
}

func TestNewTask_DuplicateSignalsCollapseToLastSeen(t *testing.T) {
	p := validTaskParams()
	p.Signals = []Signal{
		{Type: "temporal", Content: "first"},
		{Type: "temporal", Content: "last"},
	}
	task, err := NewTask(p)
	require.NoError(t, err)

	require.Len(t, task.Signals(), 1)
	sig, _ := task.Signal("temporal")
	assert.Equal(t, "last", sig.Content)
}

func TestTask_AccessorsReturnCopies(t *testing.T) {
	task, err := NewTask(validTaskParams())
	require.NoError(t, err)

	patterns := task.Patterns()
	patterns[0].PatternID = "mutated"
	assert.Equal(t, "p1", task.Patterns()[0].PatternID)

	signals := task.Signals()
	signals["temporal"] = Signal{Type: "temporal", Content: "mutated"}
	sig, _ := task.Signal("temporal")
	assert.Equal(t, "2019-2022", sig.Content)
}
