package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/irrigo/internal/core/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func archivablePlan(t *testing.T, questionID string, global int) *domain.ExecutionPlan {
	t.Helper()
	task, err := domain.NewTask(domain.TaskParams{
		QuestionID:     questionID,
		QuestionGlobal: global,
		PolicyArea:     "PA02",
		Dimension:      "DIM03",
		ChunkID:        "PA02-DIM03",
		Patterns: []domain.Pattern{
			{PatternID: "PAT-1", PolicyArea: "PA02", Expression: "water"},
		},
		Signals: []domain.Signal{
			{Type: "keyword", Content: []any{"drip", "moisture"}},
		},
		CreatedAt: time.Now(),
		Metadata:  domain.TaskMetadata{CorrelationID: "corr-sqlite"},
	})
	require.NoError(t, err)
	tasks := []*domain.Task{task}

	planID, err := domain.ComputePlanID(tasks)
	require.NoError(t, err)
	payload, err := domain.IntegrityPayload(tasks)
	require.NoError(t, err)
	sum := sha256.Sum256(payload)

	plan, err := domain.NewExecutionPlan(domain.PlanParams{
		PlanID:        planID,
		Tasks:         tasks,
		ChunkCount:    60,
		QuestionCount: 1,
		IntegrityHash: hex.EncodeToString(sum[:]),
		CreatedAt:     time.Now(),
		CorrelationID: "corr-sqlite",
	})
	require.NoError(t, err)
	return plan
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	plan := archivablePlan(t, "Q-1", 1)

	require.NoError(t, store.Save(context.Background(), plan))

	loaded, err := store.Load(context.Background(), plan.PlanID())
	require.NoError(t, err)
	assert.Equal(t, plan.PlanID(), loaded.PlanID())
	assert.Equal(t, plan.IntegrityHash(), loaded.IntegrityHash())
	assert.Equal(t, plan.TaskCount(), loaded.TaskCount())
	assert.Equal(t, plan.CorrelationID(), loaded.CorrelationID())

	// The reconstructed task carries the archived signal content.
	sig, ok := loaded.Tasks()[0].Signal("keyword")
	require.True(t, ok)
	assert.NotNil(t, sig.Content)
}

func TestStore_LoadMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.Load(context.Background(), "ffffffffffff")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveIsIdempotentPerPlanID(t *testing.T) {
	store := testStore(t)
	plan := archivablePlan(t, "Q-1", 1)

	require.NoError(t, store.Save(context.Background(), plan))
	require.NoError(t, store.Save(context.Background(), plan))

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_ListInAppendOrder(t *testing.T) {
	store := testStore(t)
	first := archivablePlan(t, "Q-1", 1)
	second := archivablePlan(t, "Q-2", 2)

	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), second))

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.PlanID(), entries[0].PlanID)
	assert.Equal(t, second.PlanID(), entries[1].PlanID)
	assert.False(t, entries[0].ArchivedAt.IsZero())
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	plan := archivablePlan(t, "Q-1", 1)
	require.NoError(t, store.Save(context.Background(), plan))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(context.Background(), plan.PlanID())
	require.NoError(t, err)
	assert.Equal(t, plan.PlanID(), loaded.PlanID())
}
