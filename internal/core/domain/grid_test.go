package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCellMap(t *testing.T) map[ChunkKey]*ChunkRecord {
	t.Helper()
	cells := make(map[ChunkKey]*ChunkRecord, GridCellCount)
	for _, key := range AllChunkKeys() {
		rec, err := NewChunkRecord(key.PolicyArea, key.Dimension, "text for "+key.String())
		require.NoError(t, err)
		cells[key] = rec
	}
	return cells
}

func TestChunkGrid_Get(t *testing.T) {
	grid := NewChunkGrid(fullCellMap(t))
	require.Equal(t, 60, grid.Count())

	rec, err := grid.Get("PA05", "DIM03")
	require.NoError(t, err)
	assert.Equal(t, "PA05-DIM03", rec.ChunkID)
}

func TestChunkGrid_GetMissCarriesRequestedKey(t *testing.T) {
	grid := NewChunkGrid(map[ChunkKey]*ChunkRecord{})

	_, err := grid.Get("PA05", "DIM03")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouting)
	assert.Contains(t, err.Error(), "PA05")
	assert.Contains(t, err.Error(), "DIM03")
}

func TestChunkGrid_KeysAreSortedAndCopied(t *testing.T) {
	grid := NewChunkGrid(fullCellMap(t))

	keys := grid.Keys()
	require.Len(t, keys, 60)
	assert.Equal(t, "PA01-DIM01", keys[0].String())
	assert.Equal(t, "PA10-DIM06", keys[59].String())

	keys[0] = ChunkKey{PolicyArea: "PA99", Dimension: "DIM99"}
	assert.Equal(t, "PA01-DIM01", grid.Keys()[0].String())
}
