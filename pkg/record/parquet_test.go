package record

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evals.parquet")

	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = sampleEntry(i)
	}

	require.NoError(t, WriteParquet(path, entries))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	require.Len(t, got, len(entries))

	for i, e := range got {
		assert.Equal(t, entries[i].RunID, e.RunID)
		assert.Equal(t, entries[i].TrialID, e.TrialID)
		assert.Equal(t, entries[i].Bracket, e.Bracket)
		assert.Equal(t, entries[i].Rung, e.Rung)
		assert.Equal(t, entries[i].Score, e.Score)
		assert.Equal(t, entries[i].CumulativeCost, e.CumulativeCost)
		assert.Equal(t, entries[i].BestScore, e.BestScore)
	}
}

func TestParquetEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteParquet(path, nil))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
