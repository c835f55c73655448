package record

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evals.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Record(sampleEntry(i)))
	}

	n, err := r.CountByRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = r.CountByRun("other-run")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteRecorderReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evals.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.Record(sampleEntry(0)))
	require.NoError(t, r.Close())

	// Records survive process restarts.
	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Record(sampleEntry(1)))

	n, err := r.CountByRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteRecorderBadPath(t *testing.T) {
	_, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "missing", "dir", "evals.db"))
	assert.Error(t, err)
}
