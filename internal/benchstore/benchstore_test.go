package benchstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer store.Close()

	runID, err := store.Record("sample.py", "parse", []float64{0.01, 0.02, 0.015})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	var iterations int
	err = store.db.QueryRow(`SELECT iterations FROM runs WHERE id = ?`, runID).Scan(&iterations)
	require.NoError(t, err)
	assert.Equal(t, 3, iterations)

	var samples int
	err = store.db.QueryRow(`SELECT COUNT(*) FROM samples WHERE run_id = ?`, runID).Scan(&samples)
	require.NoError(t, err)
	assert.Equal(t, 3, samples)
}
