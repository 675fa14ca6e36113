package inputs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadSeriesFileGroupsByLocation(t *testing.T) {
	path := writeCSV(t, "prices.csv", ""+
		"location,time,value\n"+
		"A,2026-01-01T00:00:00Z,1.5\n"+
		"B,2026-01-01T00:00:00Z,2.5\n"+
		"A,2026-01-01T01:00:00Z,1.8\n")

	series, err := ReadSeriesFile(path)
	require.NoError(t, err)
	require.Contains(t, series, "A")
	require.Contains(t, series, "B")
	assert.Equal(t, 2, series["A"].Len())
	assert.Equal(t, 1, series["B"].Len())

	v, ok := series["A"].At(time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 1.8, v)
}

func TestReadSeriesFileOrderedPreservesFirstSeenOrder(t *testing.T) {
	path := writeCSV(t, "prices.csv", ""+
		"location,time,value\n"+
		"B,2026-01-01T00:00:00Z,2.5\n"+
		"A,2026-01-01T00:00:00Z,1.5\n")

	_, order, err := ReadSeriesFileOrdered(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, order)
}

func TestReadSeriesFileEmptyReturnsErrNoRows(t *testing.T) {
	path := writeCSV(t, "prices.csv", "location,time,value\n")
	_, err := ReadSeriesFile(path)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadSeriesFileMissingFileReturnsError(t *testing.T) {
	_, err := ReadSeriesFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
