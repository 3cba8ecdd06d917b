package dataio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadColumns(t *testing.T) {
	path := writeTemp(t, `# comment line
1.0  2.0  3.0

4.0  5.0  6.0
`)
	cols, err := ReadColumns(path)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, []float64{1, 4}, cols[0])
	assert.Equal(t, []float64{2, 5}, cols[1])
	assert.Equal(t, []float64{3, 6}, cols[2])
}

func TestReadColumnsRaggedRow(t *testing.T) {
	path := writeTemp(t, "1.0 2.0\n3.0\n")
	_, err := ReadColumns(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fields")
}

func TestReadColumnsBadNumber(t *testing.T) {
	path := writeTemp(t, "1.0 abc\n")
	_, err := ReadColumns(path)
	require.Error(t, err)
}

func TestReadColumnsEmpty(t *testing.T) {
	path := writeTemp(t, "# only a comment\n")
	_, err := ReadColumns(path)
	require.Error(t, err)
}

func TestReadColumnsMissingFile(t *testing.T) {
	_, err := ReadColumns(filepath.Join(t.TempDir(), "nope.dat"))
	require.Error(t, err)
}
