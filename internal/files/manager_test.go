package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManagerResolve(t *testing.T) {
	m := NewOutputManager("/data/reports", nil)

	assert.Equal(t, filepath.Join("/data/reports", "summary.json"), m.Resolve("summary.json"))
	assert.Equal(t, "/tmp/other.csv", m.Resolve("/tmp/other.csv"))
	assert.Equal(t, "/data/reports", m.BaseDir())
}

func TestOutputManagerWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewOutputManager(tmpDir, nil)

	err := m.WriteFile(filepath.Join("nested", "dir", "report.csv"), []byte("Category,Count\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "nested", "dir", "report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Category,Count\n", string(data))

	assert.True(t, m.FileExists(filepath.Join("nested", "dir", "report.csv")))
	assert.False(t, m.FileExists("missing.csv"))
}

func TestOutputManagerCreateFile(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewOutputManager(tmpDir, nil)

	f, err := m.CreateFile(filepath.Join("exports", "out.json"))
	require.NoError(t, err)

	_, err = f.WriteString(`{"records":[]}`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(tmpDir, "exports", "out.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[]}`, string(data))
}

func TestOutputManagerEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewOutputManager(tmpDir, nil)

	require.NoError(t, m.EnsureDir("artifacts"))
	info, err := os.Stat(filepath.Join(tmpDir, "artifacts"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op.
	require.NoError(t, m.EnsureDir("artifacts"))
}

func TestOutputManagerRemoveFile(t *testing.T) {
	tmpDir := t.TempDir()
	m := NewOutputManager(tmpDir, nil)

	require.NoError(t, m.WriteFile("stale.csv", []byte("x")))
	require.NoError(t, m.RemoveFile("stale.csv"))
	assert.False(t, m.FileExists("stale.csv"))

	assert.Error(t, m.RemoveFile("stale.csv"))
}
