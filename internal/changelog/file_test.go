package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	doc, err := ReadFile(filepath.Join(t.TempDir(), "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "docs", "CHANGELOG.md")

	require.NoError(t, WriteFile(path, "# Changelog\nfirst\n\n"))
	require.NoError(t, WriteFile(path, "# Changelog\nsecond\n\n"))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "# Changelog\nsecond\n\n", *doc)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestWriteFile_KeepsPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFile(path, "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFile_FailureLeavesOriginal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	// A directory at the target path cannot be replaced by rename.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "child"), 0o755))
	assert.Error(t, WriteFile(blocked, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}
