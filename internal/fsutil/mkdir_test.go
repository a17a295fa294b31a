package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestEnsureBasedirCreatesMissingParents(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b", "c")

	assert.NilError(t, EnsureBasedir(dir))

	info, err := os.Stat(dir)
	assert.NilError(t, err)
	assert.Assert(t, info.IsDir())
}

func TestEnsureBasedirAcceptsExistingWritableDir(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, EnsureBasedir(dir))
}

func TestEnsureBasedirRejectsFileInThePath(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notadir")
	assert.NilError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := EnsureBasedir(file)
	assert.ErrorContains(t, err, "not a directory")
}
