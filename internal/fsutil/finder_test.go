package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	for _, name := range []string{"b.hcl", "a.txt", filepath.Join("nested", "c.hcl")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	single := filepath.Join(dir, "b.hcl")

	files, err := FindFiles([]string{dir, single, filepath.Join(dir, "missing")}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(nested, "c.hcl")}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(".", "") })
}
