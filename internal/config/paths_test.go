package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.ExecutableDir), "ExecutableDir should be absolute")
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "exports"), paths.ExportsDir)

	again, err := GetPaths()
	require.NoError(t, err)
	assert.Equal(t, paths, again)
}

func TestEnsureDirectories(t *testing.T) {
	paths := PathsUnder(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.LogsDir, paths.ExportsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	paths := PathsUnder(root)

	abs := filepath.Join(root, "x", "..", "field.xlsx")
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"relative", paths.Resolve, "logs/welldata.log", filepath.Join(root, "logs", "welldata.log")},
		{"absolute", paths.Resolve, abs, filepath.Join(root, "field.xlsx")},
		{"bare export name", paths.ExportPath, "wells.xlsx", filepath.Join(root, "exports", "wells.xlsx")},
		{"export with dir", paths.ExportPath, "out/wells.csv", filepath.Join(root, "out", "wells.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.xlsx")
	assert.False(t, FileExists(f))
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))
	assert.True(t, FileExists(f))
}
