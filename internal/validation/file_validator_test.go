package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welldata/internal/shared/testutil"
)

func newValidator(t *testing.T) *FileValidator {
	logger, _ := testutil.NewTestLogger(t)
	return NewFileValidator(logger)
}

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
	return path
}

func TestValidateWorkbook(t *testing.T) {
	dir := t.TempDir()
	v := newValidator(t)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid", touch(t, filepath.Join(dir, "field.xlsx")), ""},
		{"upper case extension", touch(t, filepath.Join(dir, "FIELD.XLSX")), ""},
		{"missing", filepath.Join(dir, "missing.xlsx"), "does not exist"},
		{"wrong extension", touch(t, filepath.Join(dir, "field.xls")), "not an .xlsx workbook"},
		{"lock file", touch(t, filepath.Join(dir, "~$field.xlsx")), "lock file"},
		{"directory", filepath.Join(dir, "dir.xlsx"), "is a directory"},
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.xlsx"), 0755))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbook(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	v := newValidator(t)

	require.NoError(t, v.ValidateOutputPath(filepath.Join(dir, "wells.xlsx")))

	nested := filepath.Join(dir, "a", "b", "wells.csv")
	require.NoError(t, v.ValidateOutputPath(nested))
	assert.DirExists(t, filepath.Dir(nested))

	err := v.ValidateOutputPath(filepath.Join(dir, "wells.txt"))
	assert.ErrorContains(t, err, "must end in .xlsx or .csv")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.xlsx"), 0755))
	assert.ErrorContains(t, v.ValidateOutputPath(filepath.Join(dir, "taken.xlsx")), "is a directory")

	// A regular file where a directory is needed.
	blocker := touch(t, filepath.Join(dir, "blocker"))
	assert.Error(t, v.ValidateOutputPath(filepath.Join(blocker, "wells.xlsx")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".write_test")
	}
}
