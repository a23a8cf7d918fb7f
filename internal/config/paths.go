package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the directories the server writes to. They are anchored at
// the executable's directory, never the working directory.
type Paths struct {
	ExecutableDir string
	LogsDir       string
	ExportsDir    string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsUnder(filepath.Dir(exe)), nil
}

// PathsUnder lays the application directories out below root.
func PathsUnder(root string) *Paths {
	return &Paths{
		ExecutableDir: root,
		LogsDir:       filepath.Join(root, DefaultLogsDir),
		ExportsDir:    filepath.Join(root, DefaultExportsDir),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ExportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Resolve anchors a relative path at the executable directory. Absolute
// paths are returned cleaned.
func (p *Paths) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.ExecutableDir, path)
}

// ExportPath places a bare file name in the exports directory. Paths with a
// directory component are resolved like Resolve.
func (p *Paths) ExportPath(name string) string {
	if filepath.Base(name) == name {
		return filepath.Join(p.ExportsDir, name)
	}
	return p.Resolve(name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
