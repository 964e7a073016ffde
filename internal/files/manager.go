package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// OutputManager writes analyzer artifacts under a single output directory.
type OutputManager struct {
	baseDir string
	logger  *slog.Logger
}

// NewOutputManager creates a manager rooted at baseDir.
func NewOutputManager(baseDir string, logger *slog.Logger) *OutputManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputManager{baseDir: baseDir, logger: logger}
}

// BaseDir returns the output root.
func (m *OutputManager) BaseDir() string {
	return m.baseDir
}

// Resolve returns the absolute path for a name relative to the output root.
func (m *OutputManager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(m.baseDir, name)
}

// FileExists reports whether a file exists under the output root.
func (m *OutputManager) FileExists(name string) bool {
	_, err := os.Stat(m.Resolve(name))
	return err == nil
}

// EnsureDir creates the directory for name, including parents.
func (m *OutputManager) EnsureDir(name string) error {
	fullPath := m.Resolve(name)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0o755)
	}
	return nil
}

// WriteFile writes data to name, creating parent directories as needed.
func (m *OutputManager) WriteFile(name string, data []byte) error {
	fullPath := m.Resolve(name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	m.logger.Debug("writing output file",
		slog.String("path", fullPath),
		slog.Int("size_bytes", len(data)))

	return os.WriteFile(fullPath, data, 0o644)
}

// CreateFile opens name for writing, creating parent directories as needed.
// The caller owns the returned file.
func (m *OutputManager) CreateFile(name string) (*os.File, error) {
	fullPath := m.Resolve(name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return os.Create(fullPath)
}

// RemoveFile deletes a file under the output root.
func (m *OutputManager) RemoveFile(name string) error {
	fullPath := m.Resolve(name)

	m.logger.Debug("removing output file", slog.String("path", fullPath))

	return os.Remove(fullPath)
}
