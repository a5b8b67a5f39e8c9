package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem handles reading and writing rendered chart images on disk.
// Charts are stored at: {baseDir}/{SYMBOL}_plot.png
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a new FileSystem storage, ensuring the base directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// ChartName returns the file name used for a symbol's chart.
func ChartName(symbol string) string {
	return strings.ToUpper(symbol) + "_plot.png"
}

// ChartPath returns the filesystem path for a symbol's chart.
func (fs *FileSystem) ChartPath(symbol string) string {
	return filepath.Join(fs.baseDir, ChartName(symbol))
}

// Write saves a chart PNG to disk and returns its path.
func (fs *FileSystem) Write(symbol string, data []byte) (string, error) {
	path := fs.ChartPath(symbol)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing chart file: %w", err)
	}
	return path, nil
}

// ReadFile reads a chart by file name (as exposed over HTTP).
// Only bare "*_plot.png" names are accepted, so callers cannot escape baseDir.
func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, "_plot.png") {
		return nil, fmt.Errorf("invalid chart name: %q", name)
	}
	data, err := os.ReadFile(filepath.Join(fs.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chart file not found: %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("reading chart file: %w", err)
	}
	return data, nil
}

// Exists checks if a symbol's chart exists on disk.
func (fs *FileSystem) Exists(symbol string) bool {
	_, err := os.Stat(fs.ChartPath(symbol))
	return err == nil
}

// Delete removes a symbol's chart.
func (fs *FileSystem) Delete(symbol string) error {
	err := os.Remove(fs.ChartPath(symbol))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
