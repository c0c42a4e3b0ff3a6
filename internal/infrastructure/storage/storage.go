package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hmicodes/catalog/internal/infrastructure/config"
)

// DataFile describes the catalog's backing file on disk
type DataFile struct {
	path   string
	config config.StoreConfig
}

// New prepares the directory holding the data file. The file itself is not
// created; a missing file reads as an empty catalog.
func New(cfg config.StoreConfig) (*DataFile, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &DataFile{
		path:   cfg.Path,
		config: cfg,
	}, nil
}

// Path returns the data file location
func (d *DataFile) Path() string {
	return d.path
}

// Ping checks that the data directory is reachable
func (d *DataFile) Ping() error {
	info, err := os.Stat(filepath.Dir(d.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(d.path))
	}
	return nil
}

// HealthCheck verifies the data file can be read and written
func (d *DataFile) HealthCheck() error {
	if err := d.Ping(); err != nil {
		return fmt.Errorf("data directory health check failed: %w", err)
	}

	f, err := os.OpenFile(d.path, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrNotExist) {
		// Writable directory is enough until the first record is added.
		tmp, err := os.CreateTemp(filepath.Dir(d.path), ".healthcheck-*")
		if err != nil {
			return fmt.Errorf("data directory not writable: %w", err)
		}
		name := tmp.Name()
		if err := tmp.Close(); err != nil {
			os.Remove(name)
			return fmt.Errorf("data directory write check failed: %w", err)
		}
		return os.Remove(name)
	}
	if err != nil {
		return fmt.Errorf("data file health check failed: %w", err)
	}
	return f.Close()
}

// GetFileInfo returns data file statistics
func (d *DataFile) GetFileInfo() map[string]interface{} {
	info, err := os.Stat(d.path)
	if err != nil {
		return map[string]interface{}{
			"path":   d.path,
			"exists": false,
		}
	}

	return map[string]interface{}{
		"path":        d.path,
		"exists":      true,
		"size_bytes":  info.Size(),
		"modified_at": info.ModTime().UTC(),
		"delimiter":   d.config.Delimiter,
	}
}
