// Package storage provides file-based JSON persistence.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/interfaces"
	"github.com/bobmcallan/fundwatch/internal/models"
)

const positionsKey = "positions"

// subdirectories defines the directory layout under basePath.
var subdirectories = []string{"positions", "kv"}

// FileStore provides file-based JSON storage for positions and system
// key-value pairs.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// kvRecord is the stored shape of one system key-value pair.
type kvRecord struct {
	Value string `json:"value"`
}

// NewFileStore creates a new FileStore and ensures all subdirectories exist.
func NewFileStore(logger *common.Logger, config *common.StorageConfig) (*FileStore, error) {
	fs := &FileStore{
		basePath: config.Path,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(fs.basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", config.Path).Msg("FileStore opened")
	return fs, nil
}

// GetPositions returns the stored positions, or an empty slice when none
// have been saved yet.
func (fs *FileStore) GetPositions(ctx context.Context) ([]models.FundPosition, error) {
	var positions []models.FundPosition
	err := fs.readJSON(fs.dir("positions"), positionsKey, &positions)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.FundPosition{}, nil
		}
		return nil, err
	}
	if positions == nil {
		positions = []models.FundPosition{}
	}
	return positions, nil
}

// SavePositions replaces the stored position list.
func (fs *FileStore) SavePositions(ctx context.Context, positions []models.FundPosition) error {
	return fs.writeJSON(fs.dir("positions"), positionsKey, positions)
}

// DeletePositions removes the stored position list.
func (fs *FileStore) DeletePositions(ctx context.Context) error {
	err := os.Remove(fs.filePath(fs.dir("positions"), positionsKey))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete positions: %w", err)
	}
	return nil
}

// GetSystemKV returns the stored value for a key, or an empty string when
// the key has never been set.
func (fs *FileStore) GetSystemKV(ctx context.Context, key string) (string, error) {
	var record kvRecord
	err := fs.readJSON(fs.dir("kv"), key, &record)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return record.Value, nil
}

// SetSystemKV stores a system key-value pair.
func (fs *FileStore) SetSystemKV(ctx context.Context, key, value string) error {
	return fs.writeJSON(fs.dir("kv"), key, kvRecord{Value: value})
}

func (fs *FileStore) dir(sub string) string {
	return filepath.Join(fs.basePath, sub)
}

// sanitizeKey makes a key safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path traversal.
func (fs *FileStore) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// filePath returns the full path for a key in a directory.
func (fs *FileStore) filePath(dir, key string) string {
	return filepath.Join(dir, fs.sanitizeKey(key)+".json")
}

// readJSON reads and unmarshals a JSON file. A missing file is reported
// via os.IsNotExist so callers can map it to their own zero value.
func (fs *FileStore) readJSON(dir, key string, dest interface{}) error {
	path := fs.filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically:
// temp file in the same directory, then rename.
func (fs *FileStore) writeJSON(dir, key string, data interface{}) error {
	target := fs.filePath(dir, key)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Ensure FileStore implements the aggregate Storage interface
var _ interfaces.Storage = (*FileStore)(nil)
