package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

// legacyDocument is the old free-text pattern file shape.
type legacyDocument struct {
	Patterns []pattern.LegacyPattern `json:"patterns"`
}

// LegacyStore reads the pre-migration pattern file.
type LegacyStore struct {
	path string
}

// NewLegacyStore creates a legacy store backed by path.
func NewLegacyStore(path string) *LegacyStore {
	return &LegacyStore{path: path}
}

// Load reads all legacy entries. The file must exist - migration without an
// input is a configuration error.
func (s *LegacyStore) Load(ctx context.Context) ([]pattern.LegacyPattern, error) {
	var doc legacyDocument
	if err := readJSON(s.path, &doc); err != nil {
		return nil, core.NewCorruptStoreError(s.path, err)
	}
	return doc.Patterns, nil
}

// Backup copies the legacy file to a timestamped sibling before it is
// overwritten.
func (s *LegacyStore) Backup(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for backup: %w", s.path, err)
	}
	backupPath := fmt.Sprintf("%s.bak-%s", s.path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}
