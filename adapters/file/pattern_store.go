package file

import (
	"context"
	"os"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

// PatternStore persists the pattern set as a single JSON document.
type PatternStore struct {
	path string
}

// NewPatternStore creates a pattern store backed by path.
func NewPatternStore(path string) *PatternStore {
	return &PatternStore{path: path}
}

// Path returns the backing file path.
func (s *PatternStore) Path() string {
	return s.path
}

// Load reads and validates the persisted store. A missing file yields a
// fresh empty store; a malformed or invalid file is a fatal configuration
// error, never an empty default.
func (s *PatternStore) Load(ctx context.Context) (*pattern.Store, error) {
	var store pattern.Store
	if err := readJSON(s.path, &store); err != nil {
		if os.IsNotExist(err) {
			return pattern.NewStore(), nil
		}
		return nil, core.NewCorruptStoreError(s.path, err)
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return &store, nil
}

// Save atomically rewrites the full store.
func (s *PatternStore) Save(ctx context.Context, store *pattern.Store) error {
	store.Version = pattern.StoreVersion
	store.LastUpdated = core.Now()
	if err := writeJSONAtomic(s.path, store); err != nil {
		return core.NewPersistError(s.path, err)
	}
	return nil
}
