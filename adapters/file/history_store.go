package file

import (
	"context"
	"fmt"
	"os"

	"judgefit/domain/calibration"
	"judgefit/domain/core"
)

// historyDocument is the on-disk envelope for the iteration log.
type historyDocument struct {
	LastUpdated core.Timestamp                 `json:"last_updated"`
	Iterations  []calibration.IterationMetrics `json:"iterations"`
}

// HistoryStore persists the append-only iteration metrics log.
type HistoryStore struct {
	path string
}

// NewHistoryStore creates a history store backed by path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load reads all recorded iterations. Missing file means an empty history;
// a malformed file is fatal.
func (s *HistoryStore) Load(ctx context.Context) ([]calibration.IterationMetrics, error) {
	var doc historyDocument
	if err := readJSON(s.path, &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.NewCorruptStoreError(s.path, err)
	}
	for i := 1; i < len(doc.Iterations); i++ {
		if doc.Iterations[i].Iteration <= doc.Iterations[i-1].Iteration {
			return nil, fmt.Errorf("%w: iteration log out of order at index %d", core.ErrCorruptStore, i)
		}
	}
	return doc.Iterations, nil
}

// Save atomically rewrites the full log.
func (s *HistoryStore) Save(ctx context.Context, iterations []calibration.IterationMetrics) error {
	doc := historyDocument{
		LastUpdated: core.Now(),
		Iterations:  iterations,
	}
	if err := writeJSONAtomic(s.path, doc); err != nil {
		return core.NewPersistError(s.path, err)
	}
	return nil
}
