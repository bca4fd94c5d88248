package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"judgefit/domain/calibration"
	"judgefit/domain/core"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewHistoryStore(path)
	ctx := context.Background()

	in := []calibration.IterationMetrics{
		{Iteration: 1, Timestamp: core.Now(), ExpensiveAvg: 4.0, CheapAvg: 3.0, Gap: 1.0},
		{Iteration: 2, Timestamp: core.Now(), ExpensiveAvg: 4.0, CheapAvg: 3.4, Gap: 0.6, GapDelta: -0.4},
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d iterations, want 2", len(out))
	}
	if out[1].GapDelta != -0.4 {
		t.Errorf("GapDelta = %v, want -0.4", out[1].GapDelta)
	}
}

func TestHistoryStoreMissingFileIsEmpty(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "none.json"))
	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("missing file must yield empty history, got %d entries", len(out))
	}
}

func TestHistoryStoreRejectsOutOfOrderIterations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	doc := `{"iterations": [{"iteration": 2}, {"iteration": 1}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewHistoryStore(path).Load(context.Background())
	if !errors.Is(err, core.ErrCorruptStore) {
		t.Errorf("error = %v, want ErrCorruptStore", err)
	}
}

func TestHistoryStoreCorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("[not an object]"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewHistoryStore(path).Load(context.Background())
	if !errors.Is(err, core.ErrCorruptStore) {
		t.Errorf("error = %v, want ErrCorruptStore", err)
	}
}
