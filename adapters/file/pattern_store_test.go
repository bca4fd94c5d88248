package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

func newPattern(t *testing.T, id core.PatternID, polarity pattern.Polarity) pattern.Pattern {
	t.Helper()
	p, err := pattern.New(id, polarity, "clear acceptance criteria", []string{"acceptance", "criteria"}, "test")
	if err != nil {
		t.Fatalf("pattern.New: %v", err)
	}
	return p
}

func TestPatternStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	store := NewPatternStore(path)
	ctx := context.Background()

	in := pattern.NewStore()
	in.Patterns = []pattern.Pattern{
		newPattern(t, "p1", pattern.PolarityFavorable),
		newPattern(t, "p2", pattern.PolarityUnfavorable),
	}
	in.AppendHistory(pattern.HistoryEntry{Iteration: 1, Timestamp: core.Now()}, 10)

	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Version != pattern.StoreVersion {
		t.Errorf("version = %q, want %q", out.Version, pattern.StoreVersion)
	}
	if len(out.Patterns) != 2 {
		t.Fatalf("loaded %d patterns, want 2", len(out.Patterns))
	}
	if out.Patterns[0].ID != "p1" || out.Patterns[1].Polarity != pattern.PolarityUnfavorable {
		t.Errorf("patterns did not survive the round trip: %+v", out.Patterns)
	}
	if len(out.CalibrationHistory) != 1 {
		t.Errorf("history entries = %d, want 1", len(out.CalibrationHistory))
	}
}

func TestPatternStoreMissingFileIsFreshStart(t *testing.T) {
	store := NewPatternStore(filepath.Join(t.TempDir(), "never-written.json"))
	out, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load of missing file must not fail: %v", err)
	}
	if len(out.Patterns) != 0 || len(out.CalibrationHistory) != 0 {
		t.Errorf("fresh store must be empty, got %+v", out)
	}
	if out.Version != pattern.StoreVersion {
		t.Errorf("fresh store version = %q, want %q", out.Version, pattern.StoreVersion)
	}
}

func TestPatternStoreCorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewPatternStore(path).Load(context.Background())
	if !errors.Is(err, core.ErrCorruptStore) {
		t.Errorf("error = %v, want ErrCorruptStore", err)
	}
}

func TestPatternStoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	doc := `{"version": "1.0", "patterns": [], "calibration_history": []}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewPatternStore(path).Load(context.Background())
	if !errors.Is(err, core.ErrStoreVersion) {
		t.Errorf("error = %v, want ErrStoreVersion", err)
	}
}

func TestPatternStoreRejectsInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	doc := `{
		"version": "2.0",
		"patterns": [
			{"id": "p1", "polarity": "favorable", "description": "d", "keywords": [], "weight": 1, "status": "active"}
		],
		"calibration_history": []
	}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPatternStore(path).Load(context.Background()); err == nil {
		t.Error("a pattern without keywords must fail validation on load")
	}
}

func TestPatternStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewPatternStore(filepath.Join(dir, "patterns.json"))
	if err := store.Save(context.Background(), pattern.NewStore()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestPatternStoreSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "patterns.json")
	if err := NewPatternStore(path).Save(context.Background(), pattern.NewStore()); err != nil {
		t.Fatalf("Save into missing directory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file missing after save: %v", err)
	}
}
