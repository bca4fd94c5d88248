package app

import (
	"path/filepath"
	"testing"

	"judgefit/adapters/file"
	"judgefit/domain/pattern"
	"judgefit/internal"
	"judgefit/internal/config"
)

func testCalibrationConfig() config.CalibrationConfig {
	return config.CalibrationConfig{
		GoodScoreThreshold: 4.0,
		BadScoreThreshold:  2.0,
		MinGapToMine:       0.5,
		OverlapThreshold:   0.5,
		Gates: pattern.Gates{
			CommitMinTested:   10,
			CommitMinAccuracy: 0.70,
			RejectMinTested:   5,
			RejectMaxAccuracy: 0.30,
		},
		DivergenceThreshold: 0.5,
		ConvergenceTarget:   0.5,
		StabilityStdDev:     0.3,
		ConvergenceWindow:   5,
		MinIterations:       5,
		HistoryRetention:    1000,
	}
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func newTestLearner(t *testing.T) (*LearnerService, string) {
	t.Helper()
	dir := t.TempDir()
	learner := NewLearnerService(
		file.NewPatternStore(filepath.Join(dir, "patterns.json")),
		file.NewProposalStore(filepath.Join(dir, "proposals.json")),
		testCalibrationConfig(),
		quietLogger(),
	)
	return learner, dir
}

func newHistoryStoreAt(t *testing.T, dir string) *file.HistoryStore {
	t.Helper()
	return file.NewHistoryStore(filepath.Join(dir, "history.json"))
}

func newTestMonitor(t *testing.T) *MonitorService {
	t.Helper()
	dir := t.TempDir()
	return NewMonitorService(
		file.NewHistoryStore(filepath.Join(dir, "history.json")),
		testCalibrationConfig(),
		quietLogger(),
	)
}
