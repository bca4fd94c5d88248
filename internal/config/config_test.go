package config

import (
	"errors"
	"testing"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

func validCalibration() CalibrationConfig {
	return CalibrationConfig{
		GoodScoreThreshold: 4.0,
		BadScoreThreshold:  2.0,
		MinGapToMine:       0.5,
		OverlapThreshold:   0.5,
		Gates:              pattern.DefaultGates(),
		ConvergenceWindow:  5,
		MinIterations:      5,
	}
}

func TestCalibrationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CalibrationConfig)
		wantErr bool
	}{
		{"defaults are valid", func(c *CalibrationConfig) {}, false},
		{"good below bad", func(c *CalibrationConfig) { c.GoodScoreThreshold = 1.5 }, true},
		{"good equals bad", func(c *CalibrationConfig) { c.GoodScoreThreshold = c.BadScoreThreshold }, true},
		{"overlap zero", func(c *CalibrationConfig) { c.OverlapThreshold = 0 }, true},
		{"overlap above one", func(c *CalibrationConfig) { c.OverlapThreshold = 1.5 }, true},
		{"overlap of exactly one", func(c *CalibrationConfig) { c.OverlapThreshold = 1.0 }, false},
		{"commit gate below reject gate", func(c *CalibrationConfig) {
			c.Gates.CommitMinAccuracy = 0.2
		}, true},
		{"zero window", func(c *CalibrationConfig) { c.ConvergenceWindow = 0 }, true},
		{"zero min iterations", func(c *CalibrationConfig) { c.MinIterations = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCalibration()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !errors.Is(err, core.ErrInvalidThreshold) {
					t.Errorf("error = %v, want ErrInvalidThreshold", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Calibration.GoodScoreThreshold != 4.0 {
		t.Errorf("GoodScoreThreshold = %v, want 4.0", cfg.Calibration.GoodScoreThreshold)
	}
	if cfg.Paths.PatternFile != "data/patterns.json" {
		t.Errorf("PatternFile = %q", cfg.Paths.PatternFile)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOD_SCORE_THRESHOLD", "4.5")
	t.Setenv("COMMIT_MIN_TESTED", "20")
	t.Setenv("PATTERN_FILE", "/tmp/p.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Calibration.GoodScoreThreshold != 4.5 {
		t.Errorf("GoodScoreThreshold = %v, want 4.5", cfg.Calibration.GoodScoreThreshold)
	}
	if cfg.Calibration.Gates.CommitMinTested != 20 {
		t.Errorf("CommitMinTested = %d, want 20", cfg.Calibration.Gates.CommitMinTested)
	}
	if cfg.Paths.PatternFile != "/tmp/p.json" {
		t.Errorf("PatternFile = %q", cfg.Paths.PatternFile)
	}
}

func TestEnvBadValueFallsBack(t *testing.T) {
	t.Setenv("MIN_ITERATIONS", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Calibration.MinIterations != 5 {
		t.Errorf("MinIterations = %d, want default 5", cfg.Calibration.MinIterations)
	}
}
