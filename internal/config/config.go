package config

import (
	"fmt"
	"os"
	"strconv"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

// Config represents the complete application configuration
type Config struct {
	Calibration CalibrationConfig
	Paths       PathConfig
	Server      ServerConfig
}

// CalibrationConfig holds every tuned constant of the learning loop and the
// convergence monitor. The numeric defaults are domain-tuned, not derivable
// from first principles, so all of them can be overridden from the
// environment.
type CalibrationConfig struct {
	// Correctness cutoffs on the 1-5 expensive-judge scale.
	GoodScoreThreshold float64
	BadScoreThreshold  float64

	// Minimum |gap| before a result is mined for new candidates.
	MinGapToMine float64

	// Duplicate suppression: intersection size over candidate keyword count.
	OverlapThreshold float64

	// Promotion and rejection gates for proposals.
	Gates pattern.Gates

	// Convergence monitor tuning.
	DivergenceThreshold float64
	ConvergenceTarget   float64
	StabilityStdDev     float64
	ConvergenceWindow   int
	MinIterations       int

	// Calibration history retention cap (0 = unlimited). Audit-only.
	HistoryRetention int
}

// PathConfig holds the persisted file locations
type PathConfig struct {
	PatternFile  string
	ProposalFile string
	HistoryFile  string
}

// ServerConfig holds dashboard/API server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Calibration: loadCalibrationConfig(),
		Paths:       loadPathConfig(),
		Server:      loadServerConfig(),
	}

	if err := config.Calibration.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadCalibrationConfig() CalibrationConfig {
	return CalibrationConfig{
		GoodScoreThreshold: getEnvFloatOrDefault("GOOD_SCORE_THRESHOLD", 4.0),
		BadScoreThreshold:  getEnvFloatOrDefault("BAD_SCORE_THRESHOLD", 2.0),
		MinGapToMine:       getEnvFloatOrDefault("MIN_GAP_TO_MINE", 0.5),
		OverlapThreshold:   getEnvFloatOrDefault("OVERLAP_THRESHOLD", 0.5),
		Gates: pattern.Gates{
			CommitMinTested:   getEnvIntOrDefault("COMMIT_MIN_TESTED", 10),
			CommitMinAccuracy: getEnvFloatOrDefault("COMMIT_MIN_ACCURACY", 0.70),
			RejectMinTested:   getEnvIntOrDefault("REJECT_MIN_TESTED", 5),
			RejectMaxAccuracy: getEnvFloatOrDefault("REJECT_MAX_ACCURACY", 0.30),
		},
		DivergenceThreshold: getEnvFloatOrDefault("DIVERGENCE_THRESHOLD", 0.5),
		ConvergenceTarget:   getEnvFloatOrDefault("CONVERGENCE_TARGET", 0.5),
		StabilityStdDev:     getEnvFloatOrDefault("STABILITY_STDDEV", 0.3),
		ConvergenceWindow:   getEnvIntOrDefault("CONVERGENCE_WINDOW", 5),
		MinIterations:       getEnvIntOrDefault("MIN_ITERATIONS", 5),
		HistoryRetention:    getEnvIntOrDefault("HISTORY_RETENTION", 1000),
	}
}

func loadPathConfig() PathConfig {
	return PathConfig{
		PatternFile:  getEnvOrDefault("PATTERN_FILE", "data/patterns.json"),
		ProposalFile: getEnvOrDefault("PROPOSAL_FILE", "data/proposals.json"),
		HistoryFile:  getEnvOrDefault("HISTORY_FILE", "data/iteration_history.json"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

// Validate rejects threshold combinations the algorithm cannot run with.
func (c CalibrationConfig) Validate() error {
	if c.GoodScoreThreshold <= c.BadScoreThreshold {
		return fmt.Errorf("%w: good threshold %.2f must exceed bad threshold %.2f",
			core.ErrInvalidThreshold, c.GoodScoreThreshold, c.BadScoreThreshold)
	}
	if c.OverlapThreshold <= 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("%w: overlap threshold %.2f outside (0,1]", core.ErrInvalidThreshold, c.OverlapThreshold)
	}
	if c.Gates.CommitMinAccuracy <= c.Gates.RejectMaxAccuracy {
		return fmt.Errorf("%w: commit accuracy %.2f must exceed reject accuracy %.2f",
			core.ErrInvalidThreshold, c.Gates.CommitMinAccuracy, c.Gates.RejectMaxAccuracy)
	}
	if c.ConvergenceWindow <= 0 || c.MinIterations <= 0 {
		return fmt.Errorf("%w: window and minimum iterations must be positive", core.ErrInvalidThreshold)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
