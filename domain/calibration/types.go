// Package calibration holds the per-iteration metrics the convergence
// monitor records and the verdict types it produces.
package calibration

import (
	"fmt"

	"judgefit/domain/core"
)

// IterationMetrics is one row of the append-only iteration history. Never
// mutated after append.
type IterationMetrics struct {
	Iteration        int            `json:"iteration"`
	Timestamp        core.Timestamp `json:"timestamp"`
	ExpensiveAvg     float64        `json:"expensive_avg"`
	CheapAvg         float64        `json:"cheap_avg"`
	Gap              float64        `json:"gap"`
	GapDelta         float64        `json:"gap_delta"`
	PatternCount     int            `json:"pattern_count"`
	ProvisionalCount int            `json:"provisional_count"`
	CommittedCount   int            `json:"committed_count"`
	RejectedCount    int            `json:"rejected_count"`
	StoryIDs         []core.StoryID `json:"story_ids"`
}

// Trend classifies the recent direction of the gap.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDiverging        Trend = "diverging"
	TrendInsufficientData Trend = "insufficient_data"
)

// TrendReport carries the trend classification with its evidence.
type TrendReport struct {
	Trend     Trend   `json:"trend"`
	MeanDelta float64 `json:"mean_delta"`
	// Slope is the least-squares slope of gap over iteration number across
	// the full recorded history, for the dashboard.
	Slope float64 `json:"slope"`
}

// DivergenceCheck is the answer to "is this diverging?" with its diagnosis.
type DivergenceCheck struct {
	Diverging            bool    `json:"diverging"`
	ConsecutiveIncreases int     `json:"consecutive_increases"`
	CumulativeIncrease   float64 `json:"cumulative_increase"`
	LatestDelta          float64 `json:"latest_delta"`
	Diagnosis            string  `json:"diagnosis,omitempty"`
	Action               string  `json:"action,omitempty"`
}

// ConvergenceCheck is the answer to "has this converged?" with the measured
// window statistics as audit evidence.
type ConvergenceCheck struct {
	Converged          bool    `json:"converged"`
	IterationsRecorded int     `json:"iterations_recorded"`
	WindowSize         int     `json:"window_size"`
	WindowMean         float64 `json:"window_mean"`
	WindowStdDev       float64 `json:"window_std_dev"`
	Reason             string  `json:"reason"`
}

// Summary renders a one-line audit string for logs and reports.
func (c ConvergenceCheck) Summary() string {
	state := "not converged"
	if c.Converged {
		state = "converged"
	}
	return fmt.Sprintf("%s after %d iterations (window mean %.3f, stddev %.3f): %s",
		state, c.IterationsRecorded, c.WindowMean, c.WindowStdDev, c.Reason)
}
