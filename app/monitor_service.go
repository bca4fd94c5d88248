package app

import (
	"context"
	"fmt"
	"math"

	montstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"judgefit/domain/calibration"
	"judgefit/domain/core"
	"judgefit/internal"
	"judgefit/internal/config"
	"judgefit/ports"
)

// Divergence diagnoses, checked in order.
const (
	diagOverPredicting  = "heuristic over-predicting"
	diagUnderPredicting = "heuristic under-predicting"
	diagPatternChurn    = "pattern churn instability"
	diagUnknown         = "unknown divergence cause"

	actionPruneFavorable = "prune permissive favorable patterns or add unfavorable ones"
	actionMineFeedback   = "mine expensive-mode feedback for missed favorable patterns"
	actionSlowProposals  = "raise validation thresholds or slow the proposal rate"
	actionInvestigate    = "investigate and consider reverting recent pattern changes"
)

// MonitorService answers two orthogonal questions every iteration: is the
// calibration diverging, and has it converged. It consumes only aggregate
// per-iteration metrics; the learner's internals are invisible to it.
//
// Not safe for concurrent use; same single-writer model as the learner.
type MonitorService struct {
	history ports.HistoryStorePort
	cfg     config.CalibrationConfig
	log     *internal.Logger

	metrics []calibration.IterationMetrics
	loaded  bool
}

// NewMonitorService creates a monitor over the given history store.
func NewMonitorService(history ports.HistoryStorePort, cfg config.CalibrationConfig, logger *internal.Logger) *MonitorService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MonitorService{history: history, cfg: cfg, log: logger}
}

// RecordIteration computes gap and gap delta, appends the row, and persists
// the full log.
func (m *MonitorService) RecordIteration(ctx context.Context, iteration int, expensiveAvg, cheapAvg float64, patternCount, provisionalCount, committedCount, rejectedCount int, storyIDs []core.StoryID) (calibration.IterationMetrics, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return calibration.IterationMetrics{}, err
	}

	gap := expensiveAvg - cheapAvg
	delta := 0.0
	if n := len(m.metrics); n > 0 {
		delta = gap - m.metrics[n-1].Gap
	}

	row := calibration.IterationMetrics{
		Iteration:        iteration,
		Timestamp:        core.Now(),
		ExpensiveAvg:     expensiveAvg,
		CheapAvg:         cheapAvg,
		Gap:              gap,
		GapDelta:         delta,
		PatternCount:     patternCount,
		ProvisionalCount: provisionalCount,
		CommittedCount:   committedCount,
		RejectedCount:    rejectedCount,
		StoryIDs:         storyIDs,
	}
	m.metrics = append(m.metrics, row)

	if err := m.history.Save(ctx, m.metrics); err != nil {
		return calibration.IterationMetrics{}, err
	}

	m.log.Info("iteration %d recorded: gap %.3f (delta %+.3f)", iteration, gap, delta)
	return row, nil
}

// CheckDivergence inspects the last 3 recorded iterations. Diverging when a
// run of strictly increasing gaps accumulates past the threshold, or when
// the single latest delta alone exceeds it.
func (m *MonitorService) CheckDivergence(ctx context.Context) (calibration.DivergenceCheck, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return calibration.DivergenceCheck{}, err
	}

	check := calibration.DivergenceCheck{}
	n := len(m.metrics)
	if n < 2 {
		return check, nil
	}

	recent := m.metrics
	if n > 3 {
		recent = m.metrics[n-3:]
	}

	increases := 0
	cumulative := 0.0
	for i := 1; i < len(recent); i++ {
		step := recent[i].Gap - recent[i-1].Gap
		if step > 0 {
			increases++
			cumulative += step
		} else {
			increases = 0
			cumulative = 0
		}
	}

	latest := m.metrics[n-1]
	check.ConsecutiveIncreases = increases
	check.CumulativeIncrease = cumulative
	check.LatestDelta = latest.GapDelta

	runaway := increases >= 2 && cumulative > m.cfg.DivergenceThreshold
	spike := latest.GapDelta > m.cfg.DivergenceThreshold
	if !runaway && !spike {
		return check, nil
	}

	check.Diverging = true
	check.Diagnosis, check.Action = m.diagnose(latest)
	m.log.Warn("divergence detected at iteration %d: %s", latest.Iteration, check.Diagnosis)
	return check, nil
}

// diagnose picks the first matching root cause for a divergence.
func (m *MonitorService) diagnose(latest calibration.IterationMetrics) (string, string) {
	switch {
	case latest.CheapAvg > latest.ExpensiveAvg:
		return diagOverPredicting, actionPruneFavorable
	case latest.ExpensiveAvg-latest.CheapAvg > 1.0:
		return diagUnderPredicting, actionMineFeedback
	case latest.CommittedCount > 5 && latest.RejectedCount > 5:
		return diagPatternChurn, actionSlowProposals
	default:
		return diagUnknown, actionInvestigate
	}
}

// CheckConvergence requires the configured minimum iteration count, every
// gap in the most recent window within the target, and a stable (low
// standard deviation) window. The measured window statistics are returned as
// audit evidence either way.
func (m *MonitorService) CheckConvergence(ctx context.Context) (calibration.ConvergenceCheck, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return calibration.ConvergenceCheck{}, err
	}

	n := len(m.metrics)
	check := calibration.ConvergenceCheck{
		IterationsRecorded: n,
		WindowSize:         m.cfg.ConvergenceWindow,
	}
	if n < m.cfg.MinIterations {
		check.Reason = fmt.Sprintf("only %d of %d minimum iterations recorded", n, m.cfg.MinIterations)
		return check, nil
	}

	window := m.metrics
	if n > m.cfg.ConvergenceWindow {
		window = m.metrics[n-m.cfg.ConvergenceWindow:]
	}
	gaps := make([]float64, len(window))
	for i, row := range window {
		gaps[i] = row.Gap
	}

	mean, err := montstats.Mean(gaps)
	if err != nil {
		return check, fmt.Errorf("window mean: %w", err)
	}
	stddev, err := montstats.StandardDeviation(gaps)
	if err != nil {
		return check, fmt.Errorf("window stddev: %w", err)
	}
	check.WindowMean = mean
	check.WindowStdDev = stddev

	for _, g := range gaps {
		if math.Abs(g) > m.cfg.ConvergenceTarget {
			check.Reason = fmt.Sprintf("gap %.3f in window exceeds target %.3f", g, m.cfg.ConvergenceTarget)
			return check, nil
		}
	}
	if stddev >= m.cfg.StabilityStdDev {
		check.Reason = fmt.Sprintf("window stddev %.3f not below stability threshold %.3f", stddev, m.cfg.StabilityStdDev)
		return check, nil
	}

	check.Converged = true
	check.Reason = fmt.Sprintf("all %d window gaps within %.3f and stddev %.3f below %.3f",
		len(gaps), m.cfg.ConvergenceTarget, stddev, m.cfg.StabilityStdDev)
	return check, nil
}

// Trend classifies the mean of the last 3 gap deltas and, as supporting
// evidence, fits a least-squares slope of gap over iteration number across
// the whole history.
func (m *MonitorService) Trend(ctx context.Context) (calibration.TrendReport, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return calibration.TrendReport{}, err
	}

	n := len(m.metrics)
	if n < 3 {
		return calibration.TrendReport{Trend: calibration.TrendInsufficientData}, nil
	}

	recent := m.metrics[n-3:]
	deltas := make([]float64, len(recent))
	for i, row := range recent {
		deltas[i] = row.GapDelta
	}
	meanDelta, err := montstats.Mean(deltas)
	if err != nil {
		return calibration.TrendReport{}, fmt.Errorf("trend mean: %w", err)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, row := range m.metrics {
		xs[i] = float64(row.Iteration)
		ys[i] = row.Gap
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)

	report := calibration.TrendReport{MeanDelta: meanDelta, Slope: slope}
	switch {
	case meanDelta < -0.1:
		report.Trend = calibration.TrendImproving
	case meanDelta > 0.1:
		report.Trend = calibration.TrendDiverging
	default:
		report.Trend = calibration.TrendStable
	}
	return report, nil
}

// SuggestAction combines the three checks into a single recommendation.
// Divergence wins, then convergence, then a stuck-but-stable gap. ok is
// false when the right move is simply to keep iterating.
func (m *MonitorService) SuggestAction(ctx context.Context) (string, bool, error) {
	div, err := m.CheckDivergence(ctx)
	if err != nil {
		return "", false, err
	}
	if div.Diverging {
		return fmt.Sprintf("%s: %s", div.Diagnosis, div.Action), true, nil
	}

	conv, err := m.CheckConvergence(ctx)
	if err != nil {
		return "", false, err
	}
	if conv.Converged {
		return "converged, stop calibration", true, nil
	}

	trend, err := m.Trend(ctx)
	if err != nil {
		return "", false, err
	}
	n := len(m.metrics)
	if trend.Trend == calibration.TrendStable && n >= m.cfg.MinIterations {
		latest := m.metrics[n-1]
		if math.Abs(latest.Gap) > m.cfg.ConvergenceTarget {
			return fmt.Sprintf("gap stuck at %.3f: adjust pattern weights", latest.Gap), true, nil
		}
	}
	return "", false, nil
}

// Metrics exposes the recorded history for read-only surfaces.
func (m *MonitorService) Metrics(ctx context.Context) ([]calibration.IterationMetrics, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m.metrics, nil
}

func (m *MonitorService) ensureLoaded(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	metrics, err := m.history.Load(ctx)
	if err != nil {
		return err
	}
	m.metrics = metrics
	m.loaded = true
	return nil
}
