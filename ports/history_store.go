package ports

import (
	"context"

	"judgefit/domain/calibration"
)

// HistoryStorePort persists the append-only iteration metrics log consumed
// by the convergence monitor.
type HistoryStorePort interface {
	// Load returns all recorded iterations in append order, or an empty
	// slice when no history exists yet. A corrupt file is fatal.
	Load(ctx context.Context) ([]calibration.IterationMetrics, error)

	// Save atomically replaces the full log.
	Save(ctx context.Context, iterations []calibration.IterationMetrics) error
}
