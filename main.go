// Command judgefit runs a synthetic calibration loop end to end: generated
// dual-mode results feed the learner, the monitor tracks the gap, and the
// run stops when the monitor says to. Useful for exercising the full stack
// without a judge attached; point the dashboard at the same data directory
// afterwards to inspect the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"judgefit/adapters/file"
	"judgefit/app"
	"judgefit/domain/core"
	"judgefit/domain/judge"
	"judgefit/internal"
	"judgefit/internal/config"
	"judgefit/internal/testkit"
)

func main() {
	iterations := flag.Int("iterations", 20, "maximum iterations to simulate")
	stories := flag.Int("stories", 12, "stories per iteration")
	seed := flag.Int64("seed", 42, "generator seed")
	bias := flag.Float64("bias", 0.8, "initial cheap-score bias (positive = heuristic under-rates)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()
	learner := app.NewLearnerService(
		file.NewPatternStore(cfg.Paths.PatternFile),
		file.NewProposalStore(cfg.Paths.ProposalFile),
		cfg.Calibration,
		logger,
	)
	monitor := app.NewMonitorService(
		file.NewHistoryStore(cfg.Paths.HistoryFile),
		cfg.Calibration,
		logger,
	)
	report := app.NewReportService(learner, monitor, logger)

	if err := run(context.Background(), learner, monitor, report, *iterations, *stories, *seed, *bias); err != nil {
		log.Fatalf("calibration run failed: %v", err)
	}
}

func run(ctx context.Context, learner *app.LearnerService, monitor *app.MonitorService, report *app.ReportService, iterations, stories int, seed int64, bias float64) error {
	gen := testkit.NewGenerator(seed)

	for i := 1; i <= iterations; i++ {
		results := gen.Iteration(i, stories, bias)
		outcome, err := learner.ProcessIteration(ctx, results, i)
		if err != nil {
			return err
		}
		// Shrink the bias each pass, mimicking a heuristic that learns
		// from its committed patterns.
		bias *= 0.85

		expensiveAvg, cheapAvg, storyIDs := summarize(results)
		if _, err := monitor.RecordIteration(ctx, i, expensiveAvg, cheapAvg,
			outcome.Snapshot.ActivePatterns, outcome.StillProvisional,
			len(outcome.Committed), len(outcome.Rejected), storyIDs); err != nil {
			return err
		}

		action, ok, err := monitor.SuggestAction(ctx)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(os.Stdout, "iteration %d: %s\n", i, action)

		conv, err := monitor.CheckConvergence(ctx)
		if err != nil {
			return err
		}
		if conv.Converged {
			break
		}
	}

	summary, err := report.MarkdownSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, summary)
	return nil
}

func summarize(results []judge.DualModeResult) (expensiveAvg, cheapAvg float64, storyIDs []core.StoryID) {
	if len(results) == 0 {
		return 0, 0, nil
	}
	for _, r := range results {
		expensiveAvg += r.Expensive.Score
		cheapAvg += r.Cheap.Score
		storyIDs = append(storyIDs, r.Story)
	}
	n := float64(len(results))
	return expensiveAvg / n, cheapAvg / n, storyIDs
}
