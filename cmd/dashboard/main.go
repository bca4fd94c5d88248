// Command dashboard serves the HTML calibration dashboard.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"judgefit/adapters/file"
	"judgefit/app"
	"judgefit/internal"
	"judgefit/internal/config"
	"judgefit/ui"
)

func main() {
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

	server := ui.NewServer(cfg.Server, report, learner, monitor, logger)
	if err := server.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
