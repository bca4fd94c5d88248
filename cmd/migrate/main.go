// Command migrate converts the legacy free-text pattern file into the
// structured keyword store and prints the validation report.
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
	"judgefit/internal"
	"judgefit/internal/config"
)

func main() {
	legacyPath := flag.String("legacy", "", "path to the legacy pattern file (required)")
	noBackup := flag.Bool("no-backup", false, "skip the backup copy of the legacy file")
	flag.Parse()

	if *legacyPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()
	svc := app.NewMigrationService(
		file.NewLegacyStore(*legacyPath),
		file.NewPatternStore(cfg.Paths.PatternFile),
		logger,
	)

	result, err := svc.Run(context.Background(), !*noBackup)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	fmt.Printf("migrated %d patterns to %s\n", len(result.Migrated), cfg.Paths.PatternFile)
	if result.BackupPath != "" {
		fmt.Printf("legacy file backed up to %s\n", result.BackupPath)
	}
	if len(result.Issues) == 0 {
		fmt.Println("validation: no issues")
		return
	}
	fmt.Printf("validation found %d issues:\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	os.Exit(1)
}
