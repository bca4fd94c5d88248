package app

import (
	"context"
	"fmt"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
	"judgefit/internal"
	"judgefit/ports"
)

// MigrationService converts the legacy free-text pattern store into the
// structured keyword form the learner requires. One-shot; depends on nothing
// but the two stores.
type MigrationService struct {
	legacy   ports.LegacyStorePort
	patterns ports.PatternStorePort
	log      *internal.Logger
}

// MigrationResult reports what a migration run produced.
type MigrationResult struct {
	Migrated   []pattern.Pattern `json:"migrated"`
	BackupPath string            `json:"backup_path,omitempty"`
	Issues     []string          `json:"issues,omitempty"`
}

// NewMigrationService creates a migrator over the given stores.
func NewMigrationService(legacy ports.LegacyStorePort, patterns ports.PatternStorePort, logger *internal.Logger) *MigrationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MigrationService{legacy: legacy, patterns: patterns, log: logger}
}

// Migrate converts legacy entries 1:1 into active structured patterns. The
// output count always equals the input count - no silent drops - and every
// output pattern has at least one keyword thanks to the extraction fallback.
func Migrate(entries []pattern.LegacyPattern) ([]pattern.Pattern, error) {
	migrated := make([]pattern.Pattern, 0, len(entries))
	for i, entry := range entries {
		polarity, err := pattern.MapLegacyPolarity(entry.Polarity)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		keywords := pattern.ExtractKeywordsWithFallback(entry.Description + " " + entry.Example)

		p, err := pattern.New(
			core.NewMigratedPatternID(i+1),
			polarity,
			entry.Description,
			keywords,
			fmt.Sprintf("migration:%s", entry.Source),
		)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		p.Status = pattern.StatusActive
		if !entry.Timestamp.IsZero() {
			p.DiscoveredAt = entry.Timestamp
		}
		migrated = append(migrated, p)
	}
	return migrated, nil
}

// Run loads the legacy file, optionally backs it up, migrates every entry,
// and writes the structured pattern store.
func (s *MigrationService) Run(ctx context.Context, backup bool) (*MigrationResult, error) {
	entries, err := s.legacy.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{}
	if backup {
		backupPath, err := s.legacy.Backup(ctx)
		if err != nil {
			return nil, err
		}
		result.BackupPath = backupPath
		s.log.Info("legacy pattern file backed up to %s", backupPath)
	}

	migrated, err := Migrate(entries)
	if err != nil {
		return nil, err
	}
	result.Migrated = migrated
	result.Issues = ValidateMigration(entries, migrated)

	store := pattern.NewStore()
	store.Patterns = migrated
	if err := s.patterns.Save(ctx, store); err != nil {
		return nil, err
	}

	s.log.Info("migrated %d legacy patterns (%d issues)", len(migrated), len(result.Issues))
	return result, nil
}

// ValidateMigration recomputes counts, keyword non-emptiness, polarity
// round-trips and lifecycle status, reporting mismatches as a list of issues
// rather than failing.
func ValidateMigration(original []pattern.LegacyPattern, migrated []pattern.Pattern) []string {
	issues := []string{}
	if len(original) != len(migrated) {
		issues = append(issues, fmt.Sprintf("count mismatch: %d legacy entries, %d migrated patterns",
			len(original), len(migrated)))
	}

	n := len(migrated)
	if len(original) < n {
		n = len(original)
	}
	for i := 0; i < n; i++ {
		p := migrated[i]
		if len(p.Keywords) == 0 {
			issues = append(issues, fmt.Sprintf("pattern %s has no keywords", p.ID))
		}
		if p.Status != pattern.StatusActive {
			issues = append(issues, fmt.Sprintf("pattern %s has status %q, want active", p.ID, p.Status))
		}
		if p.FiredCount != 0 || p.Accuracy != 0 {
			issues = append(issues, fmt.Sprintf("pattern %s has non-zero performance counters", p.ID))
		}
		if pattern.LegacyPolarityFor(p.Polarity) != original[i].Polarity {
			issues = append(issues, fmt.Sprintf("pattern %s polarity %q does not round-trip to legacy tag %q",
				p.ID, p.Polarity, original[i].Polarity))
		}
	}
	return issues
}
