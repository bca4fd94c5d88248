package ports

import (
	"context"

	"judgefit/domain/pattern"
)

// LegacyStorePort reads the old free-text pattern file the migrator
// converts, and can snapshot it before it is overwritten.
type LegacyStorePort interface {
	Load(ctx context.Context) ([]pattern.LegacyPattern, error)

	// Backup copies the legacy file aside and returns the backup path.
	Backup(ctx context.Context) (string, error)
}
