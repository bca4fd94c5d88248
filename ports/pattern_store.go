package ports

import (
	"context"

	"judgefit/domain/pattern"
)

// PatternStorePort persists the promoted pattern set and its calibration
// history. Single-writer: the engine fully reloads on start and fully
// rewrites on save; there is no in-place patching.
type PatternStorePort interface {
	// Load returns the persisted store, or a fresh empty store when no file
	// exists yet. A file that exists but fails to parse or validate is a
	// fatal configuration error - it is never repaired into an empty default.
	Load(ctx context.Context) (*pattern.Store, error)

	// Save atomically replaces the persisted store.
	Save(ctx context.Context, store *pattern.Store) error
}
