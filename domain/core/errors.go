package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrPatternNotFound  = fmt.Errorf("%w: pattern", ErrNotFound)
	ErrProposalNotFound = fmt.Errorf("%w: proposal", ErrNotFound)

	// Configuration errors: a required persisted file is missing or corrupt.
	// These are fatal - resetting to an empty default would erase the
	// accumulated calibration history.
	ErrCorruptStore     = errors.New("persisted store is corrupt")
	ErrStoreVersion     = errors.New("unsupported store version")
	ErrInvalidThreshold = errors.New("invalid threshold configuration")

	// Data errors: a single item is unusable but the iteration continues.
	ErrScoreOutOfRange = errors.New("score outside 1-5 scale")
	ErrEmptyKeywords   = errors.New("pattern has no keywords")
	ErrInvalidPolarity = errors.New("unknown pattern polarity")

	// Persistence errors
	ErrPersistFailed = errors.New("store persistence failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewCorruptStoreError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrCorruptStore, path, cause)
}

func NewScoreError(story StoryID, score float64) error {
	return fmt.Errorf("%w: story %s scored %.2f", ErrScoreOutOfRange, story, score)
}

func NewPersistError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistFailed, path, cause)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigurationError reports whether err must abort the run rather than be
// degraded into an empty default.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrCorruptStore) ||
		errors.Is(err, ErrStoreVersion) ||
		errors.Is(err, ErrInvalidThreshold)
}

// IsDataError reports whether err only disqualifies a single item.
func IsDataError(err error) bool {
	return errors.Is(err, ErrScoreOutOfRange) ||
		errors.Is(err, ErrEmptyKeywords) ||
		errors.Is(err, ErrInvalidPolarity)
}
