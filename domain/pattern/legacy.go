package pattern

import (
	"fmt"

	"judgefit/domain/core"
)

// Legacy polarity tags used by the free-text pattern store.
const (
	LegacyPolarityGood = "good"
	LegacyPolarityBad  = "bad"
)

// LegacyPattern is one entry of the old free-text pattern store: a polarity
// tag, a description, a single example, and provenance.
type LegacyPattern struct {
	Polarity    string         `json:"polarity"`
	Description string         `json:"description"`
	Example     string         `json:"example"`
	Source      string         `json:"source"`
	Timestamp   core.Timestamp `json:"timestamp"`
}

// MapLegacyPolarity converts the two-valued legacy tag. Total on
// {good, bad}; anything else is a data error.
func MapLegacyPolarity(tag string) (Polarity, error) {
	switch tag {
	case LegacyPolarityGood:
		return PolarityFavorable, nil
	case LegacyPolarityBad:
		return PolarityUnfavorable, nil
	default:
		return "", fmt.Errorf("%w: legacy tag %q", core.ErrInvalidPolarity, tag)
	}
}

// LegacyPolarityFor is the inverse mapping, used by migration validation to
// confirm the polarity round-trips.
func LegacyPolarityFor(p Polarity) string {
	if p == PolarityFavorable {
		return LegacyPolarityGood
	}
	return LegacyPolarityBad
}
