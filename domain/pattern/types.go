package pattern

import (
	"fmt"
	"strings"

	"judgefit/domain/core"
)

// Polarity marks whether a pattern is evidence for or against quality.
type Polarity string

const (
	PolarityFavorable   Polarity = "favorable"
	PolarityUnfavorable Polarity = "unfavorable"
)

// Status represents a pattern's lifecycle state.
type Status string

const (
	StatusActive      Status = "active"
	StatusProvisional Status = "provisional"
	StatusRejected    Status = "rejected"
	StatusPruned      Status = "pruned"
)

// Bounds applied on every pattern update.
const (
	MaxKeywords       = 10
	MaxDescriptionLen = 500
	MinWeight         = 0.0
	MaxWeight         = 2.0
	DefaultWeight     = 1.0
)

// Pattern is a named keyword signal used by the cheap judge. Accuracy and
// FiredCount are only written during calibration.
type Pattern struct {
	ID           core.PatternID `json:"id"`
	Polarity     Polarity       `json:"polarity"`
	Description  string         `json:"description"`
	Keywords     []string       `json:"keywords"`
	Weight       float64        `json:"weight"`
	Source       string         `json:"source"`
	DiscoveredAt core.Timestamp `json:"discovered_at"`
	Accuracy     float64        `json:"accuracy"`
	FiredCount   int            `json:"fired_count"`
	Status       Status         `json:"status"`
}

// New creates a pattern with normalized keywords and clamped weight.
func New(id core.PatternID, polarity Polarity, description string, keywords []string, source string) (Pattern, error) {
	p := Pattern{
		ID:           id,
		Polarity:     polarity,
		Description:  truncate(description, MaxDescriptionLen),
		Keywords:     NormalizeKeywords(keywords),
		Weight:       DefaultWeight,
		Source:       source,
		DiscoveredAt: core.Now(),
		Status:       StatusProvisional,
	}
	if err := p.Validate(); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// Validate checks the invariants every stored pattern must hold.
func (p *Pattern) Validate() error {
	if p.ID.String() == "" {
		return fmt.Errorf("pattern id is required")
	}
	if p.Polarity != PolarityFavorable && p.Polarity != PolarityUnfavorable {
		return fmt.Errorf("%w: %q", core.ErrInvalidPolarity, p.Polarity)
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("%w: %s", core.ErrEmptyKeywords, p.ID)
	}
	if p.Accuracy < 0 || p.Accuracy > 1 {
		return fmt.Errorf("pattern %s accuracy %.3f outside [0,1]", p.ID, p.Accuracy)
	}
	return nil
}

// SetWeight clamps the multiplier into [MinWeight, MaxWeight].
func (p *Pattern) SetWeight(w float64) {
	if w < MinWeight {
		w = MinWeight
	}
	if w > MaxWeight {
		w = MaxWeight
	}
	p.Weight = w
}

// NormalizeKeywords lowercases, deduplicates (preserving order) and caps the
// keyword set.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// OverlapRatio returns |candidate ∩ other| / |candidate|. The denominator is
// the candidate set so a small candidate swallowed by a large existing
// pattern still counts as a duplicate.
func OverlapRatio(candidate, other []string) float64 {
	if len(candidate) == 0 {
		return 0
	}
	existing := make(map[string]bool, len(other))
	for _, kw := range other {
		existing[kw] = true
	}
	shared := 0
	for _, kw := range candidate {
		if existing[kw] {
			shared++
		}
	}
	return float64(shared) / float64(len(candidate))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
