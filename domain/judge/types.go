// Package judge holds the dual-mode evaluation results this engine consumes.
// The judges themselves are external: the expensive judge is an LLM scoring
// on a 1-5 scale, the cheap judge is the keyword heuristic driven by the
// active pattern set.
package judge

import (
	"strings"

	"judgefit/domain/core"
)

// Score bounds for both judges.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// ExpensiveOutcome is the LLM judge's verdict for one story.
type ExpensiveOutcome struct {
	Score      float64  `json:"score"`
	Rationale  string   `json:"rationale"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// CheapOutcome is the heuristic judge's verdict for one story.
type CheapOutcome struct {
	Score            float64          `json:"score"`
	RawScore         float64          `json:"raw_score"`
	Reasons          []string         `json:"reasons"`
	FavorableFired   []core.PatternID `json:"favorable_fired"`
	UnfavorableFired []core.PatternID `json:"unfavorable_fired"`
}

// DualModeResult pairs both judges' outcomes for one evaluated story.
// Immutable once produced.
type DualModeResult struct {
	Story     core.StoryID     `json:"story_id"`
	Expensive ExpensiveOutcome `json:"expensive"`
	Cheap     CheapOutcome     `json:"cheap"`
}

// Gap is the expensive score minus the cheap score. Positive means the
// heuristic under-rates relative to the LLM judge.
func (r DualModeResult) Gap() float64 {
	return r.Expensive.Score - r.Cheap.Score
}

// Validate rejects results with out-of-range scores. Such items are skipped
// for pattern mining but do not abort the iteration.
func (r DualModeResult) Validate() error {
	if r.Expensive.Score < MinScore || r.Expensive.Score > MaxScore {
		return core.NewScoreError(r.Story, r.Expensive.Score)
	}
	if r.Cheap.Score < MinScore || r.Cheap.Score > MaxScore {
		return core.NewScoreError(r.Story, r.Cheap.Score)
	}
	return nil
}

// JudgeText is the lowercase concatenation of the expensive judge's
// rationale, strengths and weaknesses. Proposal keyword matching runs
// against this blob.
func (r DualModeResult) JudgeText() string {
	parts := make([]string, 0, 1+len(r.Expensive.Strengths)+len(r.Expensive.Weaknesses))
	parts = append(parts, r.Expensive.Rationale)
	parts = append(parts, r.Expensive.Strengths...)
	parts = append(parts, r.Expensive.Weaknesses...)
	return strings.ToLower(strings.Join(parts, " "))
}
