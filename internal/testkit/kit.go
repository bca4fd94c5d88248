// Package testkit generates deterministic synthetic dual-mode results for
// tests and the dashboard demo mode. No judge is ever called.
package testkit

import (
	"fmt"
	"math/rand"

	"judgefit/domain/core"
	"judgefit/domain/judge"
)

var strengthPhrases = []string{
	"acceptance criteria are specific and testable",
	"scope is atomic and independent of other stories",
	"persona and outcome are clearly stated",
	"edge cases are enumerated in the criteria",
	"dependencies are called out explicitly",
}

var weaknessPhrases = []string{
	"acceptance criteria are vague and ambiguous",
	"scope bundles several unrelated requirements",
	"no measurable outcome is defined",
	"dependencies are implicit and untracked",
	"edge cases are missing from the criteria",
}

// Generator produces reproducible synthetic results.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator. The same seed always yields the same
// result stream.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Iteration produces n dual-mode results. gapBias shifts the cheap score
// relative to the expensive one, so tests can force under- or over-rating.
func (g *Generator) Iteration(iteration, n int, gapBias float64) []judge.DualModeResult {
	results := make([]judge.DualModeResult, 0, n)
	for i := 0; i < n; i++ {
		expensive := 1.0 + g.rng.Float64()*4.0
		cheap := clampScore(expensive - gapBias + (g.rng.Float64()-0.5)*0.4)

		var strengths, weaknesses []string
		if expensive >= 3.5 {
			strengths = g.pick(strengthPhrases, 2)
			weaknesses = g.pick(weaknessPhrases, 1)
		} else {
			strengths = g.pick(strengthPhrases, 1)
			weaknesses = g.pick(weaknessPhrases, 2)
		}

		results = append(results, judge.DualModeResult{
			Story: core.StoryID(fmt.Sprintf("story_%d_%d", iteration, i+1)),
			Expensive: judge.ExpensiveOutcome{
				Score:      round1(expensive),
				Rationale:  fmt.Sprintf("scored %.1f considering clarity, scope and criteria", expensive),
				Strengths:  strengths,
				Weaknesses: weaknesses,
			},
			Cheap: judge.CheapOutcome{
				Score:    round1(cheap),
				RawScore: cheap,
				Reasons:  []string{"keyword heuristic"},
			},
		})
	}
	return results
}

func (g *Generator) pick(bank []string, n int) []string {
	if n > len(bank) {
		n = len(bank)
	}
	idx := g.rng.Perm(len(bank))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = bank[j]
	}
	return out
}

func clampScore(s float64) float64 {
	if s < judge.MinScore {
		return judge.MinScore
	}
	if s > judge.MaxScore {
		return judge.MaxScore
	}
	return s
}

func round1(s float64) float64 {
	return float64(int(s*10+0.5)) / 10
}
