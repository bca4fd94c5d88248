package pattern

// Gates are the quantitative promotion and rejection criteria applied to a
// proposal. The numbers are domain-tuned; the defaults are the values used
// in production calibration runs.
type Gates struct {
	CommitMinTested   int
	CommitMinAccuracy float64
	RejectMinTested   int
	RejectMaxAccuracy float64
}

// DefaultGates returns the production validation gates.
func DefaultGates() Gates {
	return Gates{
		CommitMinTested:   10,
		CommitMinAccuracy: 0.70,
		RejectMinTested:   5,
		RejectMaxAccuracy: 0.30,
	}
}

// Proposal wraps a provisional pattern while it accumulates test evidence.
// Counters are monotonically non-decreasing for the proposal's lifetime.
type Proposal struct {
	Pattern            Pattern `json:"pattern"`
	StoriesTested      int     `json:"stories_tested"`
	CorrectPredictions int     `json:"correct_predictions"`
	ProposedAt         int     `json:"proposed_at"`
}

// NewProposal wraps a pattern with zero counters at the given iteration.
func NewProposal(p Pattern, iteration int) Proposal {
	p.Status = StatusProvisional
	return Proposal{Pattern: p, ProposedAt: iteration}
}

// Accuracy is correct predictions over stories tested, 0 when untested,
// clamped to [0,1].
func (p *Proposal) Accuracy() float64 {
	if p.StoriesTested == 0 {
		return 0
	}
	acc := float64(p.CorrectPredictions) / float64(p.StoriesTested)
	if acc < 0 {
		return 0
	}
	if acc > 1 {
		return 1
	}
	return acc
}

// RecordTest increments the evidence counters for one matched story.
func (p *Proposal) RecordTest(correct bool) {
	p.StoriesTested++
	if correct {
		p.CorrectPredictions++
	}
}

// ShouldCommit reports whether the proposal has proven itself under the
// default gates.
func (p *Proposal) ShouldCommit() bool {
	return p.ShouldCommitWith(DefaultGates())
}

// ShouldReject reports whether the proposal has disproven itself under the
// default gates.
func (p *Proposal) ShouldReject() bool {
	return p.ShouldRejectWith(DefaultGates())
}

// ShouldCommitWith applies configured gates.
func (p *Proposal) ShouldCommitWith(g Gates) bool {
	return p.StoriesTested >= g.CommitMinTested && p.Accuracy() >= g.CommitMinAccuracy
}

// ShouldRejectWith applies configured gates.
func (p *Proposal) ShouldRejectWith(g Gates) bool {
	return p.StoriesTested >= g.RejectMinTested && p.Accuracy() < g.RejectMaxAccuracy
}

// Promote returns the wrapped pattern as an active store entry carrying the
// proposal's final accuracy and fired count.
func (p *Proposal) Promote() Pattern {
	committed := p.Pattern
	committed.Status = StatusActive
	committed.Accuracy = p.Accuracy()
	committed.FiredCount = p.StoriesTested
	return committed
}
