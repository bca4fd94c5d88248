package app

import (
	"context"
	"fmt"
	"strings"

	"judgefit/domain/core"
	"judgefit/domain/judge"
	"judgefit/domain/pattern"
	"judgefit/internal"
	"judgefit/internal/config"
	"judgefit/ports"
)

// LearnerService runs the pattern learning loop: it evaluates provisional
// proposals against each iteration's dual-mode results, mines new candidates
// from judge disagreement, suppresses duplicates, and promotes or rejects
// proposals once the evidence gates trigger.
//
// Not safe for concurrent use. The iteration driver calls ProcessIteration
// exactly once per iteration; both persisted files are owned by a single
// writer.
type LearnerService struct {
	patterns  ports.PatternStorePort
	proposals ports.ProposalStorePort
	cfg       config.CalibrationConfig
	log       *internal.Logger

	store       *pattern.Store
	provisional []pattern.Proposal
	loaded      bool
}

// EvaluationStats summarizes one iteration's proposal evaluation pass.
type EvaluationStats struct {
	ProposalsEvaluated int `json:"proposals_evaluated"`
	MatchesRecorded    int `json:"matches_recorded"`
	CorrectPredictions int `json:"correct_predictions"`
	ResultsSkipped     int `json:"results_skipped"`
}

// StatusSnapshot is the learner's state after an iteration completes.
type StatusSnapshot struct {
	ActivePatterns    int `json:"active_patterns"`
	FavorableActive   int `json:"favorable_active"`
	UnfavorableActive int `json:"unfavorable_active"`
	Provisional       int `json:"provisional"`
}

// IterationOutcome is the learner's answer to one ProcessIteration call.
type IterationOutcome struct {
	Iteration        int              `json:"iteration"`
	Stats            EvaluationStats  `json:"evaluation_stats"`
	NewProposalCount int              `json:"new_proposal_count"`
	Committed        []core.PatternID `json:"committed"`
	Rejected         []core.PatternID `json:"rejected"`
	StillProvisional int              `json:"still_provisional"`
	Snapshot         StatusSnapshot   `json:"status_snapshot"`
}

// NewLearnerService creates a learner over the given stores.
func NewLearnerService(patterns ports.PatternStorePort, proposals ports.ProposalStorePort, cfg config.CalibrationConfig, logger *internal.Logger) *LearnerService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &LearnerService{
		patterns:  patterns,
		proposals: proposals,
		cfg:       cfg,
		log:       logger,
	}
}

// ProcessIteration runs one full calibration iteration over the dual-mode
// results: evaluate, mine, deduplicate, promote/reject, persist.
func (s *LearnerService) ProcessIteration(ctx context.Context, results []judge.DualModeResult, iteration int) (*IterationOutcome, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	usable, skipped := s.partitionResults(results)

	stats := s.evaluateProposals(usable)
	stats.ResultsSkipped = skipped

	newCount := s.mineCandidates(usable, iteration)

	committed, rejected := s.resolveProposals()

	entry := pattern.HistoryEntry{
		Iteration:        iteration,
		Timestamp:        core.Now(),
		Committed:        committed,
		Rejected:         rejected,
		StillProvisional: len(s.provisional),
		TotalPatterns:    len(s.store.Active()),
	}
	s.store.AppendHistory(entry, s.cfg.HistoryRetention)

	if err := s.patterns.Save(ctx, s.store); err != nil {
		return nil, err
	}
	if err := s.proposals.Save(ctx, s.provisional); err != nil {
		return nil, err
	}

	s.log.Info("iteration %d: %d evaluated, %d mined, %d committed, %d rejected, %d provisional",
		iteration, stats.ProposalsEvaluated, newCount, len(committed), len(rejected), len(s.provisional))

	return &IterationOutcome{
		Iteration:        iteration,
		Stats:            stats,
		NewProposalCount: newCount,
		Committed:        committed,
		Rejected:         rejected,
		StillProvisional: len(s.provisional),
		Snapshot:         s.snapshot(),
	}, nil
}

// Store exposes the loaded pattern store for read-only surfaces.
func (s *LearnerService) Store(ctx context.Context) (*pattern.Store, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.store, nil
}

// Provisional exposes the current proposal list for read-only surfaces.
func (s *LearnerService) Provisional(ctx context.Context) ([]pattern.Proposal, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.provisional, nil
}

func (s *LearnerService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	store, err := s.patterns.Load(ctx)
	if err != nil {
		return err
	}
	proposals, err := s.proposals.Load(ctx)
	if err != nil {
		return err
	}
	s.store = store
	s.provisional = proposals
	s.loaded = true
	return nil
}

// partitionResults drops results with out-of-range scores. They are logged
// and excluded from both evaluation and mining, but never abort the
// iteration.
func (s *LearnerService) partitionResults(results []judge.DualModeResult) ([]judge.DualModeResult, int) {
	usable := make([]judge.DualModeResult, 0, len(results))
	skipped := 0
	for _, r := range results {
		if err := r.Validate(); err != nil {
			s.log.Warn("skipping result: %v", err)
			skipped++
			continue
		}
		usable = append(usable, r)
	}
	return usable, skipped
}

// evaluateProposals tests every provisional proposal against every result.
// Each (proposal, result) pair is counted at most once per pass, so counters
// stay monotone.
func (s *LearnerService) evaluateProposals(results []judge.DualModeResult) EvaluationStats {
	stats := EvaluationStats{ProposalsEvaluated: len(s.provisional)}
	for i := range s.provisional {
		prop := &s.provisional[i]
		for _, r := range results {
			if !keywordsMatch(prop.Pattern.Keywords, r.JudgeText()) {
				continue
			}
			correct := s.isCorrectPrediction(prop.Pattern.Polarity, r.Expensive.Score)
			prop.RecordTest(correct)
			stats.MatchesRecorded++
			if correct {
				stats.CorrectPredictions++
			}
		}
	}
	return stats
}

// isCorrectPrediction: a favorable pattern predicts a high expensive score,
// an unfavorable one a low score.
func (s *LearnerService) isCorrectPrediction(polarity pattern.Polarity, expensiveScore float64) bool {
	if polarity == pattern.PolarityFavorable {
		return expensiveScore >= s.cfg.GoodScoreThreshold
	}
	return expensiveScore <= s.cfg.BadScoreThreshold
}

// keywordsMatch requires at least max(2, len(keywords)/2) keyword hits in
// the judge text.
func keywordsMatch(keywords []string, judgeText string) bool {
	required := len(keywords) / 2
	if required < 2 {
		required = 2
	}
	hits := 0
	for _, kw := range keywords {
		// JudgeText is already lowercase; keywords are normalized lowercase.
		if strings.Contains(judgeText, kw) {
			hits++
			if hits >= required {
				return true
			}
		}
	}
	return false
}

// mineCandidates proposes new patterns from results where the judges
// disagree. Returns the number of proposals that survived deduplication.
func (s *LearnerService) mineCandidates(results []judge.DualModeResult, iteration int) int {
	accepted := 0
	seq := 0
	for _, r := range results {
		gap := r.Gap()
		if gap < s.cfg.MinGapToMine && gap > -s.cfg.MinGapToMine {
			continue
		}

		var phrases []string
		var polarity pattern.Polarity
		if gap > 0 {
			// Heuristic under-rated: the judge saw strengths the cheap
			// scorer has no pattern for.
			phrases = r.Expensive.Strengths
			polarity = pattern.PolarityFavorable
		} else {
			phrases = r.Expensive.Weaknesses
			polarity = pattern.PolarityUnfavorable
		}

		for _, phrase := range phrases {
			keywords := pattern.ExtractMiningKeywords(phrase)
			if len(keywords) < 2 {
				s.log.Debug("discarding candidate from story %s: too few keywords in %q", r.Story, phrase)
				continue
			}
			seq++
			id := core.NewLearnedPatternID(iteration, seq)
			source := fmt.Sprintf("learning_loop:%s", r.Story)
			cand, err := pattern.New(id, polarity, phrase, keywords, source)
			if err != nil {
				s.log.Warn("discarding candidate %s: %v", id, err)
				continue
			}
			if s.isDuplicate(cand.Keywords) {
				s.log.Debug("discarding candidate %s: duplicate keyword cluster", id)
				continue
			}
			s.provisional = append(s.provisional, pattern.NewProposal(cand, iteration))
			accepted++
		}
	}
	return accepted
}

// isDuplicate checks a candidate keyword set against every provisional
// proposal and every active pattern.
func (s *LearnerService) isDuplicate(keywords []string) bool {
	for i := range s.provisional {
		if pattern.OverlapRatio(keywords, s.provisional[i].Pattern.Keywords) > s.cfg.OverlapThreshold {
			return true
		}
	}
	return s.duplicatesActive(keywords)
}

func (s *LearnerService) duplicatesActive(keywords []string) bool {
	for _, p := range s.store.Active() {
		if pattern.OverlapRatio(keywords, p.Keywords) > s.cfg.OverlapThreshold {
			return true
		}
	}
	return false
}

// resolveProposals applies the promotion and rejection gates. Rejection wins
// if both gates ever held at once - rejecting is the safer default. A
// proposal that passes the commit gate is re-checked against the active set,
// which may have grown this iteration.
func (s *LearnerService) resolveProposals() (committed, rejected []core.PatternID) {
	committed = []core.PatternID{}
	rejected = []core.PatternID{}
	remaining := s.provisional[:0]

	for i := range s.provisional {
		prop := s.provisional[i]
		switch {
		case prop.ShouldRejectWith(s.cfg.Gates):
			rejected = append(rejected, prop.Pattern.ID)
			s.log.Info("rejected %s: accuracy %.2f over %d stories",
				prop.Pattern.ID, prop.Accuracy(), prop.StoriesTested)
		case prop.ShouldCommitWith(s.cfg.Gates):
			if s.duplicatesActive(prop.Pattern.Keywords) {
				rejected = append(rejected, prop.Pattern.ID)
				s.log.Info("rejected %s: became duplicate of an active pattern", prop.Pattern.ID)
				continue
			}
			s.store.Patterns = append(s.store.Patterns, prop.Promote())
			committed = append(committed, prop.Pattern.ID)
			s.log.Info("committed %s: accuracy %.2f over %d stories",
				prop.Pattern.ID, prop.Accuracy(), prop.StoriesTested)
		default:
			remaining = append(remaining, prop)
		}
	}
	s.provisional = remaining
	return committed, rejected
}

func (s *LearnerService) snapshot() StatusSnapshot {
	snap := StatusSnapshot{Provisional: len(s.provisional)}
	for _, p := range s.store.Active() {
		snap.ActivePatterns++
		if p.Polarity == pattern.PolarityFavorable {
			snap.FavorableActive++
		} else {
			snap.UnfavorableActive++
		}
	}
	return snap
}
