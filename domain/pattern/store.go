package pattern

import (
	"fmt"

	"judgefit/domain/core"
)

// StoreVersion is the on-disk schema version this code reads and writes.
const StoreVersion = "2.0"

// HistoryEntry is one row of the pattern lifecycle audit trail, appended
// every calibration iteration.
type HistoryEntry struct {
	Iteration        int              `json:"iteration"`
	Timestamp        core.Timestamp   `json:"timestamp"`
	Committed        []core.PatternID `json:"committed"`
	Rejected         []core.PatternID `json:"rejected"`
	StillProvisional int              `json:"still_provisional"`
	TotalPatterns    int              `json:"total_patterns"`
}

// Store is the durable record of promoted patterns and their audit trail.
// Pure data; loaded fully at startup and rewritten whole on save.
type Store struct {
	Version            string         `json:"version"`
	LastUpdated        core.Timestamp `json:"last_updated"`
	Patterns           []Pattern      `json:"patterns"`
	CalibrationHistory []HistoryEntry `json:"calibration_history"`
}

// NewStore returns an empty store at the current schema version.
func NewStore() *Store {
	return &Store{Version: StoreVersion}
}

// Validate checks the shape invariants of a store loaded from disk. A
// violation means the file is corrupt and must abort the run.
func (s *Store) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("%w: missing version", core.ErrCorruptStore)
	}
	if s.Version != StoreVersion {
		return fmt.Errorf("%w: got %q, want %q", core.ErrStoreVersion, s.Version, StoreVersion)
	}
	for i := range s.Patterns {
		if err := s.Patterns[i].Validate(); err != nil {
			return fmt.Errorf("%w: pattern %d: %v", core.ErrCorruptStore, i, err)
		}
	}
	return nil
}

// Active returns the patterns currently trusted by the cheap judge.
func (s *Store) Active() []Pattern {
	var active []Pattern
	for _, p := range s.Patterns {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}
	return active
}

// Find returns the pattern with the given id, or nil.
func (s *Store) Find(id core.PatternID) *Pattern {
	for i := range s.Patterns {
		if s.Patterns[i].ID == id {
			return &s.Patterns[i]
		}
	}
	return nil
}

// AppendHistory records one iteration's lifecycle outcome, capping retention
// at the most recent keep entries (0 disables the cap). History is an audit
// trail, not state the algorithm reads back.
func (s *Store) AppendHistory(entry HistoryEntry, keep int) {
	s.CalibrationHistory = append(s.CalibrationHistory, entry)
	if keep > 0 && len(s.CalibrationHistory) > keep {
		s.CalibrationHistory = s.CalibrationHistory[len(s.CalibrationHistory)-keep:]
	}
}
