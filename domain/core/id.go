package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	PatternID ID
	StoryID   ID
	ReportID  ID
)

// String conversions for domain IDs
func (id PatternID) String() string { return ID(id).String() }
func (id StoryID) String() string   { return ID(id).String() }
func (id ReportID) String() string  { return ID(id).String() }

// NewLearnedPatternID builds the sequential id assigned to a pattern mined
// during calibration. Candidate numbering restarts each iteration.
func NewLearnedPatternID(iteration, candidate int) PatternID {
	return PatternID(fmt.Sprintf("learned_%d_%d", iteration, candidate))
}

// NewMigratedPatternID builds the id assigned to a pattern converted from the
// legacy free-text store.
func NewMigratedPatternID(ordinal int) PatternID {
	return PatternID(fmt.Sprintf("migrated_%d", ordinal))
}

// ParsePatternID parses a string into PatternID
func ParsePatternID(s string) (PatternID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("pattern ID cannot be empty")
	}
	return PatternID(s), nil
}

// ParseStoryID parses a string into StoryID
func ParseStoryID(s string) (StoryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("story ID cannot be empty")
	}
	return StoryID(s), nil
}
