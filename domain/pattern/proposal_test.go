package pattern

import (
	"testing"

	"judgefit/domain/core"
)

func testPattern(t *testing.T, id string, polarity Polarity) Pattern {
	t.Helper()
	p, err := New(core.PatternID(id), polarity, "test pattern", []string{"clarity", "scope"}, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestProposalAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		tested  int
		correct int
		want    float64
	}{
		{"untested is zero", 0, 0, 0},
		{"eight of ten", 10, 8, 0.8},
		{"all correct", 5, 5, 1.0},
		{"none correct", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProposal(testPattern(t, "p1", PolarityFavorable), 1)
			p.StoriesTested = tt.tested
			p.CorrectPredictions = tt.correct
			if got := p.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
			if acc := p.Accuracy(); acc < 0 || acc > 1 {
				t.Errorf("accuracy %v outside [0,1]", acc)
			}
		})
	}
}

func TestProposalGates(t *testing.T) {
	tests := []struct {
		name       string
		tested     int
		correct    int
		wantCommit bool
		wantReject bool
	}{
		{"ten tested eight correct commits", 10, 8, true, false},
		{"nine tested never commits", 9, 9, false, false},
		{"ten tested low accuracy rejects", 10, 2, false, true},
		{"five tested one correct rejects", 5, 1, false, true},
		{"four tested zero correct stays provisional", 4, 0, false, false},
		{"middling accuracy stays provisional", 8, 4, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProposal(testPattern(t, "p1", PolarityFavorable), 1)
			p.StoriesTested = tt.tested
			p.CorrectPredictions = tt.correct
			if got := p.ShouldCommit(); got != tt.wantCommit {
				t.Errorf("ShouldCommit() = %v, want %v", got, tt.wantCommit)
			}
			if got := p.ShouldReject(); got != tt.wantReject {
				t.Errorf("ShouldReject() = %v, want %v", got, tt.wantReject)
			}
			if tt.wantCommit && tt.wantReject {
				t.Error("commit and reject must be mutually exclusive")
			}
		})
	}
}

func TestRecordTestMonotone(t *testing.T) {
	p := NewProposal(testPattern(t, "p1", PolarityFavorable), 1)
	prevTested, prevCorrect := 0, 0
	for i := 0; i < 20; i++ {
		p.RecordTest(i%3 == 0)
		if p.StoriesTested < prevTested || p.CorrectPredictions < prevCorrect {
			t.Fatal("counters must be monotonically non-decreasing")
		}
		if p.CorrectPredictions > p.StoriesTested {
			t.Fatal("correct predictions cannot exceed stories tested")
		}
		prevTested, prevCorrect = p.StoriesTested, p.CorrectPredictions
	}
}

func TestPromoteCarriesEvidence(t *testing.T) {
	p := NewProposal(testPattern(t, "p1", PolarityUnfavorable), 3)
	p.StoriesTested = 12
	p.CorrectPredictions = 9

	committed := p.Promote()
	if committed.Status != StatusActive {
		t.Errorf("promoted status = %q, want active", committed.Status)
	}
	if committed.Accuracy != 0.75 {
		t.Errorf("promoted accuracy = %v, want 0.75", committed.Accuracy)
	}
	if committed.FiredCount != 12 {
		t.Errorf("promoted fired count = %d, want 12", committed.FiredCount)
	}
	// The wrapped pattern itself stays provisional.
	if p.Pattern.Status != StatusProvisional {
		t.Errorf("proposal pattern status mutated to %q", p.Pattern.Status)
	}
}
