package judge

import (
	"strings"
	"testing"

	"judgefit/domain/core"
)

func TestGap(t *testing.T) {
	tests := []struct {
		name      string
		expensive float64
		cheap     float64
		want      float64
	}{
		{"heuristic under-rates", 4.5, 3.0, 1.5},
		{"heuristic over-rates", 2.0, 3.5, -1.5},
		{"agreement", 3.0, 3.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DualModeResult{
				Expensive: ExpensiveOutcome{Score: tt.expensive},
				Cheap:     CheapOutcome{Score: tt.cheap},
			}
			if got := r.Gap(); got != tt.want {
				t.Errorf("Gap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		expensive float64
		cheap     float64
		wantErr   bool
	}{
		{"both in range", 4.0, 3.5, false},
		{"bounds are inclusive", 1.0, 5.0, false},
		{"expensive too high", 5.5, 3.0, true},
		{"cheap too low", 3.0, 0.5, true},
		{"zero scores", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DualModeResult{
				Story:     core.StoryID("s1"),
				Expensive: ExpensiveOutcome{Score: tt.expensive},
				Cheap:     CheapOutcome{Score: tt.cheap},
			}
			err := r.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr && err != nil && !core.IsDataError(err) {
				t.Errorf("score error should be a data error, got %v", err)
			}
		})
	}
}

func TestJudgeText(t *testing.T) {
	r := DualModeResult{
		Expensive: ExpensiveOutcome{
			Rationale:  "Solid story OVERALL",
			Strengths:  []string{"Clear acceptance criteria"},
			Weaknesses: []string{"Missing edge cases"},
		},
	}
	text := r.JudgeText()
	if text != strings.ToLower(text) {
		t.Error("JudgeText must be lowercase")
	}
	for _, want := range []string{"solid story overall", "clear acceptance criteria", "missing edge cases"} {
		if !strings.Contains(text, want) {
			t.Errorf("JudgeText missing %q: %q", want, text)
		}
	}
}
