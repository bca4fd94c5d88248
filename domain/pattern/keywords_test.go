package pattern

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "filters stop words and short tokens",
			text: "The acceptance criteria are clear and testable",
			want: []string{"acceptance", "criteria", "clear", "testable"},
		},
		{
			name: "domain terms survive regardless of length",
			text: "the ux of it is ok",
			want: []string{"ux"},
		},
		{
			name: "deduplicates preserving order",
			text: "scope scope clarity scope",
			want: []string{"scope", "clarity"},
		},
		{
			name: "lowercases mixed case input",
			text: "Ambiguous SCOPE",
			want: []string{"ambiguous", "scope"},
		},
		{
			name: "all stop words yields empty",
			text: "the and for with that",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractKeywordsCapped(t *testing.T) {
	text := strings.Join([]string{
		"alpha bravo charlie delta echo foxtrot",
		"golf hotel india juliet kilo lima",
	}, " ")
	got := ExtractKeywords(text)
	if len(got) != MaxKeywords {
		t.Errorf("expected cap at %d keywords, got %d", MaxKeywords, len(got))
	}
}

func TestExtractKeywordsWithFallback(t *testing.T) {
	// No allow-listed or >=3-char non-stopword tokens: must fall back to the
	// first 5 raw tokens >= 3 chars, never an empty list.
	text := "the and for with that because should could"
	got := ExtractKeywordsWithFallback(text)
	want := []string{"the", "and", "for", "with", "that"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback = %v, want %v", got, want)
	}

	// Normal text does not trigger the fallback.
	got = ExtractKeywordsWithFallback("clear acceptance criteria")
	want = []string{"clear", "acceptance", "criteria"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("non-fallback = %v, want %v", got, want)
	}
}

func TestFallbackKeywordsNeverEmptyForAlphaText(t *testing.T) {
	if got := FallbackKeywords("the the the"); len(got) == 0 {
		t.Error("expected at least one fallback keyword")
	}
}

func TestExtractMiningKeywords(t *testing.T) {
	got := ExtractMiningKeywords("good acceptance criteria overall")
	want := []string{"acceptance", "criteria"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractMiningKeywords = %v, want %v", got, want)
	}
}
