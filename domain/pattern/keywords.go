package pattern

import (
	"regexp"
	"strings"
)

// Keyword extraction is shared by the legacy migrator and the learning loop.
// It is deliberately stateless: text in, keyword list out.

var wordRe = regexp.MustCompile(`[a-z]+`)

// stopWords are generic English tokens that carry no signal.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "has": true,
	"have": true, "this": true, "that": true, "with": true, "from": true,
	"they": true, "will": true, "would": true, "there": true, "their": true,
	"what": true, "about": true, "which": true, "when": true, "make": true,
	"like": true, "into": true, "them": true, "then": true, "than": true,
	"some": true, "very": true, "such": true, "more": true, "most": true,
	"also": true, "does": true, "been": true, "being": true, "were": true,
	"its": true, "only": true, "other": true, "these": true, "because": true,
	"should": true, "could": true, "each": true, "between": true, "both": true,
}

// domainTerms always survive filtering regardless of length, since short
// evaluation vocabulary like "ac" or "ux" would otherwise be dropped.
var domainTerms = map[string]bool{
	"ac": true, "ux": true, "api": true, "qa": true,
	"story": true, "acceptance": true, "criteria": true, "criterion": true,
	"scope": true, "testable": true, "estimable": true, "dependency": true,
	"dependencies": true, "clarity": true, "vague": true, "ambiguous": true,
	"atomic": true, "independent": true, "negotiable": true, "valuable": true,
	"measurable": true, "specific": true, "actionable": true, "edge": true,
	"persona": true, "outcome": true, "requirement": true, "requirements": true,
}

// miningStopWords are additionally removed when mining judge feedback
// phrases, because the judges phrase every remark with them.
var miningStopWords = map[string]bool{
	"good": true, "well": true, "needs": true, "lacks": true, "missing": true,
	"overall": true, "quite": true, "fairly": true, "somewhat": true,
	"strong": true, "weak": true, "better": true, "improve": true,
}

// ExtractKeywords tokenizes text into lowercase alphabetic words and keeps a
// word if it is a domain term, or if it is not a stop word and is at least 3
// characters long. Output is deduplicated in order and capped at MaxKeywords.
func ExtractKeywords(text string) []string {
	var kept []string
	for _, word := range tokenize(text) {
		if domainTerms[word] || (!stopWords[word] && len(word) >= 3) {
			kept = append(kept, word)
		}
	}
	return NormalizeKeywords(kept)
}

// ExtractKeywordsWithFallback applies ExtractKeywords, falling back to
// FallbackKeywords when filtering removed everything. Every migrated pattern
// must end up with at least one keyword.
func ExtractKeywordsWithFallback(text string) []string {
	if kws := ExtractKeywords(text); len(kws) > 0 {
		return kws
	}
	return FallbackKeywords(text)
}

// FallbackKeywords returns the first 5 raw alphabetic tokens of length >= 3,
// ignoring the allow and stop lists.
func FallbackKeywords(text string) []string {
	var raw []string
	for _, word := range tokenize(text) {
		if len(word) >= 3 {
			raw = append(raw, word)
			if len(raw) == 5 {
				break
			}
		}
	}
	return NormalizeKeywords(raw)
}

// ExtractMiningKeywords extracts keywords from a judge feedback phrase,
// additionally dropping the judges' boilerplate vocabulary.
func ExtractMiningKeywords(phrase string) []string {
	var kept []string
	for _, word := range ExtractKeywords(phrase) {
		if miningStopWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return kept
}

func tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}
