// Package verify compares typed answers against reference words and meanings.
package verify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// MeaningThreshold is the minimum similarity score for a meaning to count as correct.
const MeaningThreshold = 60.0

// Normalize trims surrounding whitespace and case-folds s.
// It is the identity used for words across the quiz and progress packages.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// VerifySpelling reports whether input matches reference after normalization.
func VerifySpelling(input, reference string) bool {
	return Normalize(input) == Normalize(reference)
}

// ScoreMeaningSimilarity returns how much of reference is covered by input, in [0,100].
//
// Both strings are lowercased, stripped of punctuation and split into word
// tokens. The score is the number of distinct input tokens that occur in the
// reference divided by the number of distinct reference tokens.
func ScoreMeaningSimilarity(input, reference string) float64 {
	inputTokens := tokenSet(input)
	refTokens := tokenSet(reference)
	if len(inputTokens) == 0 || len(refTokens) == 0 {
		return 0
	}

	matched := 0
	for tok := range inputTokens {
		if _, ok := refTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(refTokens)) * 100
}

// IsMeaningCorrect reports whether input is similar enough to reference.
func IsMeaningCorrect(input, reference string) bool {
	return ScoreMeaningSimilarity(input, reference) >= MeaningThreshold
}

func tokenSet(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, cases.Fold().String(s))

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		set[tok] = struct{}{}
	}
	return set
}
