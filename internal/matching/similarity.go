package matching

import "strings"

// Weights for the non-exact scoring passes, relative to an exact keyword
// match worth 1.0.
const (
	synonymWeight = 0.8
	partialWeight = 0.6
	contextBonus  = 0.5

	// The substring pass only considers keywords longer than 3 bytes.
	partialMinLen = 4
)

// Similarity scores how well textB satisfies textA on a [0,1] scale.
//
// The score is an additive heuristic over extracted keywords: exact matches
// count 1.0, synonym-set overlaps 0.8, substring containment 0.6, plus a
// flat 0.5 when both texts classify into the same non-general context. The
// total is divided by the keyword count of textA and clamped to 1.
//
// Deliberate properties, kept as-is:
//   - Asymmetric: the denominator comes from textA only, so swapping the
//     arguments can change the result.
//   - The context bonus is flat, not scaled by keyword count, so it can
//     dominate for very short texts.
func Similarity(textA, textB string) float64 {
	keywordsA := ExtractKeywords(textA)
	keywordsB := ExtractKeywords(textB)
	if len(keywordsA) == 0 || len(keywordsB) == 0 {
		return 0
	}

	var total float64
	maxPossible := float64(len(keywordsA))

	// Exact matches: one point per A-keyword, first B match only.
	for _, a := range keywordsA {
		for _, b := range keywordsB {
			if a == b {
				total++
				break
			}
		}
	}

	// Synonym matches. Identical keywords are skipped so exact matches are
	// not rewarded twice.
	for _, a := range keywordsA {
		synA := FindSynonyms(a)
		for _, b := range keywordsB {
			if a != b && intersects(synA, FindSynonyms(b)) {
				total += synonymWeight
				break
			}
		}
	}

	// Partial substring matches for compound words.
	for _, a := range keywordsA {
		for _, b := range keywordsB {
			if len(a) >= partialMinLen && len(b) >= partialMinLen && containsEither(a, b) {
				total += partialWeight
				break
			}
		}
	}

	if ctx := ClassifyContext(textA); ctx != ContextGeneral && ctx == ClassifyContext(textB) {
		total += contextBonus
	}

	return min(total/maxPossible, 1)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
