package matching

import (
	"strings"
	"unicode"
)

// stopWords are common function words discarded during keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "day": {}, "get": {}, "has": {},
	"him": {}, "his": {}, "how": {}, "man": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "boy": {},
	"did": {}, "its": {}, "let": {}, "put": {}, "say": {}, "she": {},
	"too": {}, "use": {},
}

// Normalize lower-cases text, replaces every non-word character with a space,
// and collapses whitespace runs. Empty input yields the empty string.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractKeywords normalizes text and returns unigram keywords followed by
// adjacent-word bigram phrases. Tokens of length <= 2 are dropped before
// anything else; unigrams additionally exclude stop words, and a bigram is
// kept only when neither of its words is a stop word. Duplicates are allowed
// and order is preserved. Input with no signal yields an empty slice, which
// callers must treat as "no keywords", never as an error.
func ExtractKeywords(text string) []string {
	words := make([]string, 0, 8)
	for _, w := range strings.Fields(Normalize(text)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	keywords := make([]string, 0, len(words)*2)
	for _, w := range words {
		if !isStopWord(w) {
			keywords = append(keywords, w)
		}
	}

	// Bigrams are built from the length-filtered token stream, before the
	// stop-word filter, so "lessons for beginners" still yields
	// "lessons beginners"-style adjacency from its surviving tokens.
	for i := 0; i+1 < len(words); i++ {
		if !isStopWord(words[i]) && !isStopWord(words[i+1]) {
			keywords = append(keywords, words[i]+" "+words[i+1])
		}
	}
	return keywords
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
