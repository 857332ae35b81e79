package matching

import "strings"

// Synonym and context tables are process-wide constant data: built once at
// package init, never mutated, safe for concurrent lookups without locking.

// synonymGroup is one canonical concept and the terms considered equivalent
// to it. Groups are ordered; when a term appears in more than one group
// (e.g. "training" under both teaching and fitness), the earlier group wins.
type synonymGroup struct {
	canonical string
	terms     []string
}

var synonymGroups = []synonymGroup{
	{"javascript", []string{"js", "javascript", "node", "nodejs", "react", "vue", "angular"}},
	{"python", []string{"python", "py", "django", "flask", "pandas", "numpy"}},
	{"java", []string{"java", "spring", "springboot", "jsp", "servlet"}},
	{"website", []string{"website", "web", "site", "webpage", "webdev", "frontend", "backend"}},
	{"portfolio", []string{"portfolio", "showcase", "profile", "resume", "cv"}},
	{"design", []string{"design", "ui", "ux", "graphic", "visual", "creative"}},
	{"development", []string{"development", "dev", "coding", "programming", "building"}},
	{"teaching", []string{"teaching", "tutoring", "lessons", "training", "education", "learn"}},
	{"math", []string{"math", "mathematics", "calculus", "algebra", "geometry", "statistics"}},
	{"english", []string{"english", "grammar", "writing", "language", "literature"}},
	{"music", []string{"music", "guitar", "piano", "singing", "drums", "violin"}},
	{"fitness", []string{"fitness", "gym", "workout", "exercise", "training", "yoga"}},
	{"cooking", []string{"cooking", "baking", "chef", "recipe", "food", "culinary"}},
	{"art", []string{"art", "drawing", "painting", "sketch", "illustration", "digital art"}},
	{"photography", []string{"photography", "photo", "camera", "photoshoot", "editing"}},
	{"video", []string{"video", "editing", "filming", "youtube", "content", "production"}},
}

// synonymIndex maps each term to its group's term list. Built first-wins in
// group order so overlapping terms resolve deterministically.
var synonymIndex = func() map[string][]string {
	idx := make(map[string][]string)
	for _, g := range synonymGroups {
		for _, t := range g.terms {
			if _, seen := idx[t]; !seen {
				idx[t] = g.terms
			}
		}
	}
	return idx
}()

// FindSynonyms returns the synonym set containing word (case-insensitive).
// Every word is trivially synonymous with itself: unknown words yield a
// singleton set of the lower-cased word.
func FindSynonyms(word string) []string {
	lower := strings.ToLower(word)
	if terms, ok := synonymIndex[lower]; ok {
		return terms
	}
	return []string{lower}
}

// ContextGeneral is the sentinel returned when no topical context matches.
const ContextGeneral = "general"

// namedContext is a coarse topical classification defined by a keyword set.
type namedContext struct {
	name     string
	keywords map[string]struct{}
}

var contexts = []namedContext{
	{"programming", keywordSet("code", "programming", "development", "software", "app", "web", "python", "java", "javascript")},
	{"design", keywordSet("design", "graphic", "logo", "visual", "creative", "art", "ui", "ux")},
	{"education", keywordSet("teaching", "tutoring", "lessons", "learning", "education", "training")},
	{"music", keywordSet("music", "guitar", "piano", "singing", "instrument", "song")},
	{"fitness", keywordSet("fitness", "gym", "workout", "exercise", "yoga", "health")},
	{"business", keywordSet("business", "marketing", "sales", "consulting", "strategy")},
}

func keywordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// ClassifyContext extracts keywords from text and returns the first context
// whose keyword set intersects them, or ContextGeneral. First-match in
// declaration order, deliberately not best-match.
func ClassifyContext(text string) string {
	keywords := ExtractKeywords(text)
	for _, ctx := range contexts {
		for _, kw := range keywords {
			if _, ok := ctx.keywords[kw]; ok {
				return ctx.name
			}
		}
	}
	return ContextGeneral
}
