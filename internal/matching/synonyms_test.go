package matching

import (
	"slices"
	"testing"
)

func TestFindSynonyms_KnownTerm(t *testing.T) {
	syns := FindSynonyms("Django")
	if !slices.Contains(syns, "python") {
		t.Errorf("FindSynonyms(Django) = %v, want set containing python", syns)
	}
}

func TestFindSynonyms_UnknownTermIsSelfSynonymous(t *testing.T) {
	syns := FindSynonyms("Gardening")
	if len(syns) != 1 || syns[0] != "gardening" {
		t.Errorf("FindSynonyms(Gardening) = %v, want [gardening]", syns)
	}
}

func TestFindSynonyms_OverlappingTermResolvesToFirstGroup(t *testing.T) {
	// "training" appears under both teaching and fitness; group order makes
	// teaching win, deterministically.
	syns := FindSynonyms("training")
	if !slices.Contains(syns, "tutoring") {
		t.Errorf("FindSynonyms(training) = %v, want the teaching group", syns)
	}
	if slices.Contains(syns, "gym") {
		t.Errorf("FindSynonyms(training) = %v, must not be the fitness group", syns)
	}
}

func TestClassifyContext(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Python web development", "programming"},
		{"Logo design for startups", "design"},
		{"Guitar lessons", "education"}, // "lessons" hits education before music
		{"Singing coach", "music"},
		{"Yoga sessions", "fitness"},
		{"Marketing strategy consulting", "business"},
		{"Dog walking", ContextGeneral},
		{"", ContextGeneral},
	}
	for _, tt := range tests {
		if got := ClassifyContext(tt.text); got != tt.want {
			t.Errorf("ClassifyContext(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
