package matching

import "testing"

func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"Python tutoring", "Python help"},
		{"Guitar lessons", "Guitar lessons for beginners"},
		{"yoga", "gym"},
		{"Dog walking", "Quantum physics"},
		{"a", "b"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, want within [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_EmptyInputIsZero(t *testing.T) {
	for _, p := range [][2]string{
		{"", "Python tutoring"},
		{"Python tutoring", ""},
		{"", ""},
		{"the and for", "Python tutoring"}, // normalizes to stop words only
	} {
		if got := Similarity(p[0], p[1]); got != 0 {
			t.Errorf("Similarity(%q, %q) = %v, want 0", p[0], p[1], got)
		}
	}
}

func TestSimilarity_SelfMatchDominates(t *testing.T) {
	const text = "Portfolio website development"
	self := Similarity(text, text)
	other := Similarity(text, "Guitar lessons")
	if self < other {
		t.Errorf("self similarity %v < unrelated similarity %v", self, other)
	}
}

func TestSimilarity_SynonymEquivalence(t *testing.T) {
	// Shared canonical keyword "python" must carry these over the match
	// threshold even though the surrounding words differ.
	got := Similarity("I need Python help", "I offer python tutoring")
	if got < DefaultThreshold {
		t.Errorf("Similarity = %v, want >= %v", got, DefaultThreshold)
	}
}

func TestSimilarity_SynonymPairScores(t *testing.T) {
	// "yoga" and "gym" share no text but sit in the same synonym group and
	// fitness context: 0.8 synonym + 0.5 context over a single keyword.
	if got := Similarity("yoga", "gym"); got != 1 {
		t.Errorf("Similarity(yoga, gym) = %v, want 1 (clamped)", got)
	}
}

func TestSimilarity_Asymmetric(t *testing.T) {
	// The denominator is keyword count of the first argument only. This is a
	// known property of the scoring design, not something to symmetrize.
	ab := Similarity("Python", "Python help")
	ba := Similarity("Python help", "Python")
	if ab == ba {
		t.Fatalf("expected asymmetric scores, got %v both ways", ab)
	}
	if ab != 1 {
		t.Errorf("Similarity(Python, Python help) = %v, want 1", ab)
	}
	if ba >= ab {
		t.Errorf("reverse similarity %v should be below %v", ba, ab)
	}
}

func TestSimilarity_ContextBonusIsFlat(t *testing.T) {
	// One keyword on each side, no textual overlap, shared fitness context:
	// the flat 0.5 bonus and 0.8 synonym score saturate the clamp. Preserved
	// as designed.
	short := Similarity("workout", "exercise")
	if short < 1 {
		t.Errorf("Similarity(workout, exercise) = %v, want saturated 1", short)
	}
}
