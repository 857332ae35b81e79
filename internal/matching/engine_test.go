package matching

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newTestEngine() *Engine {
	return NewEngine(Options{}, nil, nil)
}

// poolUser builds a counterpart with one offer and one need.
func poolUser(handle, offers, needs string, trust, xp int) (OfferItem, NeedItem) {
	p := UserProfile{
		ID:          uuid.New(),
		DisplayName: handle,
		Handle:      handle,
		TrustScore:  trust,
		XP:          xp,
	}
	offer := OfferItem{ID: uuid.New(), UserID: p.ID, Title: offers, Owner: p}
	need := NeedItem{ID: uuid.New(), UserID: p.ID, Title: needs, Owner: p}
	return offer, need
}

func TestComputeMatches_DirectSwap(t *testing.T) {
	offerB, needB := poolUser("swapper_b", "Guitar lessons for beginners", "Python help", 70, 200)

	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Python tutoring"},
		UserNeeds:  []string{"Guitar lessons"},
		AllOffers:  []OfferItem{offerB},
		AllNeeds:   []NeedItem{needB},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Direct) != 1 {
		t.Fatalf("direct matches = %d, want 1", len(res.Direct))
	}

	m := res.Direct[0]
	if m.MatchedUser.Handle != "swapper_b" {
		t.Errorf("matched user = %s, want swapper_b", m.MatchedUser.Handle)
	}
	if m.Confidence <= 0.4 || m.Confidence > 1 {
		t.Errorf("confidence = %v, want in (0.4, 1]", m.Confidence)
	}
	if m.Type() != MatchDirect {
		t.Errorf("match type = %s, want direct", m.Type())
	}
	pct := fmt.Sprintf("%d%%", int(m.Confidence*100+0.5))
	if !strings.Contains(m.Description, pct) {
		t.Errorf("description %q should embed the confidence percentage %s", m.Description, pct)
	}
}

func TestComputeMatches_NearIdenticalTitles(t *testing.T) {
	offerC, needC := poolUser("swapper_c", "Java", "Portfolio website", 60, 500)

	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Portfolio website development"},
		UserNeeds:  []string{"Java tutoring"},
		AllOffers:  []OfferItem{offerC},
		AllNeeds:   []NeedItem{needC},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Direct) != 1 {
		t.Fatalf("direct matches = %d, want 1 (synonym/substring tolerance)", len(res.Direct))
	}
	if res.Direct[0].MatchedUser.Handle != "swapper_c" {
		t.Errorf("matched user = %s, want swapper_c", res.Direct[0].MatchedUser.Handle)
	}
}

func TestComputeMatches_EmptyPool(t *testing.T) {
	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Python tutoring"},
		UserNeeds:  []string{"Guitar lessons"},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Direct) != 0 || len(res.Chain) != 0 {
		t.Errorf("matches = %d direct, %d chain, want none", len(res.Direct), len(res.Chain))
	}
	if res.Stats.AverageConfidence != 0 {
		t.Errorf("average confidence = %v, want 0", res.Stats.AverageConfidence)
	}
	if res.Stats.Threshold != DefaultThreshold {
		t.Errorf("threshold = %v, want %v", res.Stats.Threshold, DefaultThreshold)
	}
}

func TestComputeMatches_NoOwnPostings(t *testing.T) {
	userID := uuid.New()
	self := UserProfile{ID: userID, Handle: "me", TrustScore: 100, XP: 5000}
	offerB, needB := poolUser("swapper_b", "Guitar lessons", "Python tutoring", 70, 200)

	// A pool that wrongly includes the requester's own postings, which would
	// match perfectly.
	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     userID,
		UserOffers: []string{"Python tutoring"},
		UserNeeds:  []string{"Guitar lessons"},
		AllOffers: []OfferItem{
			{ID: uuid.New(), UserID: userID, Title: "Python tutoring", Owner: self},
			offerB,
		},
		AllNeeds: []NeedItem{
			{ID: uuid.New(), UserID: userID, Title: "Guitar lessons", Owner: self},
			needB,
		},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	for _, m := range res.Direct {
		if m.MatchedUser.ID == userID {
			t.Fatalf("self-match returned: %+v", m)
		}
	}
	if len(res.Direct) != 1 {
		t.Errorf("direct matches = %d, want 1 (swapper_b only)", len(res.Direct))
	}
}

func TestComputeMatches_DedupeKeepsHighestConfidence(t *testing.T) {
	offerB, needB := poolUser("swapper_b", "Guitar lessons", "Python help", 70, 200)

	// Both user offers qualify against the same counterpart; "Python" scores
	// a higher need similarity than "Python tutoring".
	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Python tutoring", "Python"},
		UserNeeds:  []string{"Guitar lessons"},
		AllOffers:  []OfferItem{offerB},
		AllNeeds:   []NeedItem{needB},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Direct) != 1 {
		t.Fatalf("direct matches = %d, want 1 after dedup", len(res.Direct))
	}
	if got := res.Direct[0].UserOffer; got != "Python" {
		t.Errorf("kept candidate from offer %q, want the higher-confidence \"Python\"", got)
	}
}

func TestComputeMatches_SortedAndCapped(t *testing.T) {
	in := Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Python tutoring"},
		UserNeeds:  []string{"Guitar lessons"},
	}
	// 15 qualifying counterparts with distinct trust scores so confidences
	// differ.
	for i := 0; i < 15; i++ {
		offer, need := poolUser(fmt.Sprintf("user_%02d", i), "Guitar lessons", "Python help", 40+i*4, 100*i)
		in.AllOffers = append(in.AllOffers, offer)
		in.AllNeeds = append(in.AllNeeds, need)
	}

	res, err := newTestEngine().ComputeMatches(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Direct) != DefaultMaxResults {
		t.Fatalf("direct matches = %d, want capped at %d", len(res.Direct), DefaultMaxResults)
	}
	for i := 1; i < len(res.Direct); i++ {
		if res.Direct[i].Confidence > res.Direct[i-1].Confidence {
			t.Fatalf("results not sorted descending at index %d: %v > %v",
				i, res.Direct[i].Confidence, res.Direct[i-1].Confidence)
		}
	}
}

func TestComputeMatches_ChainStub(t *testing.T) {
	// Chain matching is a declared extension point: it returns nothing for
	// any input until the cycle search lands.
	offerB, needB := poolUser("swapper_b", "Guitar lessons", "Python help", 90, 900)
	res, err := newTestEngine().ComputeMatches(context.Background(), Input{
		UserID:     uuid.New(),
		UserOffers: []string{"Python tutoring"},
		UserNeeds:  []string{"Guitar lessons"},
		AllOffers:  []OfferItem{offerB},
		AllNeeds:   []NeedItem{needB},
	})
	if err != nil {
		t.Fatalf("ComputeMatches() error: %v", err)
	}
	if len(res.Chain) != 0 {
		t.Errorf("chain matches = %d, want 0 (unimplemented stub)", len(res.Chain))
	}
}

func TestComputeMatches_StatsComparisons(t *testing.T) {
	in := Input{
		UserID:     uuid.New(),
		UserOffers: []string{"a thing", "another thing"},
		UserNeeds:  []string{"some need"},
	}
	for i := 0; i < 3; i++ {
		offer, need := poolUser(fmt.Sprintf("u%d", i), "x", "y", 50, 0)
		in.AllOffers = append(in.AllOffers, offer)
		in.AllNeeds = append(in.AllNeeds, need)
	}
	res, _ := newTestEngine().ComputeMatches(context.Background(), in)
	// offers x needs x pool offers: a cost estimate, not exact work.
	if got, want := res.Stats.TotalComparisons, 2*1*3; got != want {
		t.Errorf("total comparisons = %d, want %d", got, want)
	}
}

func TestEngineImplementsStrategy(t *testing.T) {
	var s Strategy = newTestEngine()
	if s.Name() != "deterministic" {
		t.Errorf("strategy name = %q", s.Name())
	}
}
