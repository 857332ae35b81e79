package listing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/matching"
)

// --- In-memory fakes ---

type fakeProfileStore struct {
	profiles map[uuid.UUID]domain.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (f *fakeProfileStore) Create(_ context.Context, p *domain.Profile) error {
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfileStore) Get(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfileStore) GetByHandle(_ context.Context, handle string) (*domain.Profile, error) {
	for _, p := range f.profiles {
		if p.Handle == handle {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeProfileStore) Update(_ context.Context, p *domain.Profile) error {
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfileStore) List(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfileStore) HandleTaken(_ context.Context, handle string) (bool, error) {
	for _, p := range f.profiles {
		if p.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

type fakeOfferStore struct {
	offers []domain.Offer
}

func (f *fakeOfferStore) Create(_ context.Context, o *domain.Offer) error {
	f.offers = append(f.offers, *o)
	return nil
}

func (f *fakeOfferStore) Get(_ context.Context, id uuid.UUID) (*domain.Offer, error) {
	for _, o := range f.offers {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeOfferStore) Update(_ context.Context, _ *domain.Offer) error { return nil }
func (f *fakeOfferStore) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

func (f *fakeOfferStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Offer, error) {
	var out []domain.Offer
	for _, o := range f.offers {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOfferStore) ListAll(_ context.Context) ([]domain.Offer, error) {
	return f.offers, nil
}

type fakeNeedStore struct {
	needs []domain.Need
}

func (f *fakeNeedStore) Create(_ context.Context, n *domain.Need) error {
	f.needs = append(f.needs, *n)
	return nil
}

func (f *fakeNeedStore) Get(_ context.Context, id uuid.UUID) (*domain.Need, error) {
	for _, n := range f.needs {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeNeedStore) Update(_ context.Context, _ *domain.Need) error { return nil }
func (f *fakeNeedStore) Delete(_ context.Context, _ uuid.UUID) error   { return nil }

func (f *fakeNeedStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Need, error) {
	var out []domain.Need
	for _, n := range f.needs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNeedStore) ListAll(_ context.Context) ([]domain.Need, error) {
	return f.needs, nil
}

// --- Tests ---

func newTestService(profiles *fakeProfileStore, offers *fakeOfferStore, needs *fakeNeedStore) *Service {
	engine := matching.NewEngine(matching.Options{}, nil, nil)
	return NewService(profiles, offers, needs, engine, nil)
}

func seedUser(t *testing.T, profiles *fakeProfileStore, offers *fakeOfferStore, needs *fakeNeedStore,
	handle, offerTitle, needTitle string, trust, xp int) uuid.UUID {
	t.Helper()
	id := domain.NewID()
	profiles.profiles[id] = domain.Profile{
		ID: id, DisplayName: handle, Handle: handle, TrustScore: trust, XP: xp,
	}
	if offerTitle != "" {
		offers.offers = append(offers.offers, domain.Offer{ID: domain.NewID(), UserID: id, Title: offerTitle})
	}
	if needTitle != "" {
		needs.needs = append(needs.needs, domain.Need{ID: domain.NewID(), UserID: id, Title: needTitle})
	}
	return id
}

func TestRegisterProfile(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := newTestService(profiles, &fakeOfferStore{}, &fakeNeedStore{})

	p := &domain.Profile{DisplayName: "John", Handle: "JohnDoe"}
	if err := svc.RegisterProfile(context.Background(), p); err != nil {
		t.Fatalf("RegisterProfile() error: %v", err)
	}
	if p.Handle != "johndoe" {
		t.Errorf("handle = %q, want lower-cased johndoe", p.Handle)
	}
	if p.TrustScore != domain.DefaultTrustScore {
		t.Errorf("trust score = %d, want defaulted %d", p.TrustScore, domain.DefaultTrustScore)
	}
	if p.ID == uuid.Nil {
		t.Error("expected generated ID")
	}

	// Second registration with the same handle must fail.
	err := svc.RegisterProfile(context.Background(), &domain.Profile{Handle: "johndoe"})
	if err != ErrHandleTaken {
		t.Errorf("duplicate registration error = %v, want ErrHandleTaken", err)
	}
}

func TestRegisterProfile_RejectsInvalidHandle(t *testing.T) {
	svc := newTestService(newFakeProfileStore(), &fakeOfferStore{}, &fakeNeedStore{})
	if err := svc.RegisterProfile(context.Background(), &domain.Profile{Handle: "admin"}); err == nil {
		t.Error("expected reserved-handle rejection")
	}
}

func TestCheckHandle_SuggestsAlternatives(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := newTestService(profiles, &fakeOfferStore{}, &fakeNeedStore{})

	if err := svc.RegisterProfile(context.Background(), &domain.Profile{Handle: "johndoe"}); err != nil {
		t.Fatalf("RegisterProfile() error: %v", err)
	}

	available, suggestions, err := svc.CheckHandle(context.Background(), "johndoe")
	if err != nil {
		t.Fatalf("CheckHandle() error: %v", err)
	}
	if available {
		t.Error("handle should be unavailable")
	}
	if len(suggestions) == 0 {
		t.Error("expected suggestions for a taken handle")
	}

	available, _, err = svc.CheckHandle(context.Background(), "janedoe")
	if err != nil {
		t.Fatalf("CheckHandle() error: %v", err)
	}
	if !available {
		t.Error("untaken handle should be available")
	}
}

func TestBuildInput_ExcludesOwnPostings(t *testing.T) {
	profiles := newFakeProfileStore()
	offers := &fakeOfferStore{}
	needs := &fakeNeedStore{}
	svc := newTestService(profiles, offers, needs)

	me := seedUser(t, profiles, offers, needs, "me", "Python tutoring", "Guitar lessons", 50, 0)
	seedUser(t, profiles, offers, needs, "other", "Guitar lessons", "Python help", 70, 200)

	in, err := svc.BuildInput(context.Background(), me)
	if err != nil {
		t.Fatalf("BuildInput() error: %v", err)
	}
	if len(in.UserOffers) != 1 || in.UserOffers[0] != "Python tutoring" {
		t.Errorf("user offers = %v", in.UserOffers)
	}
	if len(in.AllOffers) != 1 || len(in.AllNeeds) != 1 {
		t.Fatalf("pool = %d offers, %d needs; own postings not excluded", len(in.AllOffers), len(in.AllNeeds))
	}
	if in.AllOffers[0].Owner.Handle != "other" {
		t.Errorf("pool offer owner = %q, want enriched profile", in.AllOffers[0].Owner.Handle)
	}
	if in.AllOffers[0].Owner.TrustScore != 70 {
		t.Errorf("pool offer owner trust = %d, want 70", in.AllOffers[0].Owner.TrustScore)
	}
}

func TestBuildInput_DefaultsMissingOwner(t *testing.T) {
	profiles := newFakeProfileStore()
	offers := &fakeOfferStore{}
	needs := &fakeNeedStore{}
	svc := newTestService(profiles, offers, needs)

	// An offer whose owner has no profile row.
	offers.offers = append(offers.offers, domain.Offer{ID: domain.NewID(), UserID: domain.NewID(), Title: "Mystery offer"})

	in, err := svc.BuildInput(context.Background(), domain.NewID())
	if err != nil {
		t.Fatalf("BuildInput() error: %v", err)
	}
	if len(in.AllOffers) != 1 {
		t.Fatalf("pool offers = %d, want 1", len(in.AllOffers))
	}
	owner := in.AllOffers[0].Owner
	if owner.TrustScore != domain.DefaultTrustScore || owner.DisplayName != "Anonymous Swapper" {
		t.Errorf("missing owner snapshot = %+v, want defaulted", owner)
	}
}

func TestFindMatches_EndToEnd(t *testing.T) {
	profiles := newFakeProfileStore()
	offers := &fakeOfferStore{}
	needs := &fakeNeedStore{}
	svc := newTestService(profiles, offers, needs)

	me := seedUser(t, profiles, offers, needs, "me", "Python tutoring", "Guitar lessons", 50, 0)
	seedUser(t, profiles, offers, needs, "swapper_b", "Guitar lessons for beginners", "Python help", 70, 200)

	res, err := svc.FindMatches(context.Background(), me)
	if err != nil {
		t.Fatalf("FindMatches() error: %v", err)
	}
	if len(res.Direct) != 1 {
		t.Fatalf("direct matches = %d, want 1", len(res.Direct))
	}
	if res.Direct[0].MatchedUser.Handle != "swapper_b" {
		t.Errorf("matched user = %q, want swapper_b", res.Direct[0].MatchedUser.Handle)
	}
}

func TestFindMatches_NoPostings(t *testing.T) {
	svc := newTestService(newFakeProfileStore(), &fakeOfferStore{}, &fakeNeedStore{})
	res, err := svc.FindMatches(context.Background(), domain.NewID())
	if err != nil {
		t.Fatalf("FindMatches() error: %v", err)
	}
	if len(res.Direct) != 0 || len(res.Chain) != 0 {
		t.Errorf("expected empty result, got %d direct / %d chain", len(res.Direct), len(res.Chain))
	}
}
