package listing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/matching"
)

// Service coordinates profile/offer/need persistence and feeds the matching
// strategy. It carries the caller responsibilities the engine refuses to own:
// fetching snapshots, excluding the requester's own postings, and defaulting
// reputation fields so the engine never sees unvalidated profiles.
type Service struct {
	profiles ProfileStore
	offers   OfferStore
	needs    NeedStore
	strategy matching.Strategy
	logger   *slog.Logger
}

// NewService creates a listing Service. logger may be nil.
func NewService(profiles ProfileStore, offers OfferStore, needs NeedStore, strategy matching.Strategy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		profiles: profiles,
		offers:   offers,
		needs:    needs,
		strategy: strategy,
		logger:   logger,
	}
}

// Profiles exposes the underlying profile store.
func (s *Service) Profiles() ProfileStore { return s.profiles }

// Offers exposes the underlying offer store.
func (s *Service) Offers() OfferStore { return s.offers }

// Needs exposes the underlying need store.
func (s *Service) Needs() NeedStore { return s.needs }

// RegisterProfile validates and reserves the handle, then creates the
// profile with defaulted reputation fields.
func (s *Service) RegisterProfile(ctx context.Context, p *domain.Profile) error {
	p.Handle = strings.ToLower(p.Handle)
	if err := ValidateHandle(p.Handle); err != nil {
		return err
	}
	taken, err := s.profiles.HandleTaken(ctx, p.Handle)
	if err != nil {
		return fmt.Errorf("checking handle %q: %w", p.Handle, err)
	}
	if taken {
		return ErrHandleTaken
	}
	if p.ID == uuid.Nil {
		p.ID = domain.NewID()
	}
	if p.TrustScore == 0 {
		p.TrustScore = domain.DefaultTrustScore
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("creating profile %q: %w", p.Handle, err)
	}
	s.logger.Info("profile registered",
		slog.String("user_id", p.ID.String()),
		slog.String("handle", p.Handle),
	)
	return nil
}

// CheckHandle reports whether a handle can be claimed. When it cannot,
// suggestions offers available numbered variants.
func (s *Service) CheckHandle(ctx context.Context, handle string) (available bool, suggestions []string, err error) {
	handle = strings.ToLower(handle)
	if err := ValidateHandle(handle); err != nil {
		return false, nil, err
	}
	taken, err := s.profiles.HandleTaken(ctx, handle)
	if err != nil {
		return false, nil, fmt.Errorf("checking handle %q: %w", handle, err)
	}
	if !taken {
		return true, nil, nil
	}
	for _, cand := range SuggestHandles(handle, 3) {
		if t, err := s.profiles.HandleTaken(ctx, cand); err == nil && !t {
			suggestions = append(suggestions, cand)
		}
	}
	return false, suggestions, nil
}

// FindMatches assembles the marketplace snapshot for the given user and runs
// the configured matching strategy. Absence of postings, either the user's
// own or the pool's, yields an empty result, never an error.
func (s *Service) FindMatches(ctx context.Context, userID uuid.UUID) (*matching.Result, error) {
	in, err := s.BuildInput(ctx, userID)
	if err != nil {
		return nil, err
	}
	res, err := s.strategy.ComputeMatches(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.strategy.Name(), err)
	}
	s.logger.Info("matches computed",
		slog.String("user_id", userID.String()),
		slog.String("strategy", s.strategy.Name()),
		slog.Int("direct", len(res.Direct)),
		slog.Int("chain", len(res.Chain)),
	)
	return res, nil
}

// BuildInput fetches the user's own offer/need titles plus the global pool
// excluding the user's postings, each pool item enriched with its owner's
// profile snapshot.
func (s *Service) BuildInput(ctx context.Context, userID uuid.UUID) (matching.Input, error) {
	in := matching.Input{UserID: userID}

	own, err := s.offers.ListByUser(ctx, userID)
	if err != nil {
		return in, fmt.Errorf("listing user offers: %w", err)
	}
	for _, o := range own {
		if t := titleOf(o.Title, o.Description); t != "" {
			in.UserOffers = append(in.UserOffers, t)
		}
	}

	ownNeeds, err := s.needs.ListByUser(ctx, userID)
	if err != nil {
		return in, fmt.Errorf("listing user needs: %w", err)
	}
	for _, n := range ownNeeds {
		if t := titleOf(n.Title, n.Description); t != "" {
			in.UserNeeds = append(in.UserNeeds, t)
		}
	}

	profiles, err := s.profileSnapshots(ctx)
	if err != nil {
		return in, err
	}

	allOffers, err := s.offers.ListAll(ctx)
	if err != nil {
		return in, fmt.Errorf("listing pool offers: %w", err)
	}
	for _, o := range allOffers {
		if o.UserID == userID {
			continue
		}
		in.AllOffers = append(in.AllOffers, matching.OfferItem{
			ID:          o.ID,
			UserID:      o.UserID,
			Title:       o.Title,
			Description: o.Description,
			Owner:       ownerSnapshot(profiles, o.UserID),
		})
	}

	allNeeds, err := s.needs.ListAll(ctx)
	if err != nil {
		return in, fmt.Errorf("listing pool needs: %w", err)
	}
	for _, n := range allNeeds {
		if n.UserID == userID {
			continue
		}
		in.AllNeeds = append(in.AllNeeds, matching.NeedItem{
			ID:          n.ID,
			UserID:      n.UserID,
			Title:       n.Title,
			Description: n.Description,
			Owner:       ownerSnapshot(profiles, n.UserID),
		})
	}

	return in, nil
}

// ownerSnapshot resolves a pool item's owner. An owner missing from the
// profile store gets a defaulted anonymous snapshot rather than poisoning the
// engine with zero trust.
func ownerSnapshot(profiles map[uuid.UUID]matching.UserProfile, userID uuid.UUID) matching.UserProfile {
	if snap, ok := profiles[userID]; ok {
		return snap
	}
	return matching.UserProfile{
		ID:          userID,
		DisplayName: "Anonymous Swapper",
		TrustScore:  domain.DefaultTrustScore,
	}
}

// profileSnapshots loads every profile as a matching snapshot, keyed by user ID.
func (s *Service) profileSnapshots(ctx context.Context) (map[uuid.UUID]matching.UserProfile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	snaps := make(map[uuid.UUID]matching.UserProfile, len(profiles))
	for _, p := range profiles {
		snaps[p.ID] = snapshot(&p)
	}
	return snaps, nil
}

func snapshot(p *domain.Profile) matching.UserProfile {
	trust := p.TrustScore
	if trust == 0 {
		trust = domain.DefaultTrustScore
	}
	name := p.DisplayName
	if name == "" {
		name = "Anonymous Swapper"
	}
	return matching.UserProfile{
		ID:          p.ID,
		DisplayName: name,
		Handle:      p.Handle,
		TrustScore:  trust,
		XP:          p.XP,
	}
}

// titleOf prefers the title, falling back to the description the way listing
// snapshots always have.
func titleOf(title, description string) string {
	if title != "" {
		return title
	}
	return description
}
