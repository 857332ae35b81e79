// Package listing owns the marketplace's profiles, offers, and needs: store
// contracts, username rules, and the service that assembles matching input
// snapshots for the engine.
package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jkaninda/swapzo/internal/domain"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrHandleTaken is returned when a username is already reserved by
	// another user.
	ErrHandleTaken = errors.New("username already taken")
)

// ProfileStore is the persistence interface for user profiles and username
// reservation. Implementations clamp TrustScore to [0,100] and floor XP at 0
// on write, so readers may assume bounded values.
type ProfileStore interface {
	Create(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) error
	List(ctx context.Context) ([]domain.Profile, error)
	HandleTaken(ctx context.Context, handle string) (bool, error)
}

// OfferStore is the persistence interface for offers.
type OfferStore interface {
	Create(ctx context.Context, o *domain.Offer) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	Update(ctx context.Context, o *domain.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Offer, error)
	ListAll(ctx context.Context) ([]domain.Offer, error)
}

// NeedStore is the persistence interface for needs.
type NeedStore interface {
	Create(ctx context.Context, n *domain.Need) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Need, error)
	Update(ctx context.Context, n *domain.Need) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Need, error)
	ListAll(ctx context.Context) ([]domain.Need, error)
}

// DigestStore is the persistence interface for scheduled match digests.
type DigestStore interface {
	Upsert(ctx context.Context, d *domain.MatchDigest) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.MatchDigest, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.MatchDigest, error)
}
