// Package domain defines cross-cutting entity types used across the system.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTrustScore is the reputation assigned to a profile that has not yet
// completed any swaps. Mid-range so that new users are neither favored nor
// buried by the confidence blend.
const DefaultTrustScore = 50

// MaxTrustScore bounds the trust score. The store clamps on write; consumers
// may assume [0,100].
const MaxTrustScore = 100

// Profile is a user's identity and reputation snapshot.
// The matching engine receives read-only copies and never mutates them.
type Profile struct {
	ID          uuid.UUID
	DisplayName string
	Handle      string // Unique lower-case username, reserved at signup.
	Email       string
	Bio         string
	TrustScore  int // Bounded [0,100]. Default: DefaultTrustScore.
	XP          int // Monotonic non-negative experience counter.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Offer is something a user can provide in a swap.
type Offer struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Need is something a user wants in a swap. Symmetric to Offer.
type Need struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MatchDigest is the persisted summary of a scheduled match recomputation for
// one user. Only the summary is stored; individual candidates are transient
// and recomputed on demand.
type MatchDigest struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	DirectCount       int
	ChainCount        int
	TopConfidence     float64
	AverageConfidence float64
	TotalComparisons  int
	ComputedAt        time.Time
	NextRunAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewID generates a new random UUID.
func NewID() uuid.UUID {
	return uuid.New()
}
