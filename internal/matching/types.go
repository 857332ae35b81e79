package matching

import "github.com/google/uuid"

// MatchType discriminates the two candidate variants.
type MatchType string

const (
	MatchDirect MatchType = "direct"
	MatchChain  MatchType = "chain"
)

// UserProfile is the read-only reputation snapshot the engine scores with.
// Snapshots are supplied by the caller, already validated and defaulted; the
// engine never re-fetches or mutates them.
type UserProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
	TrustScore  int       `json:"trust_score"`
	XP          int       `json:"xp"`
}

// OfferItem is one posting from the global offer pool, denormalized with its
// owner's profile so scoring needs no further lookups.
type OfferItem struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Owner       UserProfile `json:"owner"`
}

// NeedItem is one posting from the global need pool. Symmetric to OfferItem.
type NeedItem struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Owner       UserProfile `json:"owner"`
}

// Candidate is the tagged union over the two match variants. The only
// implementations are DirectCandidate and ChainCandidate; consumers switch on
// the concrete type (or Type()) and can handle both exhaustively.
type Candidate interface {
	Type() MatchType
	Score() float64
	Describe() string

	candidate() // seals the union
}

// DirectCandidate is a two-party cycle: the requester's offer satisfies the
// matched user's need and vice versa.
type DirectCandidate struct {
	UserOffer string `json:"user_offer"`
	UserNeed  string `json:"user_need"`

	MatchedUser  UserProfile `json:"matched_user"`
	MatchedOffer OfferItem   `json:"matched_user_offer"` // their offer covering our need
	MatchedNeed  NeedItem    `json:"matched_user_need"`  // their need covered by our offer

	Description     string  `json:"description"`
	Confidence      float64 `json:"confidence"`
	OfferSimilarity float64 `json:"offer_similarity"`
	NeedSimilarity  float64 `json:"need_similarity"`
}

func (c DirectCandidate) Type() MatchType  { return MatchDirect }
func (c DirectCandidate) Score() float64   { return c.Confidence }
func (c DirectCandidate) Describe() string { return c.Description }
func (DirectCandidate) candidate()         {}

// ChainCandidate is an N-party (N >= 3) cycle of offers and needs closing
// back to the requester.
type ChainCandidate struct {
	UserOffer string `json:"user_offer"`
	UserNeed  string `json:"user_need"`

	Participants []UserProfile `json:"participants"` // intermediate users, in chain order
	ChainLength  int           `json:"chain_length"` // >= 3

	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

func (c ChainCandidate) Type() MatchType  { return MatchChain }
func (c ChainCandidate) Score() float64   { return c.Confidence }
func (c ChainCandidate) Describe() string { return c.Description }
func (ChainCandidate) candidate()         {}

// Stats summarizes one matching invocation.
type Stats struct {
	// TotalComparisons is a cost estimate (offers x needs x pool offers),
	// not an exact count of similarity evaluations performed.
	TotalComparisons  int     `json:"total_comparisons"`
	Threshold         float64 `json:"threshold"`
	AverageConfidence float64 `json:"average_confidence"`
}

// Result is the aggregate outcome of one matching invocation. The direct and
// chain lists stay separate; both are sorted descending by confidence.
type Result struct {
	Direct []DirectCandidate `json:"direct_matches"`
	Chain  []ChainCandidate  `json:"chain_matches"`
	Stats  Stats             `json:"stats"`
}

// Input is one matching invocation's snapshot of the marketplace. The caller
// is responsible for enriching pool items with owner profiles and excluding
// the requester's own postings (the engine additionally skips UserID as a
// safety net).
type Input struct {
	UserID     uuid.UUID
	UserOffers []string
	UserNeeds  []string
	AllOffers  []OfferItem
	AllNeeds   []NeedItem
}
