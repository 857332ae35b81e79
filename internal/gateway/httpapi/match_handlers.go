package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jkaninda/okapi"

	"github.com/jkaninda/swapzo/internal/listing"
	"github.com/jkaninda/swapzo/internal/matching"
)

// MatchRequest is the JSON body for POST /v1/matches.
type MatchRequest struct {
	UserID string `json:"user_id"`
}

// MatchedUserResponse is the reputation snapshot attached to each candidate.
type MatchedUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	TrustScore  int    `json:"trust_score"`
	XP          int    `json:"xp"`
}

// DirectMatchResponse is a two-party swap candidate.
type DirectMatchResponse struct {
	UserOffer       string              `json:"user_offer"`
	UserNeed        string              `json:"user_need"`
	MatchedUser     MatchedUserResponse `json:"matched_user"`
	MatchedOffer    string              `json:"matched_user_offer"`
	MatchedNeed     string              `json:"matched_user_need"`
	Description     string              `json:"description"`
	Confidence      float64             `json:"confidence"`
	OfferSimilarity float64             `json:"offer_similarity"`
	NeedSimilarity  float64             `json:"need_similarity"`
}

// ChainMatchResponse is a multi-party swap cycle candidate.
type ChainMatchResponse struct {
	UserOffer    string                `json:"user_offer"`
	UserNeed     string                `json:"user_need"`
	Participants []MatchedUserResponse `json:"participants"`
	ChainLength  int                   `json:"chain_length"`
	Description  string                `json:"description"`
	Confidence   float64               `json:"confidence"`
}

// MatchStatsResponse summarizes one matching run.
type MatchStatsResponse struct {
	TotalComparisons  int     `json:"total_comparisons"`
	Threshold         float64 `json:"threshold"`
	AverageConfidence float64 `json:"average_confidence"`
}

// MatchResponse is the JSON response for POST /v1/matches.
type MatchResponse struct {
	UserID        string                `json:"user_id"`
	CorrelationID string                `json:"correlation_id"`
	Direct        []DirectMatchResponse `json:"direct_matches"`
	Chain         []ChainMatchResponse  `json:"chain_matches"`
	Stats         MatchStatsResponse    `json:"stats"`
}

// DigestResponse is the JSON representation of a scheduled match digest.
type DigestResponse struct {
	UserID            string     `json:"user_id"`
	DirectCount       int        `json:"direct_count"`
	ChainCount        int        `json:"chain_count"`
	TopConfidence     float64    `json:"top_confidence"`
	AverageConfidence float64    `json:"average_confidence"`
	TotalComparisons  int        `json:"total_comparisons"`
	ComputedAt        time.Time  `json:"computed_at"`
	NextRunAt         *time.Time `json:"next_run_at,omitempty"`
}

func toMatchedUserResponse(p matching.UserProfile) MatchedUserResponse {
	return MatchedUserResponse{
		ID:          p.ID.String(),
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		TrustScore:  p.TrustScore,
		XP:          p.XP,
	}
}

func toMatchResponse(userID uuid.UUID, correlationID string, res *matching.Result) MatchResponse {
	direct := make([]DirectMatchResponse, len(res.Direct))
	for i, d := range res.Direct {
		direct[i] = DirectMatchResponse{
			UserOffer:       d.UserOffer,
			UserNeed:        d.UserNeed,
			MatchedUser:     toMatchedUserResponse(d.MatchedUser),
			MatchedOffer:    d.MatchedOffer.Title,
			MatchedNeed:     d.MatchedNeed.Title,
			Description:     d.Description,
			Confidence:      d.Confidence,
			OfferSimilarity: d.OfferSimilarity,
			NeedSimilarity:  d.NeedSimilarity,
		}
	}
	chain := make([]ChainMatchResponse, len(res.Chain))
	for i, ch := range res.Chain {
		participants := make([]MatchedUserResponse, len(ch.Participants))
		for j, p := range ch.Participants {
			participants[j] = toMatchedUserResponse(p)
		}
		chain[i] = ChainMatchResponse{
			UserOffer:    ch.UserOffer,
			UserNeed:     ch.UserNeed,
			Participants: participants,
			ChainLength:  ch.ChainLength,
			Description:  ch.Description,
			Confidence:   ch.Confidence,
		}
	}
	return MatchResponse{
		UserID:        userID.String(),
		CorrelationID: correlationID,
		Direct:        direct,
		Chain:         chain,
		Stats: MatchStatsResponse{
			TotalComparisons:  res.Stats.TotalComparisons,
			Threshold:         res.Stats.Threshold,
			AverageConfidence: res.Stats.AverageConfidence,
		},
	}
}

func (g *Gateway) handleMatchCompute(c *okapi.Context) error {
	if g.limited(c) {
		return c.AbortTooManyRequests("rate limit exceeded")
	}

	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return c.AbortBadRequest("invalid request body")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.AbortBadRequest("invalid user_id")
	}

	correlationID := newCorrelationID()
	started := time.Now()

	res, err := g.svc.FindMatches(c.Context(), userID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": "profile not found"})
		}
		g.logger.Error("match computation failed",
			slog.String("correlation_id", correlationID),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return c.AbortInternalServerError("match computation failed")
	}

	g.logger.Info("match computation completed",
		slog.String("correlation_id", correlationID),
		slog.String("user_id", userID.String()),
		slog.Int("direct_matches", len(res.Direct)),
		slog.Int("chain_matches", len(res.Chain)),
		slog.Duration("duration", time.Since(started)),
	)

	return c.OK(toMatchResponse(userID, correlationID, res))
}

func (g *Gateway) handleDigestGet(c *okapi.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return c.AbortBadRequest("invalid user ID")
	}

	d, err := g.digests.GetByUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": "no digest computed for user"})
		}
		return c.AbortInternalServerError("digest lookup failed")
	}

	return c.OK(DigestResponse{
		UserID:            d.UserID.String(),
		DirectCount:       d.DirectCount,
		ChainCount:        d.ChainCount,
		TopConfidence:     d.TopConfidence,
		AverageConfidence: d.AverageConfidence,
		TotalComparisons:  d.TotalComparisons,
		ComputedAt:        d.ComputedAt,
		NextRunAt:         d.NextRunAt,
	})
}
