package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jkaninda/okapi"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/listing"
)

// ProfileRequest is the JSON body for POST /v1/profiles.
type ProfileRequest struct {
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	Email       string `json:"email,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// ProfileUpdateRequest is the JSON body for PUT /v1/profiles/{id}.
// The handle is immutable once reserved and cannot be updated.
type ProfileUpdateRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Bio         string `json:"bio,omitempty"`
	TrustScore  *int   `json:"trust_score,omitempty"`
	XP          *int   `json:"xp,omitempty"`
}

// ProfileResponse is the JSON representation of a profile.
type ProfileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle"`
	Email       string    `json:"email,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	TrustScore  int       `json:"trust_score"`
	XP          int       `json:"xp"`
	CreatedAt   time.Time `json:"created_at"`
}

// UsernameCheckResponse is the JSON response for GET /v1/usernames/{handle}.
type UsernameCheckResponse struct {
	Handle      string   `json:"handle"`
	Available   bool     `json:"available"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID.String(),
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		Email:       p.Email,
		Bio:         p.Bio,
		TrustScore:  p.TrustScore,
		XP:          p.XP,
		CreatedAt:   p.CreatedAt,
	}
}

func (g *Gateway) handleProfileCreate(c *okapi.Context) error {
	if g.limited(c) {
		return c.AbortTooManyRequests("rate limit exceeded")
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.AbortBadRequest("invalid request body")
	}
	if req.Handle == "" {
		return c.AbortBadRequest("handle is required")
	}

	p := &domain.Profile{
		DisplayName: req.DisplayName,
		Handle:      req.Handle,
		Email:       req.Email,
		Bio:         req.Bio,
	}
	if err := g.svc.RegisterProfile(c.Context(), p); err != nil {
		if errors.Is(err, listing.ErrHandleTaken) {
			return c.JSON(http.StatusConflict, okapi.M{"error": "username already taken"})
		}
		var invalid *listing.InvalidHandleError
		if errors.As(err, &invalid) {
			return c.AbortBadRequest(invalid.Error())
		}
		g.logger.Error("profile registration failed", slog.String("error", err.Error()))
		return c.AbortInternalServerError("profile registration failed")
	}

	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

func (g *Gateway) handleProfileList(c *okapi.Context) error {
	profiles, err := g.svc.Profiles().List(c.Context())
	if err != nil {
		g.logger.Error("profile listing failed", slog.String("error", err.Error()))
		return c.AbortInternalServerError("profile listing failed")
	}
	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = toProfileResponse(&profiles[i])
	}
	return c.OK(resp)
}

func (g *Gateway) handleProfileGet(c *okapi.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.AbortBadRequest("invalid profile ID")
	}

	p, err := g.svc.Profiles().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": "profile not found"})
		}
		return c.AbortInternalServerError("profile lookup failed")
	}
	return c.OK(toProfileResponse(p))
}

func (g *Gateway) handleProfileUpdate(c *okapi.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.AbortBadRequest("invalid profile ID")
	}

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.AbortBadRequest("invalid request body")
	}

	p, err := g.svc.Profiles().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": "profile not found"})
		}
		return c.AbortInternalServerError("profile lookup failed")
	}

	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.Bio != "" {
		p.Bio = req.Bio
	}
	if req.TrustScore != nil {
		p.TrustScore = *req.TrustScore
	}
	if req.XP != nil {
		p.XP = *req.XP
	}

	if err := g.svc.Profiles().Update(c.Context(), p); err != nil {
		g.logger.Error("profile update failed",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()),
		)
		return c.AbortInternalServerError("profile update failed")
	}
	return c.OK(toProfileResponse(p))
}

func (g *Gateway) handleUsernameCheck(c *okapi.Context) error {
	handle := c.Param("handle")

	available, suggestions, err := g.svc.CheckHandle(c.Context(), handle)
	if err != nil {
		var invalid *listing.InvalidHandleError
		if errors.As(err, &invalid) {
			return c.AbortBadRequest(invalid.Error())
		}
		return c.AbortInternalServerError("username check failed")
	}

	return c.OK(UsernameCheckResponse{
		Handle:      handle,
		Available:   available,
		Suggestions: suggestions,
	})
}
