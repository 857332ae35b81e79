package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jkaninda/okapi"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/listing"
)

// PostingRequest is the JSON body for creating an offer or a need.
type PostingRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// PostingUpdateRequest is the JSON body for updating an offer or a need.
type PostingUpdateRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PostingResponse is the JSON representation of an offer or a need.
type PostingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// posting abstracts over offers and needs: both are UUID-keyed titled rows
// with the same CRUD shape, so one handler set serves both stores.
type posting struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
}

func toPostingResponse(p posting) PostingResponse {
	return PostingResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// postingOps adapts an OfferStore or a NeedStore to the shared handler set.
type postingOps struct {
	kind    string // "offer" or "need"
	create  func(ctx context.Context, p *posting) error
	get     func(ctx context.Context, id uuid.UUID) (posting, error)
	update  func(ctx context.Context, p posting) error
	delete  func(ctx context.Context, id uuid.UUID) error
	byUser  func(ctx context.Context, userID uuid.UUID) ([]posting, error)
	listAll func(ctx context.Context) ([]posting, error)
}

func (g *Gateway) offerOps() postingOps {
	store := g.svc.Offers()
	return postingOps{
		kind: "offer",
		create: func(ctx context.Context, p *posting) error {
			o := domain.Offer{ID: p.ID, UserID: p.UserID, Title: p.Title, Description: p.Description}
			if err := store.Create(ctx, &o); err != nil {
				return err
			}
			p.CreatedAt = o.CreatedAt
			return nil
		},
		get: func(ctx context.Context, id uuid.UUID) (posting, error) {
			o, err := store.Get(ctx, id)
			if err != nil {
				return posting{}, err
			}
			return offerPosting(*o), nil
		},
		update: func(ctx context.Context, p posting) error {
			return store.Update(ctx, &domain.Offer{ID: p.ID, Title: p.Title, Description: p.Description})
		},
		delete: store.Delete,
		byUser: func(ctx context.Context, userID uuid.UUID) ([]posting, error) {
			offers, err := store.ListByUser(ctx, userID)
			return offerPostings(offers), err
		},
		listAll: func(ctx context.Context) ([]posting, error) {
			offers, err := store.ListAll(ctx)
			return offerPostings(offers), err
		},
	}
}

func (g *Gateway) needOps() postingOps {
	store := g.svc.Needs()
	return postingOps{
		kind: "need",
		create: func(ctx context.Context, p *posting) error {
			n := domain.Need{ID: p.ID, UserID: p.UserID, Title: p.Title, Description: p.Description}
			if err := store.Create(ctx, &n); err != nil {
				return err
			}
			p.CreatedAt = n.CreatedAt
			return nil
		},
		get: func(ctx context.Context, id uuid.UUID) (posting, error) {
			n, err := store.Get(ctx, id)
			if err != nil {
				return posting{}, err
			}
			return needPosting(*n), nil
		},
		update: func(ctx context.Context, p posting) error {
			return store.Update(ctx, &domain.Need{ID: p.ID, Title: p.Title, Description: p.Description})
		},
		delete: store.Delete,
		byUser: func(ctx context.Context, userID uuid.UUID) ([]posting, error) {
			needs, err := store.ListByUser(ctx, userID)
			return needPostings(needs), err
		},
		listAll: func(ctx context.Context) ([]posting, error) {
			needs, err := store.ListAll(ctx)
			return needPostings(needs), err
		},
	}
}

func offerPosting(o domain.Offer) posting {
	return posting{ID: o.ID, UserID: o.UserID, Title: o.Title, Description: o.Description, CreatedAt: o.CreatedAt}
}

func offerPostings(offers []domain.Offer) []posting {
	out := make([]posting, len(offers))
	for i, o := range offers {
		out[i] = offerPosting(o)
	}
	return out
}

func needPosting(n domain.Need) posting {
	return posting{ID: n.ID, UserID: n.UserID, Title: n.Title, Description: n.Description, CreatedAt: n.CreatedAt}
}

func needPostings(needs []domain.Need) []posting {
	out := make([]posting, len(needs))
	for i, n := range needs {
		out[i] = needPosting(n)
	}
	return out
}

// --- Shared handlers ---

func (g *Gateway) handlePostingCreate(c *okapi.Context, ops postingOps) error {
	if g.limited(c) {
		return c.AbortTooManyRequests("rate limit exceeded")
	}

	var req PostingRequest
	if err := c.Bind(&req); err != nil {
		return c.AbortBadRequest("invalid request body")
	}
	if req.Title == "" {
		return c.AbortBadRequest("title is required")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.AbortBadRequest("invalid user_id")
	}
	if _, err := g.svc.Profiles().Get(c.Context(), userID); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.AbortBadRequest("user_id does not exist")
		}
		return c.AbortInternalServerError("owner lookup failed")
	}

	p := posting{
		ID:          domain.NewID(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := ops.create(c.Context(), &p); err != nil {
		g.logger.Error("posting creation failed",
			slog.String("kind", ops.kind),
			slog.String("error", err.Error()),
		)
		return c.AbortInternalServerError(ops.kind + " creation failed")
	}

	return c.JSON(http.StatusCreated, toPostingResponse(p))
}

func (g *Gateway) handlePostingList(c *okapi.Context, ops postingOps) error {
	var (
		postings []posting
		err      error
	)
	if raw := c.Request().URL.Query().Get("user_id"); raw != "" {
		userID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return c.AbortBadRequest("invalid user_id")
		}
		postings, err = ops.byUser(c.Context(), userID)
	} else {
		postings, err = ops.listAll(c.Context())
	}
	if err != nil {
		g.logger.Error("posting listing failed",
			slog.String("kind", ops.kind),
			slog.String("error", err.Error()),
		)
		return c.AbortInternalServerError(ops.kind + " listing failed")
	}

	resp := make([]PostingResponse, len(postings))
	for i, p := range postings {
		resp[i] = toPostingResponse(p)
	}
	return c.OK(resp)
}

func (g *Gateway) handlePostingGet(c *okapi.Context, ops postingOps) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.AbortBadRequest("invalid " + ops.kind + " ID")
	}

	p, err := ops.get(c.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": ops.kind + " not found"})
		}
		return c.AbortInternalServerError(ops.kind + " lookup failed")
	}
	return c.OK(toPostingResponse(p))
}

func (g *Gateway) handlePostingUpdate(c *okapi.Context, ops postingOps) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.AbortBadRequest("invalid " + ops.kind + " ID")
	}

	var req PostingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.AbortBadRequest("invalid request body")
	}

	p, err := ops.get(c.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": ops.kind + " not found"})
		}
		return c.AbortInternalServerError(ops.kind + " lookup failed")
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Description != "" {
		p.Description = req.Description
	}

	if err := ops.update(c.Context(), p); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": ops.kind + " not found"})
		}
		return c.AbortInternalServerError(ops.kind + " update failed")
	}
	return c.OK(toPostingResponse(p))
}

func (g *Gateway) handlePostingDelete(c *okapi.Context, ops postingOps) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.AbortBadRequest("invalid " + ops.kind + " ID")
	}

	if err := ops.delete(c.Context(), id); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, okapi.M{"error": ops.kind + " not found"})
		}
		return c.AbortInternalServerError(ops.kind + " deletion failed")
	}
	return c.OK(okapi.M{"status": "deleted"})
}

// --- Route bindings ---

func (g *Gateway) handleOfferCreate(c *okapi.Context) error { return g.handlePostingCreate(c, g.offerOps()) }
func (g *Gateway) handleOfferList(c *okapi.Context) error   { return g.handlePostingList(c, g.offerOps()) }
func (g *Gateway) handleOfferGet(c *okapi.Context) error    { return g.handlePostingGet(c, g.offerOps()) }
func (g *Gateway) handleOfferUpdate(c *okapi.Context) error { return g.handlePostingUpdate(c, g.offerOps()) }
func (g *Gateway) handleOfferDelete(c *okapi.Context) error { return g.handlePostingDelete(c, g.offerOps()) }

func (g *Gateway) handleNeedCreate(c *okapi.Context) error { return g.handlePostingCreate(c, g.needOps()) }
func (g *Gateway) handleNeedList(c *okapi.Context) error   { return g.handlePostingList(c, g.needOps()) }
func (g *Gateway) handleNeedGet(c *okapi.Context) error    { return g.handlePostingGet(c, g.needOps()) }
func (g *Gateway) handleNeedUpdate(c *okapi.Context) error { return g.handlePostingUpdate(c, g.needOps()) }
func (g *Gateway) handleNeedDelete(c *okapi.Context) error { return g.handlePostingDelete(c, g.needOps()) }
