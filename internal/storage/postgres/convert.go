package postgres

import (
	"github.com/jkaninda/swapzo/internal/domain"
)

func clampTrust(score int) int {
	if score < 0 {
		return 0
	}
	if score > domain.MaxTrustScore {
		return domain.MaxTrustScore
	}
	return score
}

func floorXP(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp
}

func toProfileModel(p *domain.Profile) *ProfileModel {
	return &ProfileModel{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Handle:      p.Handle,
		Email:       p.Email,
		Bio:         p.Bio,
		TrustScore:  clampTrust(p.TrustScore),
		XP:          floorXP(p.XP),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProfile(m *ProfileModel) domain.Profile {
	return domain.Profile{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		Handle:      m.Handle,
		Email:       m.Email,
		Bio:         m.Bio,
		TrustScore:  m.TrustScore,
		XP:          m.XP,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toOfferModel(o *domain.Offer) *OfferModel {
	return &OfferModel{
		ID:          o.ID,
		UserID:      o.UserID,
		Title:       o.Title,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOffer(m *OfferModel) domain.Offer {
	return domain.Offer{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toNeedModel(n *domain.Need) *NeedModel {
	return &NeedModel{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toNeed(m *NeedModel) domain.Need {
	return domain.Need{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDigestModel(d *domain.MatchDigest) *MatchDigestModel {
	return &MatchDigestModel{
		ID:                d.ID,
		UserID:            d.UserID,
		DirectCount:       d.DirectCount,
		ChainCount:        d.ChainCount,
		TopConfidence:     d.TopConfidence,
		AverageConfidence: d.AverageConfidence,
		TotalComparisons:  d.TotalComparisons,
		ComputedAt:        d.ComputedAt,
		NextRunAt:         d.NextRunAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toDigest(m *MatchDigestModel) domain.MatchDigest {
	return domain.MatchDigest{
		ID:                m.ID,
		UserID:            m.UserID,
		DirectCount:       m.DirectCount,
		ChainCount:        m.ChainCount,
		TopConfidence:     m.TopConfidence,
		AverageConfidence: m.AverageConfidence,
		TotalComparisons:  m.TotalComparisons,
		ComputedAt:        m.ComputedAt,
		NextRunAt:         m.NextRunAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
