package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/listing"
)

// OfferRepository implements listing.OfferStore on GORM.
type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	if err := r.db.WithContext(ctx).Create(toOfferModel(o)).Error; err != nil {
		return fmt.Errorf("creating offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var model OfferModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting offer: %w", err)
	}
	o := toOffer(&model)
	return &o, nil
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	res := r.db.WithContext(ctx).Model(&OfferModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"title":       o.Title,
			"description": o.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("updating offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&OfferModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Offer, error) {
	var models []OfferModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing offers by user: %w", err)
	}
	return offersFromModels(models), nil
}

func (r *OfferRepository) ListAll(ctx context.Context) ([]domain.Offer, error) {
	var models []OfferModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return offersFromModels(models), nil
}

func offersFromModels(models []OfferModel) []domain.Offer {
	out := make([]domain.Offer, 0, len(models))
	for i := range models {
		out = append(out, toOffer(&models[i]))
	}
	return out
}
