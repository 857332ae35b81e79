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

// NeedRepository implements listing.NeedStore on GORM.
type NeedRepository struct {
	db *gorm.DB
}

func NewNeedRepository(db *gorm.DB) *NeedRepository {
	return &NeedRepository{db: db}
}

func (r *NeedRepository) Create(ctx context.Context, n *domain.Need) error {
	if err := r.db.WithContext(ctx).Create(toNeedModel(n)).Error; err != nil {
		return fmt.Errorf("creating need: %w", err)
	}
	return nil
}

func (r *NeedRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Need, error) {
	var model NeedModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting need: %w", err)
	}
	n := toNeed(&model)
	return &n, nil
}

func (r *NeedRepository) Update(ctx context.Context, n *domain.Need) error {
	res := r.db.WithContext(ctx).Model(&NeedModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"title":       n.Title,
			"description": n.Description,
		})
	if res.Error != nil {
		return fmt.Errorf("updating need: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *NeedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&NeedModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting need: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *NeedRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Need, error) {
	var models []NeedModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing needs by user: %w", err)
	}
	return needsFromModels(models), nil
}

func (r *NeedRepository) ListAll(ctx context.Context) ([]domain.Need, error) {
	var models []NeedModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing needs: %w", err)
	}
	return needsFromModels(models), nil
}

func needsFromModels(models []NeedModel) []domain.Need {
	out := make([]domain.Need, 0, len(models))
	for i := range models {
		out = append(out, toNeed(&models[i]))
	}
	return out
}
