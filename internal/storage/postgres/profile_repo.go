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

// ProfileRepository implements listing.ProfileStore on GORM.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	model := toProfileModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return listing.ErrHandleTaken
		}
		return fmt.Errorf("creating profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var model ProfileModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p := toProfile(&model)
	return &p, nil
}

func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	var model ProfileModel
	err := r.db.WithContext(ctx).First(&model, "handle = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile by handle: %w", err)
	}
	p := toProfile(&model)
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	model := toProfileModel(p)
	res := r.db.WithContext(ctx).Model(&ProfileModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"display_name": model.DisplayName,
			"email":        model.Email,
			"bio":          model.Bio,
			"trust_score":  model.TrustScore,
			"xp":           model.XP,
		})
	if res.Error != nil {
		return fmt.Errorf("updating profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	var models []ProfileModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	out := make([]domain.Profile, 0, len(models))
	for i := range models {
		out = append(out, toProfile(&models[i]))
	}
	return out, nil
}

func (r *ProfileRepository) HandleTaken(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ProfileModel{}).
		Where("handle = ?", handle).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking handle: %w", err)
	}
	return count > 0, nil
}
