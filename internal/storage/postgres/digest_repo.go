package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/listing"
)

// DigestRepository implements listing.DigestStore on GORM.
type DigestRepository struct {
	db *gorm.DB
}

func NewDigestRepository(db *gorm.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

// Upsert inserts or replaces the digest row for the digest's user. One row
// per user, keyed by the unique index on user_id.
func (r *DigestRepository) Upsert(ctx context.Context, d *domain.MatchDigest) error {
	if d.ID == uuid.Nil {
		d.ID = domain.NewID()
	}
	model := toDigestModel(d)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"direct_count",
			"chain_count",
			"top_confidence",
			"average_confidence",
			"total_comparisons",
			"computed_at",
			"next_run_at",
			"updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting match digest: %w", err)
	}
	return nil
}

func (r *DigestRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.MatchDigest, error) {
	var model MatchDigestModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting match digest: %w", err)
	}
	d := toDigest(&model)
	return &d, nil
}

// ListDue returns digests whose next scheduled run is at or before now.
func (r *DigestRepository) ListDue(ctx context.Context, now time.Time) ([]domain.MatchDigest, error) {
	var models []MatchDigestModel
	err := r.db.WithContext(ctx).
		Where("next_run_at IS NOT NULL AND next_run_at <= ?", now).
		Order("next_run_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing due digests: %w", err)
	}
	out := make([]domain.MatchDigest, 0, len(models))
	for i := range models {
		out = append(out, toDigest(&models[i]))
	}
	return out, nil
}
