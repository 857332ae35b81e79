package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileModel maps to the "profiles" table. Handle uniqueness doubles as the
// username reservation: claiming a handle is inserting a row with it.
type ProfileModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName string
	Handle      string `gorm:"not null;uniqueIndex"`
	Email       string
	Bio         string
	TrustScore  int `gorm:"not null;default:50"`
	XP          int `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ProfileModel) TableName() string { return "profiles" }

// OfferModel maps to the "offers" table.
type OfferModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (OfferModel) TableName() string { return "offers" }

// NeedModel maps to the "needs" table.
type NeedModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (NeedModel) TableName() string { return "needs" }

// MatchDigestModel maps to the "match_digests" table. One row per user,
// upserted on every scheduled recomputation.
type MatchDigestModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DirectCount       int       `gorm:"not null;default:0"`
	ChainCount        int       `gorm:"not null;default:0"`
	TopConfidence     float64   `gorm:"not null;default:0"`
	AverageConfidence float64   `gorm:"not null;default:0"`
	TotalComparisons  int       `gorm:"not null;default:0"`
	ComputedAt        time.Time
	NextRunAt         *time.Time `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (MatchDigestModel) TableName() string { return "match_digests" }
