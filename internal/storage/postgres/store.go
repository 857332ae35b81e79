package postgres

import (
	"context"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/jkaninda/swapzo/internal/listing"
	"github.com/jkaninda/swapzo/internal/storage"
)

// Store implements storage.Store backed by PostgreSQL.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger

	// Sub-store instances, created lazily on first access.
	mu       sync.Mutex
	profiles listing.ProfileStore
	offers   listing.OfferStore
	needs    listing.NeedStore
	digests  listing.DigestStore
}

// NewStore wraps an existing GORM connection.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// GormDB returns the underlying GORM DB for sub-store construction.
func (s *Store) GormDB() *gorm.DB { return s.db }

// Migrate runs GORM AutoMigrate for all tables.
func (s *Store) Migrate(_ context.Context) error {
	return AutoMigrate(s.db)
}

// Ping checks the connection for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return ping(ctx, s.db)
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return closeDB(s.db)
}

// Driver returns "postgres".
func (s *Store) Driver() string {
	return storage.DriverPostgres
}

func (s *Store) Profiles() listing.ProfileStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profiles == nil {
		s.profiles = NewProfileRepository(s.db)
	}
	return s.profiles
}

func (s *Store) Offers() listing.OfferStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offers == nil {
		s.offers = NewOfferRepository(s.db)
	}
	return s.offers
}

func (s *Store) Needs() listing.NeedStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.needs == nil {
		s.needs = NewNeedRepository(s.db)
	}
	return s.needs
}

func (s *Store) Digests() listing.DigestStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.digests == nil {
		s.digests = NewDigestRepository(s.db)
	}
	return s.digests
}

// compile-time interface check
var _ storage.Store = (*Store)(nil)
