// Package storage defines the unified Store interface that abstracts all
// persistence operations. Two backends are provided: SQLite (default,
// zero-config) and PostgreSQL (production).
package storage

import (
	"context"

	"github.com/jkaninda/swapzo/internal/listing"
)

// Store is the unified persistence interface for Swapzo.
// It provides access to domain-specific sub-stores through accessor methods;
// the returned stores share the same underlying connection.
type Store interface {
	Profiles() listing.ProfileStore
	Offers() listing.OfferStore
	Needs() listing.NeedStore
	Digests() listing.DigestStore

	// Lifecycle.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// Driver returns the storage driver name ("sqlite" or "postgres").
	Driver() string
}

// DriverSQLite is the SQLite driver name and the default.
const DriverSQLite = "sqlite"

// DriverPostgres is the PostgreSQL driver name.
const DriverPostgres = "postgres"
