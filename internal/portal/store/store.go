package store

import (
	"context"
	"errors"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
)

// ErrNotFound is returned when a referenced record does not exist. Callers
// use it to distinguish a bad identifier (404) from a genuine persistence
// fault (500).
var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface, implemented by the sqlite and
// postgres drivers. Every operation is a single statement, so no
// transaction surface is exposed.
type Store interface {
	PORequests() PORequests
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type PORequests interface {
	// Create inserts a new request with status "pending" and a
	// server-assigned id and created_at. The payload is written whole or
	// not at all; there is no partial write. A persistence fault surfaces
	// as an error with no retry.
	Create(ctx context.Context, sub domain.PORequestSubmission) (domain.PORequest, error)

	// List returns all requests ordered by created_at descending. No
	// pagination; request volume is assumed low.
	List(ctx context.Context) ([]domain.PORequest, error)

	// UpdateStatus sets the status of the request with the given id and
	// returns the full updated row. Returns ErrNotFound for an unknown id.
	// The status value itself is not validated here; any non-empty string
	// the caller passes is stored.
	UpdateStatus(ctx context.Context, id int64, status string) (domain.PORequest, error)
}

type Sessions interface {
	// Create persists a new session. The token hash must already be a
	// fingerprint; raw tokens never reach the store.
	Create(ctx context.Context, s domain.Session) error

	// GetByTokenHash returns the session with the given token fingerprint
	// if it has not expired. Returns ErrNotFound otherwise.
	GetByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteByTokenHash removes a session on logout. Deleting a session
	// that does not exist is not an error.
	DeleteByTokenHash(ctx context.Context, hash string) error

	// DeleteExpired removes all sessions past their expiry (housekeeping).
	DeleteExpired(ctx context.Context) error
}
