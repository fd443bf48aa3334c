// Package postgres implements the store on a pgx connection pool. The pool
// bounds concurrent database operations; pool exhaustion surfaces as an
// error on the affected request only.
package postgres

import (
	"context"

	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
	dsn  string
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		pool: pool,
		dsn:  dsn,
	}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) PORequests() store.PORequests { return &poRequestsRepo{pool: s.pool} }
func (s *Store) Sessions() store.Sessions     { return &sessionsRepo{pool: s.pool} }
