package postgres

import (
	"context"
	"errors"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionsRepo struct {
	pool *pgxpool.Pool
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, token_hash, user_subject, user_name, user_email, user_role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TokenHash,
		s.Identity.Subject, s.Identity.DisplayName, s.Identity.Email, string(s.Identity.Role),
		s.CreatedAt, s.ExpiresAt,
	)
	return err
}

func (r *sessionsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, token_hash, user_subject, user_name, user_email, user_role, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1 AND expires_at > NOW()`,
		hash)

	var (
		s    domain.Session
		role string
	)
	err := row.Scan(&s.ID, &s.TokenHash,
		&s.Identity.Subject, &s.Identity.DisplayName, &s.Identity.Email, &role,
		&s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	s.Identity.Role = domain.Role(role)
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteByTokenHash(ctx context.Context, hash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hash)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	return err
}
