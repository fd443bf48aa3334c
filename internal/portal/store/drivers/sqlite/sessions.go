package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token_hash, user_subject, user_name, user_email, user_role, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash,
		s.Identity.Subject, s.Identity.DisplayName, s.Identity.Email, string(s.Identity.Role),
		s.CreatedAt.UnixNano(), s.ExpiresAt.UnixNano(),
	)
	return err
}

func (r *sessionsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, user_subject, user_name, user_email, user_role, created_at, expires_at
		FROM sessions
		WHERE token_hash = ? AND expires_at > ?`,
		hash, time.Now().UTC().UnixNano())

	var (
		s         domain.Session
		role      string
		createdAt int64
		expiresAt int64
	)
	err := row.Scan(&s.ID, &s.TokenHash,
		&s.Identity.Subject, &s.Identity.DisplayName, &s.Identity.Email, &role,
		&createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	s.Identity.Role = domain.Role(role)
	s.CreatedAt = time.Unix(0, createdAt).UTC()
	s.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteByTokenHash(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`,
		time.Now().UTC().UnixNano())
	return err
}
