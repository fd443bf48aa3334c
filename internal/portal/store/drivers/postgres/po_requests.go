package postgres

import (
	"context"
	"errors"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type poRequestsRepo struct {
	pool *pgxpool.Pool
}

func (r *poRequestsRepo) Create(ctx context.Context, sub domain.PORequestSubmission) (domain.PORequest, error) {
	req := domain.PORequest{
		UserName:  sub.UserName,
		UserEmail: sub.UserEmail,
		UserRole:  sub.UserRole,
		Payload:   sub.Payload,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO po_requests (user_name, user_email, user_role, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, status`,
		sub.UserName, sub.UserEmail, string(sub.UserRole), []byte(sub.Payload),
	).Scan(&req.ID, &req.CreatedAt, &req.Status)
	if err != nil {
		return domain.PORequest{}, err
	}

	return req, nil
}

func (r *poRequestsRepo) List(ctx context.Context) ([]domain.PORequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, user_name, user_email, user_role, status, payload
		FROM po_requests
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []domain.PORequest{}
	for rows.Next() {
		req, err := scanPORequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *poRequestsRepo) UpdateStatus(ctx context.Context, id int64, status string) (domain.PORequest, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE po_requests
		SET status = $2
		WHERE id = $1
		RETURNING id, created_at, user_name, user_email, user_role, status, payload`,
		id, status)

	req, err := scanPORequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PORequest{}, store.ErrNotFound
	}
	if err != nil {
		return domain.PORequest{}, err
	}
	return req, nil
}

func scanPORequest(row pgx.Row) (domain.PORequest, error) {
	var (
		req     domain.PORequest
		role    string
		payload []byte
	)

	err := row.Scan(&req.ID, &req.CreatedAt, &req.UserName, &req.UserEmail, &role, &req.Status, &payload)
	if err != nil {
		return domain.PORequest{}, err
	}

	req.CreatedAt = req.CreatedAt.UTC()
	req.UserRole = domain.Role(role)
	req.Payload = payload
	return req, nil
}
