package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
)

type poRequestsRepo struct {
	db *sql.DB
}

// Timestamps are stored as unix nanoseconds so creation order survives the
// round trip exactly; SQLite's CURRENT_TIMESTAMP only has second precision.

func (r *poRequestsRepo) Create(ctx context.Context, sub domain.PORequestSubmission) (domain.PORequest, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO po_requests (created_at, user_name, user_email, user_role, status, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		now.UnixNano(), sub.UserName, sub.UserEmail, string(sub.UserRole),
		domain.StatusPending, string(sub.Payload),
	)
	if err != nil {
		return domain.PORequest{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.PORequest{}, err
	}

	return domain.PORequest{
		ID:        id,
		CreatedAt: now,
		UserName:  sub.UserName,
		UserEmail: sub.UserEmail,
		UserRole:  sub.UserRole,
		Status:    domain.StatusPending,
		Payload:   sub.Payload,
	}, nil
}

func (r *poRequestsRepo) List(ctx context.Context) ([]domain.PORequest, error) {
	rows, err := r.db.QueryContext(ctx, `
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
	// Single statement so the returned row is exactly the one this update
	// produced, even with concurrent writers.
	row := r.db.QueryRowContext(ctx, `
		UPDATE po_requests
		SET status = ?
		WHERE id = ?
		RETURNING id, created_at, user_name, user_email, user_role, status, payload`,
		status, id)

	req, err := scanPORequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PORequest{}, store.ErrNotFound
	}
	return req, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPORequest(row rowScanner) (domain.PORequest, error) {
	var (
		req       domain.PORequest
		createdAt int64
		role      string
		payload   string
	)

	err := row.Scan(&req.ID, &createdAt, &req.UserName, &req.UserEmail, &role, &req.Status, &payload)
	if err != nil {
		return domain.PORequest{}, err
	}

	req.CreatedAt = time.Unix(0, createdAt).UTC()
	req.UserRole = domain.Role(role)
	req.Payload = json.RawMessage(payload)
	return req, nil
}
