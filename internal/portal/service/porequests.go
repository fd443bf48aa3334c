package service

import (
	"context"
	"encoding/json"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
)

// PORequestService owns the PO request lifecycle: created pending by an
// authenticated submitter, read and re-statused by reviewers, never
// deleted.
type PORequestService struct {
	Store store.Store
}

// Submit records a new PO request carrying a snapshot of the submitter's
// identity. The payload is persisted verbatim; its shape is never
// inspected.
func (s *PORequestService) Submit(ctx context.Context, identity domain.Identity, payload json.RawMessage) (domain.PORequest, error) {
	return s.Store.PORequests().Create(ctx, domain.PORequestSubmission{
		UserName:  identity.DisplayName,
		UserEmail: identity.Email,
		UserRole:  identity.Role,
		Payload:   payload,
	})
}

// List returns every request, newest first.
func (s *PORequestService) List(ctx context.Context) ([]domain.PORequest, error) {
	return s.Store.PORequests().List(ctx)
}

// SetStatus updates a request's status and returns the updated record.
// Returns store.ErrNotFound when the id is unknown.
func (s *PORequestService) SetStatus(ctx context.Context, id int64, status string) (domain.PORequest, error) {
	return s.Store.PORequests().UpdateStatus(ctx, id, status)
}
