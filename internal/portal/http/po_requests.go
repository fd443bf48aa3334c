package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ingeniahq/po-portal/internal/portal/service"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/ingeniahq/po-portal/pkg/httpx"
	"github.com/ingeniahq/po-portal/pkg/slogx"
)

// maxPayloadBytes caps the opaque form payload. The payload is stored
// verbatim, so without a cap a single submission could bloat the table.
const maxPayloadBytes = 1 << 20

type PORequestsHandler struct {
	PORequests *service.PORequestService
}

// CreateResponse acknowledges a submission with the assigned id.
type CreateResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// HandleCreate accepts an arbitrary JSON payload from an authenticated
// submitter and records it as a pending request.
func (h *PORequestsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := identityFromContext(ctx)
	if !ok {
		ErrUnauthenticated.Write(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		ErrInvalidBody.Write(w)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		ErrInvalidBody.Write(w)
		return
	}

	created, err := h.PORequests.Submit(ctx, identity, body)
	if err != nil {
		log.Error("failed to create po request", "error", err)
		ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateResponse{OK: true, ID: created.ID})
}

// HandleList returns every request, newest first. Gated to the reviewing
// roles by the router.
func (h *PORequestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	requests, err := h.PORequests.List(ctx)
	if err != nil {
		log.Error("failed to list po requests", "error", err)
		ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, requests)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus sets the status of one request and returns the full
// updated record. The status value is required but otherwise not
// validated; transitions are unconstrained.
func (h *PORequestsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrRequestNotFound.Write(w)
		return
	}

	var body updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ErrInvalidBody.Write(w)
		return
	}
	if body.Status == "" {
		ErrMissingStatus.Write(w)
		return
	}

	updated, err := h.PORequests.SetStatus(ctx, id, body.Status)
	if errors.Is(err, store.ErrNotFound) {
		ErrRequestNotFound.Write(w)
		return
	}
	if err != nil {
		log.Error("failed to update po request status", "id", id, "error", err)
		ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, updated)
}
