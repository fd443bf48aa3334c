package http

import (
	"fmt"
	"net/http"

	"github.com/ingeniahq/po-portal/pkg/httpx"
)

// APIError is the JSON error shape every failing endpoint returns. It
// implements error so handlers can pass it around before writing it.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Write writes the error to the response as JSON.
func (e *APIError) Write(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrUnauthenticated: no identity attached to the request.
	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthenticated",
		Message:    "not authenticated",
	}

	// ErrForbidden: identity present but its role is not in the route's set.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       "forbidden",
		Message:    "insufficient role",
	}

	// ErrMissingStatus: the status-update body carried no status value.
	ErrMissingStatus = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_request",
		Message:    "missing status",
	}

	// ErrInvalidBody: the request body was not valid JSON.
	ErrInvalidBody = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_request",
		Message:    "invalid request body",
	}

	// ErrRequestNotFound: no PO request exists with the referenced id.
	ErrRequestNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    "request not found",
	}

	// ErrServerError: persistence or other internal fault. The detail is
	// logged server-side and never leaked to the caller.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "server_error",
		Message:    "internal server error",
	}
)
