package domain

import (
	"encoding/json"
	"time"
)

// PO request statuses. The store accepts any non-empty status string; these
// are the values the reviewing UI actually sets.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PORequest is a single purchase-order request row. The submitter identity
// is a snapshot taken at creation time; it does not track later role
// changes. Payload is stored verbatim and never interpreted.
type PORequest struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UserName  string          `json:"user_name"`
	UserEmail string          `json:"user_email"`
	UserRole  Role            `json:"user_role"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload"`
}

// PORequestSubmission is the input for creating a PO request.
type PORequestSubmission struct {
	UserName  string
	UserEmail string
	UserRole  Role
	Payload   json.RawMessage
}
