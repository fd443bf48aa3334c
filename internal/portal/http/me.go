package http

import (
	"net/http"

	"github.com/ingeniahq/po-portal/pkg/httpx"
)

// MeResponse is the identity payload returned to the browser.
type MeResponse struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// MeHandler returns the current identity, or a JSON null when the request
// carries no session. Anonymous callers get 200, not 401, so the frontend
// can probe login state without error handling.
type MeHandler struct{}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)

	identity, ok := identityFromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MeResponse{
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		Role:        identity.Role.String(),
	})
}
