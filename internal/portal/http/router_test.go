package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/service"
	"github.com/ingeniahq/po-portal/internal/portal/store/drivers/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *Router
	sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sessions := &service.SessionService{Store: st, TTL: time.Hour}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter("test", st, logger)
	router.SessionService = sessions
	router.PORequestService = &service.PORequestService{Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, sessions: sessions}
}

// login mints a session directly and returns the cookie a browser would
// carry after the OAuth callback.
func (e *testEnv) login(t *testing.T, identity domain.Identity) *http.Cookie {
	t.Helper()

	token, _, err := e.sessions.Create(context.Background(), identity)
	require.NoError(t, err)

	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func (e *testEnv) do(method, target string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestMeAnonymous(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestMeAuthenticated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookie := env.login(t, domain.Identity{
		Subject:     "google-1",
		DisplayName: "Jordan Smith",
		Email:       "jordan@ingenia.com.au",
		Role:        domain.RoleEmployee,
	})

	rec := env.do(http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Jordan Smith", me.DisplayName)
	assert.Equal(t, "jordan@ingenia.com.au", me.Email)
	assert.Equal(t, "employee", me.Role)
}

func TestCreateRequiresAuth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/po-requests", `{"item":"laptop"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", errorCode(t, rec))
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	requester := env.login(t, domain.Identity{
		DisplayName: "Reg",
		Email:       "reg@example.com",
		Role:        domain.RoleRequester,
	})
	admin := env.login(t, domain.Identity{
		DisplayName: "Boss",
		Email:       "boss@ingenia.com",
		Role:        domain.RoleAdmin,
	})

	rec := env.do(http.MethodPost, "/api/po-requests", `{"item":"laptop","qty":2}`, requester)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.OK)
	assert.Positive(t, created.ID)

	rec = env.do(http.MethodGet, "/api/po-requests", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []domain.PORequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Reg", list[0].UserName)
	assert.Equal(t, "reg@example.com", list[0].UserEmail)
	assert.Equal(t, domain.RoleRequester, list[0].UserRole)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.JSONEq(t, `{"item":"laptop","qty":2}`, string(list[0].Payload))
}

func TestCreateEmptyBodyDefaultsToEmptyObject(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookie := env.login(t, domain.Identity{Email: "a@ingenia.co", Role: domain.RoleEmployee})
	finance := env.login(t, domain.Identity{Email: "fin@example.com", Role: domain.RoleFinance})

	rec := env.do(http.MethodPost, "/api/po-requests", "", cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/po-requests", "", finance)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []domain.PORequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.JSONEq(t, `{}`, string(list[0].Payload))
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookie := env.login(t, domain.Identity{Email: "a@ingenia.co", Role: domain.RoleEmployee})

	rec := env.do(http.MethodPost, "/api/po-requests", `{"item":`, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, rec))
}

func TestListForbiddenForNonReviewers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, role := range []domain.Role{domain.RoleEmployee, domain.RoleRequester} {
		cookie := env.login(t, domain.Identity{Email: string(role) + "@example.com", Role: role})

		rec := env.do(http.MethodGet, "/api/po-requests", "", cookie)
		require.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
		assert.Equal(t, "forbidden", errorCode(t, rec))
	}

	// Anonymous callers learn nothing about the role requirement.
	rec := env.do(http.MethodGet, "/api/po-requests", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", errorCode(t, rec))
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	requester := env.login(t, domain.Identity{Email: "reg@example.com", Role: domain.RoleRequester})
	finance := env.login(t, domain.Identity{Email: "fin@example.com", Role: domain.RoleFinance})

	rec := env.do(http.MethodPost, "/api/po-requests", `{"item":"chair"}`, requester)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/po-requests/%d/status", created.ID), `{"status":"approved"}`, finance)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.PORequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.JSONEq(t, `{"item":"chair"}`, string(updated.Payload))
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.login(t, domain.Identity{Email: "boss@ingenia.com", Role: domain.RoleAdmin})
	requester := env.login(t, domain.Identity{Email: "reg@example.com", Role: domain.RoleRequester})

	rec := env.do(http.MethodPost, "/api/po-requests", `{}`, requester)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Missing status value.
	rec = env.do(http.MethodPatch, "/api/po-requests/1/status", `{}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, rec))

	// Unknown id.
	rec = env.do(http.MethodPatch, "/api/po-requests/999/status", `{"status":"approved"}`, admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	// Non-numeric id.
	rec = env.do(http.MethodPatch, "/api/po-requests/abc/status", `{"status":"approved"}`, admin)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Requesters cannot review, even their own submissions.
	rec = env.do(http.MethodPatch, "/api/po-requests/1/status", `{"status":"approved"}`, requester)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookie := env.login(t, domain.Identity{Email: "a@ingenia.co", Role: domain.RoleEmployee})

	rec := env.do(http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			cleared = c.MaxAge < 0
		}
	}
	assert.True(t, cleared, "session cookie should be expired")

	// The session is gone server-side too, not just in the browser.
	rec = env.do(http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestLogoutWithoutSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestAuthFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/auth/failure", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "login_failed", errorCode(t, rec))
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStaleSessionCookieIsAnonymous(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookie := &http.Cookie{Name: SessionCookieName, Value: "no-such-token"}

	rec := env.do(http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = env.do(http.MethodPost, "/api/po-requests", `{}`, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
