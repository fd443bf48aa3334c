package http

import (
	"net/http"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/service"
	"github.com/ingeniahq/po-portal/pkg/cryptox"
	"github.com/ingeniahq/po-portal/pkg/httpx"
	"github.com/ingeniahq/po-portal/pkg/slogx"
)

// stateCookieName holds the anti-CSRF state between the login redirect and
// the provider callback.
const stateCookieName = "po_oauth_state"

const stateCookieTTL = 10 * time.Minute

type AuthHandler struct {
	Auth     *service.GoogleAuthService
	Sessions *service.SessionService

	// SecureCookies marks session cookies Secure; off in dev where the
	// service runs on plain http.
	SecureCookies bool
	SessionTTL    time.Duration
}

// HandleLogin starts the browser-redirect flow.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to generate oauth state", "error", err)
		ErrServerError.Write(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(stateCookieTTL),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Auth.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback finishes the flow: state check, code exchange, role
// resolution, session cookie. Any failure bounces to /auth/failure rather
// than surfacing provider errors to the browser.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || !cryptox.ConstantTimeEquals(stateCookie.Value, r.URL.Query().Get("state")) {
		log.Warn("oauth callback state mismatch")
		http.Redirect(w, r, "/auth/failure", http.StatusFound)
		return
	}
	clearCookie(w, stateCookieName, h.SecureCookies)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/auth/failure", http.StatusFound)
		return
	}

	token, identity, err := h.Auth.Login(ctx, code)
	if err != nil {
		log.Error("google login failed", "error", err)
		http.Redirect(w, r, "/auth/failure", http.StatusFound)
		return
	}

	log.Info("user logged in", "email", identity.Email, "role", identity.Role)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleFailure reports a failed provider login.
func (h *AuthHandler) HandleFailure(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":   "login_failed",
		"message": "could not sign in with Google",
	})
}

// HandleLogout destroys the session and clears the cookie. Idempotent:
// logging out without a session still succeeds.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.Sessions.Destroy(ctx, cookie.Value); err != nil {
			slogx.FromContext(ctx).Error("failed to destroy session", "error", err)
			ErrServerError.Write(w)
			return
		}
	}
	clearCookie(w, SessionCookieName, h.SecureCookies)

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) sessionTTL() time.Duration {
	if h.SessionTTL <= 0 {
		return service.DefaultSessionTTL
	}
	return h.SessionTTL
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
