package http

import (
	"errors"
	"net/http"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/service"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/ingeniahq/po-portal/pkg/httpx"
	"github.com/ingeniahq/po-portal/pkg/slogx"
)

// SessionCookieName is the browser cookie carrying the raw session token.
const SessionCookieName = "po_session"

// SessionMiddleware resolves the session cookie into an identity and
// attaches it to the request context. It never rejects a request: routes
// that require authentication gate themselves with RequireAuth.
func SessionMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					slogx.FromContext(ctx).Error("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(ctx, identity)))
		})
	}
}

// RequireAuth rejects requests that carry no identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFromContext(r.Context()); !ok {
			ErrUnauthenticated.Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnyRole rejects requests whose identity's role is not in the
// given set. An unauthenticated request gets 401, never a role-based 403,
// so the middleware leaks nothing about role requirements to anonymous
// callers. Role sets are explicit per route; there is no hierarchy.
func RequireAnyRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromContext(r.Context())
			if !ok {
				ErrUnauthenticated.Write(w)
				return
			}
			if !identity.Role.In(roles...) {
				ErrForbidden.Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userKeyExtractor groups rate limiting by the authenticated email,
// falling back to the client IP for anonymous requests.
func userKeyExtractor(r *http.Request) string {
	if identity, ok := identityFromContext(r.Context()); ok && identity.Email != "" {
		return identity.Email
	}
	return httpx.IPKeyExtractor(r)
}

// RateLimitByUser applies a per-user rate limit.
func RateLimitByUser(config httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimit(config, userKeyExtractor)
}
