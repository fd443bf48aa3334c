package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/service"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/ingeniahq/po-portal/pkg/httpx"
	"github.com/ingeniahq/po-portal/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	SessionService   *service.SessionService
	PORequestService *service.PORequestService
	AuthService      *service.GoogleAuthService

	SecureCookies bool
	SessionTTL    time.Duration
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

func (r *Router) ApplyRoutes() {
	// Session resolution runs globally so /api/me can answer for anonymous
	// callers too; per-route gates handle rejection.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		SessionMiddleware(r.SessionService),
	}

	r.registerAuth()
	r.registerAPI()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Auth:          r.AuthService,
		Sessions:      r.SessionService,
		SecureCookies: r.SecureCookies,
		SessionTTL:    r.SessionTTL,
	}

	// Login endpoints get the strict limit to slow down anyone probing the
	// redirect flow.
	r.Mux.Handle("GET /auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /auth/google/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /auth/failure", http.HandlerFunc(h.HandleFailure))
	r.Mux.Handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerAPI() {
	me := &MeHandler{}
	po := &PORequestsHandler{PORequests: r.PORequestService}

	r.Mux.Handle("GET /api/me", me)

	// Submission: any authenticated identity may file a request.
	r.Mux.Handle("POST /api/po-requests",
		httpx.Chain(http.HandlerFunc(po.HandleCreate),
			RequireAuth,
			RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Review endpoints require exactly admin or finance; employee and
	// requester roles are not enough.
	r.Mux.Handle("GET /api/po-requests",
		httpx.Chain(http.HandlerFunc(po.HandleList),
			RequireAuth,
			RequireAnyRole(domain.RoleAdmin, domain.RoleFinance),
			RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /api/po-requests/{id}/status",
		httpx.Chain(http.HandlerFunc(po.HandleUpdateStatus),
			RequireAuth,
			RequireAnyRole(domain.RoleAdmin, domain.RoleFinance),
			RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
