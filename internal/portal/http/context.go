package http

import (
	"context"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func contextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, identity)
}

// identityFromContext returns the identity attached by the session
// middleware, if any.
func identityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity).(domain.Identity)
	return identity, ok
}
