package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/ingeniahq/po-portal/internal/portal/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, ttl time.Duration) *SessionService {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &SessionService{Store: st, TTL: ttl}
}

func TestSessionCreateAndResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newSessionService(t, time.Hour)

	identity := domain.Identity{
		Subject:     "google-1",
		DisplayName: "Boss",
		Email:       "boss@ingenia.com",
		Role:        domain.RoleAdmin,
	}

	token, session, err := svc.Create(ctx, identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, token, session.TokenHash, "raw token must not be persisted")

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, identity, resolved)
}

func TestSessionResolveUnknownToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newSessionService(t, time.Hour)

	_, err := svc.Resolve(ctx, "no-such-token")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newSessionService(t, time.Hour)

	token, _, err := svc.Create(ctx, domain.Identity{Email: "a@ingenia.co", Role: domain.RoleEmployee})
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, token))

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Logout is idempotent.
	require.NoError(t, svc.Destroy(ctx, token))
	require.NoError(t, svc.Destroy(ctx, ""))
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newSessionService(t, time.Millisecond)

	token, _, err := svc.Create(ctx, domain.Identity{Email: "a@ingenia.co", Role: domain.RoleEmployee})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, store.ErrNotFound)
}
