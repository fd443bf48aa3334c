package service

import (
	"context"
	"errors"
	"time"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
	"github.com/ingeniahq/po-portal/internal/portal/store"
	"github.com/ingeniahq/po-portal/pkg/cryptox"
	"github.com/ingeniahq/po-portal/pkg/idx"
)

// DefaultSessionTTL bounds how long a login stays valid without
// re-authenticating.
const DefaultSessionTTL = 24 * time.Hour

// SessionService creates and resolves browser sessions. Only token
// fingerprints are persisted; the raw token lives in the cookie.
type SessionService struct {
	Store store.Store
	TTL   time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create mints a new session for the identity and returns the raw cookie
// token alongside the stored session.
func (s *SessionService) Create(ctx context.Context, identity domain.Identity) (string, domain.Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.Session{}, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	if err := s.Store.Sessions().Create(ctx, session); err != nil {
		return "", domain.Session{}, err
	}

	return token, session, nil
}

// Resolve returns the identity bound to the raw cookie token, or
// store.ErrNotFound when the token is unknown or the session has expired.
// The role inside the identity is the one resolved at login; it is not
// re-derived here.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, store.ErrNotFound
	}

	session, err := s.Store.Sessions().GetByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		return domain.Identity{}, err
	}
	return session.Identity, nil
}

// Destroy removes the session for the raw cookie token. Unknown tokens are
// ignored; logout is idempotent.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.Store.Sessions().DeleteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
