package domain

import "time"

// Session ties an opaque browser cookie token to an identity snapshot.
// Only the SHA-256 fingerprint of the token is persisted.
type Session struct {
	ID        string // ULID
	TokenHash string
	Identity  Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
