package domain

// Identity is the authenticated user for one session. The role is resolved
// exactly once when the session is created and never re-derived; handlers
// treat the whole value as immutable.
type Identity struct {
	Subject     string // stable subject identifier from the provider
	DisplayName string
	Email       string
	Role        Role
}
