package domain

// Role determines which API routes an identity may reach. There is no
// hierarchy between roles; each route names the exact set it permits.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleFinance   Role = "finance"
	RoleEmployee  Role = "employee"
	RoleRequester Role = "requester"
	RoleGuest     Role = "guest"
)

func (r Role) String() string { return string(r) }

// In reports whether r is a member of the given set.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
