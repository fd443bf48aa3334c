package service

import (
	"strings"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
)

// RoleResolver maps an authenticated email address to exactly one role.
// The allow-lists and keyword are fixed at construction; they come from
// configuration read once at process start.
type RoleResolver struct {
	admins     map[string]struct{}
	finance    map[string]struct{}
	orgKeyword string
}

// NewRoleResolver builds a resolver from the configured allow-lists and
// organizational domain keyword. List entries are normalized to lowercase.
func NewRoleResolver(adminEmails, financeEmails []string, orgKeyword string) *RoleResolver {
	return &RoleResolver{
		admins:     toSet(adminEmails),
		finance:    toSet(financeEmails),
		orgKeyword: strings.ToLower(strings.TrimSpace(orgKeyword)),
	}
}

// Resolve applies the precedence order: guest (no email), admin allow-list,
// finance allow-list, organizational domain match, requester. Allow-list
// matching is case-insensitive on the full email; the domain match is a
// case-insensitive substring check, not an exact domain comparison.
func (r *RoleResolver) Resolve(email string) domain.Role {
	if email == "" {
		return domain.RoleGuest
	}

	lowered := strings.ToLower(email)

	if _, ok := r.admins[lowered]; ok {
		return domain.RoleAdmin
	}
	if _, ok := r.finance[lowered]; ok {
		return domain.RoleFinance
	}

	// A malformed address without "@" has an empty domain and can never
	// match the keyword.
	if r.orgKeyword != "" && strings.Contains(domainPart(lowered), r.orgKeyword) {
		return domain.RoleEmployee
	}

	return domain.RoleRequester
}

// domainPart returns the segment between the first and second "@". Quoted
// local parts can legally contain "@", but anything past a second "@" is
// not part of the domain.
func domainPart(email string) string {
	_, rest, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	domainName, _, _ := strings.Cut(rest, "@")
	return domainName
}

func toSet(emails []string) map[string]struct{} {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return set
}
