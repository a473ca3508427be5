package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of membership roles, in ascending privilege:
//
//	member < regional_admin < admin < owner < super_admin
//
// The order is used for UI-gating comparisons only. regional_admin is
// capability-scoped to its assigned region, not purely weaker than admin,
// so capability checks always go through the authz package rather than
// comparing ranks.
type Role string

const (
	RoleMember        Role = "member"
	RoleRegionalAdmin Role = "regional_admin"
	RoleAdmin         Role = "admin"
	RoleOwner         Role = "owner"
	RoleSuperAdmin    Role = "super_admin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

var roleRank = map[Role]int{
	RoleMember:        0,
	RoleRegionalAdmin: 1,
	RoleAdmin:         2,
	RoleOwner:         3,
	RoleSuperAdmin:    4,
}

// ParseRole validates a role string arriving from storage or the wire.
// Role values never flow through the system as raw strings past this point.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above other in the privilege order.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// RequiresRegion reports whether memberships holding r must carry a region
// assignment. This is the single source of the role/region pairing invariant.
func (r Role) RequiresRegion() bool {
	return r == RoleRegionalAdmin
}

func (r Role) String() string { return string(r) }
