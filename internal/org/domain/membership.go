package domain

import (
	"time"

	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// Membership ties one user to one organization with one role and an
// optional region assignment. Keyed by (OrganizationID, UserID), unique;
// a user may hold independent memberships in multiple organizations.
//
// Invariant: RegionID is non-zero if and only if Role is regional_admin.
// Role and RegionID are always written together in a single statement so
// no reader ever observes a half-updated pair.
type Membership struct {
	ID             idx.ID
	OrganizationID idx.ID
	UserID         idx.ID
	Role           Role
	RegionID       idx.ID // zero unless Role == regional_admin
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RegionConsistent reports whether the role/region pairing invariant holds.
func (m Membership) RegionConsistent() bool {
	return m.Role.RequiresRegion() == !m.RegionID.IsZero()
}
