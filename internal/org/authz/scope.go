package authz

import (
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// RegionScoped decides whether actor may perform action against target.
//
// Cross-organization access denies with CrossOrg, which callers surface the
// same way as not-found. admin and above act org-wide; regional_admin only
// inside its assigned region; member only for reads.
func RegionScoped(actor domain.Membership, target domain.Region, action Action) Decision {
	if actor.OrganizationID != target.OrganizationID {
		return Denied(ReasonCrossOrg)
	}

	switch actor.Role {
	case domain.RoleSuperAdmin, domain.RoleOwner, domain.RoleAdmin:
		return Allowed()
	case domain.RoleRegionalAdmin:
		if actor.RegionID == target.ID {
			return Allowed()
		}
		return Denied(ReasonRegionMismatch)
	case domain.RoleMember:
		if action == ActionRead {
			return Allowed()
		}
		return Denied(ReasonInsufficientRole)
	}
	return Denied(ReasonInsufficientRole)
}

// RoleChange decides whether actor may set target's role to requested, and
// returns the region id the membership must carry afterwards.
//
// Only super_admin changes roles. A change into regional_admin requires
// requestedRegion to be a region of target's organization; a change away
// from regional_admin forces the region to zero regardless of input (silent
// normalization, not an error). The self-protection invariant is applied
// last and overrides every other outcome: an actor never changes their own
// role, however privileged.
func RoleChange(
	actor domain.Membership,
	target domain.Membership,
	requested domain.Role,
	requestedRegion *domain.Region,
) (idx.ID, Decision) {
	regionID := idx.Zero
	decision := Allowed()

	switch {
	case actor.OrganizationID != target.OrganizationID:
		decision = Denied(ReasonCrossOrg)
	case actor.Role != domain.RoleSuperAdmin:
		decision = Denied(ReasonInsufficientRole)
	case !requested.Valid():
		decision = Denied(ReasonInvalidRegion)
	case requested.RequiresRegion():
		if requestedRegion == nil || requestedRegion.ID.IsZero() ||
			requestedRegion.OrganizationID != target.OrganizationID {
			decision = Denied(ReasonInvalidRegion)
		} else {
			regionID = requestedRegion.ID
		}
	}

	if actor.UserID == target.UserID {
		return idx.Zero, Denied(ReasonSelfRoleChange)
	}
	if !decision.Allow {
		return idx.Zero, decision
	}
	return regionID, decision
}

// MemberRemoval decides whether actor may remove target's membership.
// Self-removal is always denied, even for super_admin.
func MemberRemoval(actor, target domain.Membership) Decision {
	decision := Allowed()

	switch {
	case actor.OrganizationID != target.OrganizationID:
		decision = Denied(ReasonCrossOrg)
	case Capability(actor.Role, KindMember, ActionDelete) == ScopeNone:
		decision = Denied(ReasonInsufficientRole)
	}

	if actor.UserID == target.UserID {
		return Denied(ReasonSelfRemoval)
	}
	return decision
}
