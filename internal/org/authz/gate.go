package authz

import (
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// Resource describes the target of an authorization check. The service
// layer fills it from already-fetched snapshots; the gate never looks
// anything up.
type Resource struct {
	Kind           ResourceKind
	OrganizationID idx.ID

	// RegionID is the region owning a region-scoped resource (a region
	// itself, or content). Zero for org-level resources.
	RegionID idx.ID

	// TargetUserID is the user behind a member resource. It drives the
	// standing self-protection invariants.
	TargetUserID idx.ID
}

// Authorize is the single composed entry point for mutating operations.
//
// Ordering matters: the self-protection invariants run last so they
// uniformly override role-based allows. A future change to the capability
// table can never accidentally permit an actor to change their own role or
// remove themselves.
func Authorize(actor *domain.Membership, action Action, res Resource) Decision {
	decision := baseDecision(actor, action, res)

	// Standing invariants, applied as the final override.
	if actor != nil && res.Kind == KindMember && res.TargetUserID == actor.UserID {
		switch action {
		case ActionUpdate:
			return Denied(ReasonSelfRoleChange)
		case ActionDelete:
			return Denied(ReasonSelfRemoval)
		}
	}

	return decision
}

func baseDecision(actor *domain.Membership, action Action, res Resource) Decision {
	// No membership in the resource's organization: deny. Callers surface
	// this like not-found so cross-tenant probes learn nothing.
	if actor == nil || actor.OrganizationID != res.OrganizationID {
		return Denied(ReasonNotAMember)
	}

	switch Capability(actor.Role, res.Kind, action) {
	case ScopeOrganization:
		return Allowed()
	case ScopeRegion:
		// Region-scoped grant: only regional_admin carries one, and it
		// only covers the assigned region.
		if !actor.RegionID.IsZero() && actor.RegionID == res.RegionID {
			return Allowed()
		}
		return Denied(ReasonRegionMismatch)
	default:
		return Denied(ReasonInsufficientRole)
	}
}
