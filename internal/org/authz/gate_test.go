package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

func TestAuthorizeRequiresMembership(t *testing.T) {
	t.Parallel()

	res := Resource{Kind: KindContent, OrganizationID: orgA, RegionID: regionX}

	t.Run("nil membership", func(t *testing.T) {
		d := Authorize(nil, ActionCreate, res)
		require.False(t, d.Allow)
		require.Equal(t, ReasonNotAMember, d.Reason)
	})

	t.Run("membership in another organization", func(t *testing.T) {
		actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
		actor.OrganizationID = orgB
		d := Authorize(&actor, ActionCreate, res)
		require.False(t, d.Allow)
		require.Equal(t, ReasonNotAMember, d.Reason)
	})
}

func TestAuthorizeUnconditionalGrant(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleAdmin, idx.Zero)
	d := Authorize(&actor, ActionDelete, Resource{
		Kind:           KindContent,
		OrganizationID: orgA,
		RegionID:       regionY,
	})
	require.True(t, d.Allow)
}

func TestAuthorizeDelegatesRegionScope(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleRegionalAdmin, regionX)

	own := Resource{Kind: KindContent, OrganizationID: orgA, RegionID: regionX}
	require.True(t, Authorize(&actor, ActionUpdate, own).Allow)

	other := Resource{Kind: KindContent, OrganizationID: orgA, RegionID: regionY}
	d := Authorize(&actor, ActionUpdate, other)
	require.False(t, d.Allow)
	require.Equal(t, ReasonRegionMismatch, d.Reason)
}

func TestAuthorizeMemberDeniedAllOrgMutations(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleMember, idx.Zero)
	for _, kind := range []ResourceKind{KindOrganization, KindMember, KindInvitation} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete, ActionCancel} {
			res := Resource{Kind: kind, OrganizationID: orgA}
			d := Authorize(&actor, action, res)
			require.False(t, d.Allow, "kind=%s action=%s", kind, action)
		}
	}
}

func TestAuthorizeSelfProtectionOverridesAllow(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
	self := Resource{
		Kind:           KindMember,
		OrganizationID: orgA,
		TargetUserID:   actor.UserID,
	}

	d := Authorize(&actor, ActionUpdate, self)
	require.False(t, d.Allow)
	require.Equal(t, ReasonSelfRoleChange, d.Reason)

	d = Authorize(&actor, ActionDelete, self)
	require.False(t, d.Allow)
	require.Equal(t, ReasonSelfRemoval, d.Reason)

	// Reading your own membership stays fine.
	require.True(t, Authorize(&actor, ActionRead, self).Allow)
}

func TestAuthorizeSelfProtectionAppliesToEveryRole(t *testing.T) {
	t.Parallel()

	for _, role := range allRoles {
		actor := membershipOf(role, idx.Zero)
		if role.RequiresRegion() {
			actor.RegionID = regionX
		}
		self := Resource{Kind: KindMember, OrganizationID: orgA, TargetUserID: actor.UserID}

		d := Authorize(&actor, ActionUpdate, self)
		require.Equal(t, ReasonSelfRoleChange, d.Reason, "role=%s", role)

		d = Authorize(&actor, ActionDelete, self)
		require.Equal(t, ReasonSelfRemoval, d.Reason, "role=%s", role)
	}
}
