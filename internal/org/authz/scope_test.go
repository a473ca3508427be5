package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

var (
	orgA    = idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
	orgB    = idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZW")
	regionX = idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZX")
	regionY = idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZY")
)

func membershipOf(role domain.Role, regionID idx.ID) domain.Membership {
	return domain.Membership{
		ID:             idx.New(),
		OrganizationID: orgA,
		UserID:         idx.New(),
		Role:           role,
		RegionID:       regionID,
	}
}

func TestRegionScopedCrossOrgDenied(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
	foreign := domain.Region{ID: regionX, OrganizationID: orgB}

	d := RegionScoped(actor, foreign, ActionUpdate)
	require.False(t, d.Allow)
	require.Equal(t, ReasonCrossOrg, d.Reason)
}

func TestRegionScopedOrgWideRoles(t *testing.T) {
	t.Parallel()

	target := domain.Region{ID: regionX, OrganizationID: orgA}
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOwner, domain.RoleSuperAdmin} {
		d := RegionScoped(membershipOf(role, idx.Zero), target, ActionDelete)
		require.True(t, d.Allow, "role=%s", role)
	}
}

func TestRegionScopedRegionalAdmin(t *testing.T) {
	t.Parallel()

	own := domain.Region{ID: regionX, OrganizationID: orgA}
	other := domain.Region{ID: regionY, OrganizationID: orgA}
	actor := membershipOf(domain.RoleRegionalAdmin, regionX)

	require.True(t, RegionScoped(actor, own, ActionUpdate).Allow)

	d := RegionScoped(actor, other, ActionUpdate)
	require.False(t, d.Allow)
	require.Equal(t, ReasonRegionMismatch, d.Reason)
}

func TestRegionScopedMemberReadOnly(t *testing.T) {
	t.Parallel()

	target := domain.Region{ID: regionX, OrganizationID: orgA}
	actor := membershipOf(domain.RoleMember, idx.Zero)

	require.True(t, RegionScoped(actor, target, ActionRead).Allow)

	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		d := RegionScoped(actor, target, action)
		require.False(t, d.Allow)
		require.Equal(t, ReasonInsufficientRole, d.Reason)
	}
}

func TestRoleChangeOnlySuperAdmin(t *testing.T) {
	t.Parallel()

	target := membershipOf(domain.RoleMember, idx.Zero)
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleRegionalAdmin, domain.RoleAdmin, domain.RoleOwner} {
		_, d := RoleChange(membershipOf(role, idx.Zero), target, domain.RoleAdmin, nil)
		require.False(t, d.Allow, "role=%s", role)
		require.Equal(t, ReasonInsufficientRole, d.Reason)
	}

	_, d := RoleChange(membershipOf(domain.RoleSuperAdmin, idx.Zero), target, domain.RoleAdmin, nil)
	require.True(t, d.Allow)
}

func TestRoleChangeIntoRegionalAdminRequiresRegion(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
	target := membershipOf(domain.RoleMember, idx.Zero)

	// Missing region.
	_, d := RoleChange(actor, target, domain.RoleRegionalAdmin, nil)
	require.Equal(t, ReasonInvalidRegion, d.Reason)

	// Region from another organization.
	foreign := domain.Region{ID: regionX, OrganizationID: orgB}
	_, d = RoleChange(actor, target, domain.RoleRegionalAdmin, &foreign)
	require.Equal(t, ReasonInvalidRegion, d.Reason)

	// Valid region in the same organization.
	valid := domain.Region{ID: regionX, OrganizationID: orgA}
	regionID, d := RoleChange(actor, target, domain.RoleRegionalAdmin, &valid)
	require.True(t, d.Allow)
	require.Equal(t, regionX, regionID)
}

func TestRoleChangeAwayFromRegionalAdminNormalizesRegion(t *testing.T) {
	t.Parallel()

	actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
	target := membershipOf(domain.RoleRegionalAdmin, regionX)

	// A stray region id on a non-regional role is silently dropped,
	// not rejected.
	stray := domain.Region{ID: regionY, OrganizationID: orgA}
	regionID, d := RoleChange(actor, target, domain.RoleAdmin, &stray)
	require.True(t, d.Allow)
	require.True(t, regionID.IsZero())
}

func TestRoleChangeSelfAlwaysDenied(t *testing.T) {
	t.Parallel()

	for _, role := range allRoles {
		actor := membershipOf(role, idx.Zero)
		if role.RequiresRegion() {
			actor.RegionID = regionX
		}
		_, d := RoleChange(actor, actor, domain.RoleMember, nil)
		require.False(t, d.Allow, "role=%s", role)
		require.Equal(t, ReasonSelfRoleChange, d.Reason, "role=%s", role)
	}
}

func TestMemberRemoval(t *testing.T) {
	t.Parallel()

	target := membershipOf(domain.RoleMember, idx.Zero)

	t.Run("admin and above may remove", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOwner, domain.RoleSuperAdmin} {
			require.True(t, MemberRemoval(membershipOf(role, idx.Zero), target).Allow, "role=%s", role)
		}
	})

	t.Run("member and regional_admin may not", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleMember, domain.RoleRegionalAdmin} {
			d := MemberRemoval(membershipOf(role, regionX), target)
			require.False(t, d.Allow, "role=%s", role)
			require.Equal(t, ReasonInsufficientRole, d.Reason)
		}
	})

	t.Run("self removal always denied", func(t *testing.T) {
		actor := membershipOf(domain.RoleSuperAdmin, idx.Zero)
		d := MemberRemoval(actor, actor)
		require.False(t, d.Allow)
		require.Equal(t, ReasonSelfRemoval, d.Reason)
	})

	t.Run("cross org hidden", func(t *testing.T) {
		foreign := target
		foreign.OrganizationID = orgB
		d := MemberRemoval(membershipOf(domain.RoleSuperAdmin, idx.Zero), foreign)
		require.Equal(t, ReasonCrossOrg, d.Reason)
	})
}
