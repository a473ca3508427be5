package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/internal/org/store/drivers/sqlite"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

func openStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "driver_test.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// seed inserts a user, organization and region directly through the repos.
func seed(t *testing.T, st store.Store) (domain.User, domain.Organization, domain.Region) {
	t.Helper()
	ctx := context.Background()

	u := domain.User{ID: idx.New(), Email: "seed@test.local", PasswordHash: "x"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	org := domain.Organization{ID: idx.New(), Name: "Seed", Slug: "seed"}
	require.NoError(t, st.Organizations().CreateOrganization(ctx, org))

	region := domain.Region{ID: idx.New(), OrganizationID: org.ID, Name: "North", Code: "north"}
	require.NoError(t, st.Regions().CreateRegion(ctx, region))

	return u, org, region
}

func pendingInvitation(u domain.User, org domain.Organization, email string) domain.Invitation {
	id := idx.New()
	return domain.Invitation{
		ID:             id,
		OrganizationID: org.ID,
		Email:          email,
		Role:           domain.RoleMember,
		InviterID:      u.ID,
		TokenHash:      "hash-" + id.String(),
		Status:         domain.InvitationPending,
		ExpiresAt:      time.Now().Add(time.Hour),
	}
}

func TestRoleRegionPairingEnforcedBySchema(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	ctx := context.Background()
	u, org, region := seed(t, st)

	// regional_admin without a region is rejected at the schema level.
	err := st.Memberships().CreateMembership(ctx, domain.Membership{
		ID: idx.New(), OrganizationID: org.ID, UserID: u.ID,
		Role: domain.RoleRegionalAdmin,
	})
	require.Error(t, err)

	// member with a region likewise.
	err = st.Memberships().CreateMembership(ctx, domain.Membership{
		ID: idx.New(), OrganizationID: org.ID, UserID: u.ID,
		Role: domain.RoleMember, RegionID: region.ID,
	})
	require.Error(t, err)

	// The consistent pairings pass.
	require.NoError(t, st.Memberships().CreateMembership(ctx, domain.Membership{
		ID: idx.New(), OrganizationID: org.ID, UserID: u.ID,
		Role: domain.RoleRegionalAdmin, RegionID: region.ID,
	}))
}

func TestMembershipUniquePerOrgAndUser(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	ctx := context.Background()
	u, org, _ := seed(t, st)

	m := domain.Membership{
		ID: idx.New(), OrganizationID: org.ID, UserID: u.ID, Role: domain.RoleMember,
	}
	require.NoError(t, st.Memberships().CreateMembership(ctx, m))

	dup := m
	dup.ID = idx.New()
	err := st.Memberships().CreateMembership(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Upsert overwrites role and region instead of erroring.
	got, err := st.Memberships().UpsertMembership(ctx, domain.Membership{
		ID: idx.New(), OrganizationID: org.ID, UserID: u.ID, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID, "conflict path keeps the original row")
	require.Equal(t, domain.RoleAdmin, got.Role)
}

func TestInvitationConditionalTransitions(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	ctx := context.Background()
	u, org, _ := seed(t, st)

	t.Run("loser of a revoke/accept race gets a conflict", func(t *testing.T) {
		inv := pendingInvitation(u, org, "race@test.local")
		require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

		require.NoError(t, st.Invitations().MarkRevoked(ctx, inv.ID, u.ID, time.Now()))

		err := st.Invitations().MarkAccepted(ctx, inv.ID, inv.TokenHash, time.Now())
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("accept is conditional on the token fingerprint", func(t *testing.T) {
		inv := pendingInvitation(u, org, "token@test.local")
		require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

		err := st.Invitations().MarkAccepted(ctx, inv.ID, "some-other-hash", time.Now())
		require.ErrorIs(t, err, store.ErrConflict)

		require.NoError(t, st.Invitations().MarkAccepted(ctx, inv.ID, inv.TokenHash, time.Now()))
	})

	t.Run("one pending invitation per organization and email", func(t *testing.T) {
		inv := pendingInvitation(u, org, "unique@test.local")
		require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

		dup := pendingInvitation(u, org, "unique@test.local")
		err := st.Invitations().CreateInvitation(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		// Once resolved, a fresh pending invitation is admitted again.
		require.NoError(t, st.Invitations().MarkRevoked(ctx, inv.ID, u.ID, time.Now()))
		require.NoError(t, st.Invitations().CreateInvitation(ctx, dup))
	})

	t.Run("reissue resets the lifecycle fields", func(t *testing.T) {
		inv := pendingInvitation(u, org, "reissue@test.local")
		require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))
		require.NoError(t, st.Invitations().MarkRevoked(ctx, inv.ID, u.ID, time.Now()))

		require.NoError(t, st.Invitations().Reissue(ctx, inv.ID, "fresh-hash", time.Now().Add(time.Hour)))

		got, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, got.Status)
		require.Equal(t, "fresh-hash", got.TokenHash)
		require.Equal(t, 1, got.ResendCount)
		require.Nil(t, got.RevokedAt)
		require.True(t, got.RevokedBy.IsZero())
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	st := openStore(t)
	ctx := context.Background()
	u, org, _ := seed(t, st)

	inv := pendingInvitation(u, org, "atomic@test.local")
	require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkAccepted(ctx, inv.ID, inv.TokenHash, time.Now()); err != nil {
			return err
		}
		// Half-consistent membership; the schema rejects it and the accept
		// above must roll back with it.
		return tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID: idx.New(), OrganizationID: org.ID, UserID: u.ID,
			Role: domain.RoleRegionalAdmin,
		})
	})
	require.Error(t, err)

	got, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, got.Status, "accept rolled back")
}
