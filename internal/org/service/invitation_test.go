package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

func TestInvitationCreate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin := f.user("admin@acme.test")
	org := f.org(admin, "acme")
	region := f.region(admin, org.ID, "north")

	t.Run("pending invitation with token fingerprint only", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "new.member@acme.test", domain.RoleMember, idx.Zero)

		require.Equal(t, domain.InvitationPending, inv.Status)
		require.Equal(t, "new.member@acme.test", inv.Email)
		require.NotEmpty(t, inv.TokenHash)
		require.WithinDuration(t, time.Now().Add(service.DefaultInviteTTL), inv.ExpiresAt, time.Minute)

		mail := f.mailer.last(t)
		require.Equal(t, "new.member@acme.test", mail.To)
		token := tokenFromMail(t, mail)
		require.NotEqual(t, token, inv.TokenHash, "raw token must never equal the stored fingerprint")
	})

	t.Run("duplicate pending invitation rejected", func(t *testing.T) {
		f.invite(admin, org.ID, "dup@acme.test", domain.RoleMember, idx.Zero)

		_, err := f.invites.Create(ctx, admin.ID, org.ID, "dup@acme.test", domain.RoleMember, idx.Zero)
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("overdue pending invitation does not block a fresh one", func(t *testing.T) {
		f.overdueInvitation(org.ID, admin, "stale@acme.test")

		inv, err := f.invites.Create(ctx, admin.ID, org.ID, "stale@acme.test", domain.RoleMember, idx.Zero)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, inv.Status)
	})

	t.Run("regional_admin invite requires a region of the same organization", func(t *testing.T) {
		_, err := f.invites.Create(ctx, admin.ID, org.ID, "ra@acme.test", domain.RoleRegionalAdmin, idx.Zero)
		require.ErrorIs(t, err, service.ErrInvalidRegion)

		other := f.user("other@corp.test")
		otherOrg := f.org(other, "corp")
		foreignRegion := f.region(other, otherOrg.ID, "west")

		_, err = f.invites.Create(ctx, admin.ID, org.ID, "ra@acme.test", domain.RoleRegionalAdmin, foreignRegion.ID)
		require.ErrorIs(t, err, service.ErrInvalidRegion)

		inv, err := f.invites.Create(ctx, admin.ID, org.ID, "ra@acme.test", domain.RoleRegionalAdmin, region.ID)
		require.NoError(t, err)
		require.Equal(t, region.ID, inv.RegionID)
	})

	t.Run("non-regional role drops any region silently", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "plain@acme.test", domain.RoleAdmin, region.ID)
		require.True(t, inv.RegionID.IsZero())
	})

	t.Run("only super_admin creates invitations", func(t *testing.T) {
		lesser := f.user("lesser@acme.test")
		f.addMember(org.ID, lesser, domain.RoleAdmin, idx.Zero)

		_, err := f.invites.Create(ctx, lesser.ID, org.ID, "x@acme.test", domain.RoleMember, idx.Zero)
		require.ErrorIs(t, err, service.ErrInsufficientRole)
	})

	t.Run("outsiders see not-found", func(t *testing.T) {
		outsider := f.user("outsider@else.test")

		_, err := f.invites.Create(ctx, outsider.ID, org.ID, "x@acme.test", domain.RoleMember, idx.Zero)
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("mail failure surfaces but the invitation stands", func(t *testing.T) {
		broken := service.NewInvitationService(f.st, failingMailer{}, service.DefaultInviteTTL, "https://app.example.com")

		inv, err := broken.Create(ctx, admin.ID, org.ID, "unreachable@acme.test", domain.RoleMember, idx.Zero)
		require.ErrorIs(t, err, service.ErrNotificationFailed)
		require.False(t, inv.ID.IsZero())

		stored, err := f.st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, stored.Status)
	})
}

func TestInvitationAccept(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin := f.user("admin@acme.test")
	org := f.org(admin, "acme")
	region := f.region(admin, org.ID, "north")

	t.Run("accept copies role and region into the membership", func(t *testing.T) {
		invitee := f.user("ra@acme.test")
		inv := f.invite(admin, org.ID, "ra@acme.test", domain.RoleRegionalAdmin, region.ID)
		token := tokenFromMail(t, f.mailer.last(t))

		m, err := f.invites.Accept(ctx, invitee.ID, inv.ID, token)
		require.NoError(t, err)
		require.Equal(t, domain.RoleRegionalAdmin, m.Role)
		require.Equal(t, region.ID, m.RegionID)
		require.True(t, m.RegionConsistent())

		stored, err := f.st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, stored.Status)
		require.NotNil(t, stored.AcceptedAt)
	})

	t.Run("second accept reports already resolved", func(t *testing.T) {
		invitee := f.user("twice@acme.test")
		inv := f.invite(admin, org.ID, "twice@acme.test", domain.RoleMember, idx.Zero)
		token := tokenFromMail(t, f.mailer.last(t))

		_, err := f.invites.Accept(ctx, invitee.ID, inv.ID, token)
		require.NoError(t, err)

		_, err = f.invites.Accept(ctx, invitee.ID, inv.ID, token)
		require.ErrorIs(t, err, service.ErrAlreadyResolved)
	})

	t.Run("email must match the invitee", func(t *testing.T) {
		f.invite(admin, org.ID, "intended@acme.test", domain.RoleMember, idx.Zero)
		token := tokenFromMail(t, f.mailer.last(t))
		interloper := f.user("interloper@acme.test")

		inv, err := f.st.Invitations().GetPendingInvitation(ctx, org.ID, "intended@acme.test")
		require.NoError(t, err)

		_, err = f.invites.Accept(ctx, interloper.ID, inv.ID, token)
		require.ErrorIs(t, err, service.ErrEmailMismatch)
	})

	t.Run("wrong token reads like a missing invitation", func(t *testing.T) {
		invitee := f.user("tokenless@acme.test")
		inv := f.invite(admin, org.ID, "tokenless@acme.test", domain.RoleMember, idx.Zero)

		_, err := f.invites.Accept(ctx, invitee.ID, inv.ID, "not-the-token")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("overdue invitation expires on accept", func(t *testing.T) {
		invitee := f.user("late@acme.test")
		inv := f.overdueInvitation(org.ID, admin, "late@acme.test")

		_, err := f.invites.Accept(ctx, invitee.ID, inv.ID, "not-the-token")
		require.ErrorIs(t, err, service.ErrNotFound, "token check precedes expiry")

		_, err = f.invites.Accept(ctx, invitee.ID, inv.ID, "overdue-late@acme.test")
		require.ErrorIs(t, err, service.ErrExpired)

		after, err := f.st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, after.Status)
	})
}

func TestInvitationRevoke(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin := f.user("admin@acme.test")
	org := f.org(admin, "acme")

	t.Run("revoke pending", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "bye@acme.test", domain.RoleMember, idx.Zero)

		revoked, err := f.invites.Revoke(ctx, admin.ID, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationRevoked, revoked.Status)
		require.Equal(t, admin.ID, revoked.RevokedBy)
		require.NotNil(t, revoked.RevokedAt)
	})

	t.Run("revoking a resolved invitation reports not pending", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "twice-revoked@acme.test", domain.RoleMember, idx.Zero)

		_, err := f.invites.Revoke(ctx, admin.ID, inv.ID)
		require.NoError(t, err)

		_, err = f.invites.Revoke(ctx, admin.ID, inv.ID)
		require.ErrorIs(t, err, service.ErrNotPending)
	})

	t.Run("revoking an overdue invitation reports not pending", func(t *testing.T) {
		inv := f.overdueInvitation(org.ID, admin, "overdue-revoke@acme.test")

		_, err := f.invites.Revoke(ctx, admin.ID, inv.ID)
		require.ErrorIs(t, err, service.ErrNotPending)

		after, err := f.st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, after.Status)
	})

	t.Run("only super_admin revokes", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "guarded@acme.test", domain.RoleMember, idx.Zero)
		lesser := f.user("owner@acme.test")
		f.addMember(org.ID, lesser, domain.RoleOwner, idx.Zero)

		_, err := f.invites.Revoke(ctx, lesser.ID, inv.ID)
		require.ErrorIs(t, err, service.ErrInsufficientRole)
	})
}

func TestInvitationResend(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin := f.user("admin@acme.test")
	org := f.org(admin, "acme")

	t.Run("resend rotates the token and extends expiry", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "again@acme.test", domain.RoleMember, idx.Zero)
		firstToken := tokenFromMail(t, f.mailer.last(t))

		resent, err := f.invites.Resend(ctx, admin.ID, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, resent.Status)
		require.Equal(t, 1, resent.ResendCount)
		require.NotEqual(t, inv.TokenHash, resent.TokenHash)
		require.True(t, resent.ExpiresAt.After(inv.ExpiresAt) || resent.ExpiresAt.Equal(inv.ExpiresAt))

		secondToken := tokenFromMail(t, f.mailer.last(t))
		require.NotEqual(t, firstToken, secondToken)

		// Only the fresh token redeems.
		invitee := f.user("again@acme.test")
		_, err = f.invites.Accept(ctx, invitee.ID, inv.ID, firstToken)
		require.ErrorIs(t, err, service.ErrNotFound)

		_, err = f.invites.Accept(ctx, invitee.ID, inv.ID, secondToken)
		require.NoError(t, err)
	})

	t.Run("resend re-arms a revoked invitation", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "revived@acme.test", domain.RoleMember, idx.Zero)
		_, err := f.invites.Revoke(ctx, admin.ID, inv.ID)
		require.NoError(t, err)

		resent, err := f.invites.Resend(ctx, admin.ID, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, resent.Status)
		require.Nil(t, resent.RevokedAt)
		require.True(t, resent.RevokedBy.IsZero())
	})

	t.Run("resend re-arms an expired invitation", func(t *testing.T) {
		inv := f.overdueInvitation(org.ID, admin, "expired-revival@acme.test")

		resent, err := f.invites.Resend(ctx, admin.ID, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, resent.Status)
		require.True(t, resent.ExpiresAt.After(time.Now()))
	})

	t.Run("mail failure leaves the re-armed row in place", func(t *testing.T) {
		inv := f.invite(admin, org.ID, "flaky@acme.test", domain.RoleMember, idx.Zero)
		broken := service.NewInvitationService(f.st, failingMailer{}, service.DefaultInviteTTL, "https://app.example.com")

		resent, err := broken.Resend(ctx, admin.ID, inv.ID)
		require.ErrorIs(t, err, service.ErrNotificationFailed)
		require.Equal(t, domain.InvitationPending, resent.Status)
		require.Equal(t, 1, resent.ResendCount)
	})
}

func TestInvitationListAndGet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin := f.user("admin@acme.test")
	org := f.org(admin, "acme")

	f.invite(admin, org.ID, "one@acme.test", domain.RoleMember, idx.Zero)
	overdue := f.overdueInvitation(org.ID, admin, "two@acme.test")

	t.Run("list folds lazy expiry into the snapshot", func(t *testing.T) {
		invs, err := f.invites.List(ctx, admin.ID, org.ID)
		require.NoError(t, err)
		require.Len(t, invs, 2)

		byEmail := make(map[string]domain.Invitation, len(invs))
		for _, inv := range invs {
			byEmail[inv.Email] = inv
		}
		require.Equal(t, domain.InvitationPending, byEmail["one@acme.test"].Status)
		require.Equal(t, domain.InvitationExpired, byEmail["two@acme.test"].Status)

		// The lazy transition persisted.
		stored, err := f.st.Invitations().GetInvitationByID(ctx, overdue.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, stored.Status)
	})

	t.Run("reading invitations requires admin", func(t *testing.T) {
		member := f.user("member@acme.test")
		f.addMember(org.ID, member, domain.RoleMember, idx.Zero)

		_, err := f.invites.List(ctx, member.ID, org.ID)
		require.ErrorIs(t, err, service.ErrInsufficientRole)

		regular := f.user("ra2@acme.test")
		region := f.region(admin, org.ID, "south")
		f.addMember(org.ID, regular, domain.RoleRegionalAdmin, region.ID)

		_, err = f.invites.List(ctx, regular.ID, org.ID)
		require.ErrorIs(t, err, service.ErrInsufficientRole)
	})

	t.Run("get applies lazy expiry", func(t *testing.T) {
		inv := f.overdueInvitation(org.ID, admin, "three@acme.test")

		got, err := f.invites.Get(ctx, admin.ID, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, got.Status)
	})
}
