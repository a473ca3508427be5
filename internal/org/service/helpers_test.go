package service_test

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/notify"
	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/internal/org/store/drivers/sqlite"
	"github.com/yohannes4321/MissionForNation/pkg/cryptox"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "org_test.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// captureMailer records invitation emails instead of sending them, so tests
// can extract the raw accept token from the accept URL.
type captureMailer struct {
	mu   sync.Mutex
	sent []notify.InvitationEmail
}

func (m *captureMailer) SendInvitation(_ context.Context, msg notify.InvitationEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last(t *testing.T) notify.InvitationEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected at least one invitation email")
	return m.sent[len(m.sent)-1]
}

func tokenFromMail(t *testing.T, msg notify.InvitationEmail) string {
	t.Helper()
	u, err := url.Parse(msg.AcceptURL)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

type failingMailer struct{}

func (failingMailer) SendInvitation(context.Context, notify.InvitationEmail) error {
	return errors.New("smtp down")
}

// fixture wires every service against one throwaway database.
type fixture struct {
	t  *testing.T
	st store.Store

	users   *service.UserService
	orgs    *service.OrganizationService
	members *service.MemberService
	invites *service.InvitationService
	content *service.ContentService
	mailer  *captureMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := newTestStore(t)
	issuer, err := jwtx.NewIssuer("test-secret-at-least-32-bytes-long", "orgd-test", time.Hour)
	require.NoError(t, err)

	mailer := &captureMailer{}
	return &fixture{
		t:       t,
		st:      st,
		users:   service.NewUserService(st, issuer),
		orgs:    service.NewOrganizationService(st),
		members: service.NewMemberService(st),
		invites: service.NewInvitationService(st, mailer, service.DefaultInviteTTL, "https://app.example.com"),
		content: service.NewContentService(st),
		mailer:  mailer,
	}
}

func (f *fixture) user(email string) domain.User {
	f.t.Helper()
	u, err := f.users.Register(context.Background(), email, "Test", "User", "correct horse battery")
	require.NoError(f.t, err)
	return u
}

func (f *fixture) org(creator domain.User, slug string) domain.Organization {
	f.t.Helper()
	org, _, err := f.orgs.CreateOrganization(context.Background(), creator.ID, slug, slug)
	require.NoError(f.t, err)
	return org
}

func (f *fixture) region(actor domain.User, orgID idx.ID, code string) domain.Region {
	f.t.Helper()
	r, err := f.orgs.CreateRegion(context.Background(), actor.ID, orgID, "Region "+code, code)
	require.NoError(f.t, err)
	return r
}

// addMember installs a membership directly, bypassing the invitation flow.
// Setup only; the flows under test still exercise the real paths.
func (f *fixture) addMember(orgID idx.ID, user domain.User, role domain.Role, regionID idx.ID) domain.Membership {
	f.t.Helper()
	m, err := f.st.Memberships().UpsertMembership(context.Background(), domain.Membership{
		ID:             idx.New(),
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
		RegionID:       regionID,
	})
	require.NoError(f.t, err)
	return m
}

func (f *fixture) invite(actor domain.User, orgID idx.ID, email string, role domain.Role, regionID idx.ID) domain.Invitation {
	f.t.Helper()
	inv, err := f.invites.Create(context.Background(), actor.ID, orgID, email, role, regionID)
	require.NoError(f.t, err)
	return inv
}

// overdueInvitation inserts a pending invitation whose expiry already
// passed. The raw token is "overdue-" + email, so tests can redeem it.
func (f *fixture) overdueInvitation(orgID idx.ID, inviter domain.User, email string) domain.Invitation {
	f.t.Helper()
	inv := domain.Invitation{
		ID:             idx.New(),
		OrganizationID: orgID,
		Email:          email,
		Role:           domain.RoleMember,
		InviterID:      inviter.ID,
		TokenHash:      cryptox.FingerprintToken("overdue-" + email),
		Status:         domain.InvitationPending,
		ExpiresAt:      time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(f.t, f.st.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}
