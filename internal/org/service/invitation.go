package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/notify"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/cryptox"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// DefaultInviteTTL is the invitation validity window.
const DefaultInviteTTL = 7 * 24 * time.Hour

// InvitationService runs the invitation lifecycle. State lives in the
// database row; every transition is a single conditional update, so two
// racing actors resolve by whichever statement matches the pending row
// first. The loser re-reads and reports the state it lost to.
//
// Lifecycle mutations require super_admin. Expiry is evaluated lazily at
// read time; the housekeeping sweep only tidies rows nobody is reading.
type InvitationService struct {
	store  store.Store
	mailer notify.Mailer
	ttl    time.Duration

	// acceptBaseURL prefixes the accept link placed in invitation emails.
	acceptBaseURL string
}

func NewInvitationService(st store.Store, mailer notify.Mailer, ttl time.Duration, acceptBaseURL string) *InvitationService {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	if mailer == nil {
		mailer = notify.LogMailer{}
	}
	return &InvitationService{
		store:         st,
		mailer:        mailer,
		ttl:           ttl,
		acceptBaseURL: strings.TrimRight(acceptBaseURL, "/"),
	}
}

// Create issues a pending invitation for an email address and sends the
// invitation mail. At most one pending invitation may exist per
// (organization, email); a lazily expired one is retired first rather than
// blocking the new invite.
func (s *InvitationService) Create(ctx context.Context, actorID, orgID idx.ID, email string, role domain.Role, regionID idx.ID) (domain.Invitation, error) {
	actor, err := requireMembership(ctx, s.store, orgID, actorID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return domain.Invitation{}, ErrInsufficientRole
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Invitation{}, ErrInvalidEmail
	}
	if !role.Valid() {
		return domain.Invitation{}, domain.ErrUnknownRole
	}

	// The invited role decides the region pairing, same rule as memberships.
	if role.RequiresRegion() {
		region, err := s.store.Regions().GetRegionByID(ctx, regionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invitation{}, ErrInvalidRegion
			}
			return domain.Invitation{}, err
		}
		if region.OrganizationID != orgID {
			return domain.Invitation{}, ErrInvalidRegion
		}
	} else {
		regionID = idx.Zero
	}

	now := time.Now().UTC()
	existing, err := s.store.Invitations().GetPendingInvitation(ctx, orgID, email)
	switch {
	case err == nil:
		if !existing.ExpiredAt(now) {
			return domain.Invitation{}, ErrAlreadyExists
		}
		// Retire the overdue invite so the partial unique index admits a
		// fresh one.
		if err := s.store.Invitations().MarkExpired(ctx, existing.ID); err != nil && !errors.Is(err, store.ErrConflict) {
			return domain.Invitation{}, err
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return domain.Invitation{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Invitation{}, err
	}

	inv := domain.Invitation{
		ID:             idx.New(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		RegionID:       regionID,
		InviterID:      actorID,
		TokenHash:      cryptox.FingerprintToken(token),
		Status:         domain.InvitationPending,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.store.Invitations().CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invitation{}, ErrAlreadyExists
		}
		return domain.Invitation{}, err
	}

	created, err := s.store.Invitations().GetInvitationByID(ctx, inv.ID)
	if err != nil {
		return domain.Invitation{}, err
	}

	slogx.FromContext(ctx).Info("invitation created",
		"organization_id", orgID,
		"invitation_id", inv.ID,
		"email", email,
		"role", role,
		"expires_at", inv.ExpiresAt,
	)

	if err := s.sendInvitationMail(ctx, created, token); err != nil {
		return created, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return created, nil
}

// Accept redeems a pending invitation with its raw token and creates or
// overwrites the invitee's membership, copying the invited role and region.
// The status flip and the membership write share one transaction; a racing
// accept or revoke loses the conditional update and reports the state it
// lost to.
func (s *InvitationService) Accept(ctx context.Context, userID, invitationID idx.ID, token string) (domain.Membership, error) {
	inv, err := s.store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	// A wrong token reads like a missing invitation. Revealing that an
	// invitation exists behind a bad token would leak tenant information.
	fingerprint := cryptox.FingerprintToken(token)
	if subtle.ConstantTimeCompare([]byte(fingerprint), []byte(inv.TokenHash)) != 1 {
		return domain.Membership{}, ErrNotFound
	}

	if !strings.EqualFold(user.Email, inv.Email) {
		return domain.Membership{}, ErrEmailMismatch
	}

	now := time.Now().UTC()
	if inv.ExpiredAt(now) {
		if err := s.store.Invitations().MarkExpired(ctx, inv.ID); err != nil && !errors.Is(err, store.ErrConflict) {
			return domain.Membership{}, err
		}
		return domain.Membership{}, ErrExpired
	}
	switch inv.Status {
	case domain.InvitationPending:
	case domain.InvitationExpired:
		return domain.Membership{}, ErrExpired
	default:
		return domain.Membership{}, ErrAlreadyResolved
	}

	membership := domain.Membership{
		ID:             idx.New(),
		OrganizationID: inv.OrganizationID,
		UserID:         user.ID,
		Role:           inv.Role,
		RegionID:       inv.RegionID,
	}

	var accepted domain.Membership
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkAccepted(ctx, inv.ID, inv.TokenHash, now); err != nil {
			return err
		}
		m, err := tx.Memberships().UpsertMembership(ctx, membership)
		if err != nil {
			return err
		}
		accepted = m
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Membership{}, s.lostRaceError(ctx, inv.ID, now)
		}
		return domain.Membership{}, err
	}

	slogx.FromContext(ctx).Info("invitation accepted",
		"organization_id", inv.OrganizationID,
		"invitation_id", inv.ID,
		"user_id", user.ID,
		"role", inv.Role,
		"region_id", inv.RegionID,
	)
	return accepted, nil
}

// Revoke cancels a pending invitation. Anything else, including a lazily
// expired one, reports not-pending.
func (s *InvitationService) Revoke(ctx context.Context, actorID, invitationID idx.ID) (domain.Invitation, error) {
	inv, err := s.store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}

	actor, err := requireMembership(ctx, s.store, inv.OrganizationID, actorID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return domain.Invitation{}, ErrInsufficientRole
	}

	now := time.Now().UTC()
	if inv.ExpiredAt(now) {
		if err := s.store.Invitations().MarkExpired(ctx, inv.ID); err != nil && !errors.Is(err, store.ErrConflict) {
			return domain.Invitation{}, err
		}
		return domain.Invitation{}, ErrNotPending
	}
	if inv.Status != domain.InvitationPending {
		return domain.Invitation{}, ErrNotPending
	}

	if err := s.store.Invitations().MarkRevoked(ctx, inv.ID, actorID, now); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Invitation{}, ErrNotPending
		}
		return domain.Invitation{}, err
	}

	revoked, err := s.store.Invitations().GetInvitationByID(ctx, inv.ID)
	if err != nil {
		return domain.Invitation{}, err
	}

	slogx.FromContext(ctx).Info("invitation revoked",
		"organization_id", inv.OrganizationID,
		"invitation_id", inv.ID,
		"actor_id", actorID,
	)
	return revoked, nil
}

// Resend re-arms an invitation to pending with a fresh token and expiry and
// sends a new mail. It works from ANY state, including accepted and
// revoked. That is the one deliberate escape from the forward-only state
// machine, so re-arming a resolved invitation is logged loudly.
func (s *InvitationService) Resend(ctx context.Context, actorID, invitationID idx.ID) (domain.Invitation, error) {
	inv, err := s.store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}

	actor, err := requireMembership(ctx, s.store, inv.OrganizationID, actorID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return domain.Invitation{}, ErrInsufficientRole
	}

	now := time.Now().UTC()
	if prior := inv.EffectiveStatus(now); prior != domain.InvitationPending {
		slogx.FromContext(ctx).Warn("resend re-arming a resolved invitation",
			"organization_id", inv.OrganizationID,
			"invitation_id", inv.ID,
			"prior_status", prior,
			"actor_id", actorID,
		)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Invitation{}, err
	}
	if err := s.store.Invitations().Reissue(ctx, inv.ID, cryptox.FingerprintToken(token), now.Add(s.ttl)); err != nil {
		return domain.Invitation{}, err
	}

	reissued, err := s.store.Invitations().GetInvitationByID(ctx, inv.ID)
	if err != nil {
		return domain.Invitation{}, err
	}

	slogx.FromContext(ctx).Info("invitation resent",
		"organization_id", inv.OrganizationID,
		"invitation_id", inv.ID,
		"resend_count", reissued.ResendCount,
		"expires_at", reissued.ExpiresAt,
	)

	if err := s.sendInvitationMail(ctx, reissued, token); err != nil {
		return reissued, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return reissued, nil
}

// List returns the organization's invitations with lazy expiry folded in:
// overdue pending rows come back as expired and are retired best-effort.
// Reading invitations requires the invitation:read capability (admin and
// above).
func (s *InvitationService) List(ctx context.Context, actorID, orgID idx.ID) ([]domain.Invitation, error) {
	actor, err := requireMembership(ctx, s.store, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		return nil, ErrInsufficientRole
	}

	invs, err := s.store.Invitations().ListInvitationsByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range invs {
		if invs[i].ExpiredAt(now) {
			if err := s.store.Invitations().MarkExpired(ctx, invs[i].ID); err != nil && !errors.Is(err, store.ErrConflict) {
				return nil, err
			}
			invs[i].Status = domain.InvitationExpired
		}
	}
	return invs, nil
}

// Get returns a single invitation with lazy expiry applied.
func (s *InvitationService) Get(ctx context.Context, actorID, invitationID idx.ID) (domain.Invitation, error) {
	inv, err := s.store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}

	actor, err := requireMembership(ctx, s.store, inv.OrganizationID, actorID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		return domain.Invitation{}, ErrInsufficientRole
	}

	now := time.Now().UTC()
	if inv.ExpiredAt(now) {
		if err := s.store.Invitations().MarkExpired(ctx, inv.ID); err != nil && !errors.Is(err, store.ErrConflict) {
			return domain.Invitation{}, err
		}
		inv.Status = domain.InvitationExpired
	}
	return inv, nil
}

// lostRaceError re-reads an invitation after a lost conditional update and
// maps the winning state to the matching sentinel.
func (s *InvitationService) lostRaceError(ctx context.Context, id idx.ID, now time.Time) error {
	latest, err := s.store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		return ErrAlreadyResolved
	}
	if latest.EffectiveStatus(now) == domain.InvitationExpired {
		return ErrExpired
	}
	return ErrAlreadyResolved
}

func (s *InvitationService) sendInvitationMail(ctx context.Context, inv domain.Invitation, token string) error {
	org, err := s.store.Organizations().GetOrganizationByID(ctx, inv.OrganizationID)
	if err != nil {
		return err
	}
	inviter, err := s.store.Users().GetUserByID(ctx, inv.InviterID)
	if err != nil {
		return err
	}

	return s.mailer.SendInvitation(ctx, notify.InvitationEmail{
		To:               inv.Email,
		OrganizationName: org.Name,
		InviterName:      strings.TrimSpace(inviter.FirstName + " " + inviter.LastName),
		InviterEmail:     inviter.Email,
		AcceptURL: fmt.Sprintf("%s/invitations/%s/accept?token=%s",
			s.acceptBaseURL, inv.ID, url.QueryEscape(token)),
		ExpiresAt: inv.ExpiresAt,
	})
}
