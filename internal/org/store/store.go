package store

import (
	"context"
	"errors"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional update that matched no row because
	// another writer transitioned the row first. The caller should re-read
	// and surface the post-transition state.
	ErrConflict = errors.New("store: conditional update conflict")
)

// Store is the root data access interface. Concrete drivers implement it.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Organizations() Organizations
	Regions() Regions
	Memberships() Memberships
	Invitations() Invitations
	Content() Content

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations (e.g. invitation accept
	// plus membership upsert).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByEmail looks up by lowercased email. Used during login and
	// invitation acceptance.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Organizations interface {
	CreateOrganization(ctx context.Context, o domain.Organization) error
	GetOrganizationByID(ctx context.Context, id idx.ID) (domain.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (domain.Organization, error)

	// ListOrganizationsForUser returns the organizations the user holds a
	// membership in, ordered by creation date.
	ListOrganizationsForUser(ctx context.Context, userID idx.ID) ([]domain.Organization, error)
}

type Regions interface {
	CreateRegion(ctx context.Context, r domain.Region) error
	GetRegionByID(ctx context.Context, id idx.ID) (domain.Region, error)
	ListRegionsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Region, error)
}

type Memberships interface {
	CreateMembership(ctx context.Context, m domain.Membership) error
	GetMembershipByID(ctx context.Context, id idx.ID) (domain.Membership, error)

	// GetMembership resolves the (organization, user) key.
	GetMembership(ctx context.Context, orgID, userID idx.ID) (domain.Membership, error)

	ListMembershipsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Membership, error)

	// UpdateRoleAndRegion writes role and region_id in one statement so the
	// pair is never observable half-updated.
	UpdateRoleAndRegion(ctx context.Context, id idx.ID, role domain.Role, regionID idx.ID) error

	// UpsertMembership creates the (org, user) membership or, if it already
	// exists, overwrites role and region together. Used by invitation accept.
	UpsertMembership(ctx context.Context, m domain.Membership) (domain.Membership, error)

	DeleteMembership(ctx context.Context, id idx.ID) error
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	GetInvitationByID(ctx context.Context, id idx.ID) (domain.Invitation, error)

	// GetPendingInvitation returns the pending invitation for (org, email),
	// if any.
	GetPendingInvitation(ctx context.Context, orgID idx.ID, email string) (domain.Invitation, error)

	ListInvitationsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Invitation, error)

	// MarkAccepted transitions pending -> accepted, conditional on the row
	// still being pending with the given token. Returns ErrConflict when
	// another writer won.
	MarkAccepted(ctx context.Context, id idx.ID, tokenHash string, at time.Time) error

	// MarkRevoked transitions pending -> revoked, conditional on pending.
	MarkRevoked(ctx context.Context, id idx.ID, revokedBy idx.ID, at time.Time) error

	// MarkExpired transitions pending -> expired, conditional on pending.
	// Used for the lazy read-side transition.
	MarkExpired(ctx context.Context, id idx.ID) error

	// Reissue overwrites status back to pending unconditionally with a new
	// token fingerprint and expiry, bumping resend_count. This is resend's
	// deliberate escape from the forward-only state machine.
	Reissue(ctx context.Context, id idx.ID, tokenHash string, expiresAt time.Time) error

	// ExpireOverdue flips every overdue pending invitation to expired and
	// returns how many rows changed. Housekeeping only; the lazy read-side
	// transition stays authoritative.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Content interface {
	CreateContent(ctx context.Context, c domain.Content) error
	GetContentByID(ctx context.Context, id idx.ID) (domain.Content, error)
	ListContentByRegion(ctx context.Context, regionID idx.ID) ([]domain.Content, error)
	UpdateContent(ctx context.Context, c domain.Content) error
	DeleteContent(ctx context.Context, id idx.ID) error
}
