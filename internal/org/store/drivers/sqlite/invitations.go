package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations
			(id, organization_id, email, role, region_id, inviter_id, token_hash, status, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID.String(), inv.OrganizationID.String(), strings.ToLower(inv.Email),
		inv.Role.String(), nullID(inv.RegionID), inv.InviterID.String(),
		inv.TokenHash, string(inv.Status), inv.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id idx.ID) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, invitationColumns+`WHERE id = ?`, id.String())
	return scanInvitation(row)
}

func (r *invitationsRepo) GetPendingInvitation(ctx context.Context, orgID idx.ID, email string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		invitationColumns+`WHERE organization_id = ? AND email = ? AND status = 'pending'`,
		orgID.String(), strings.ToLower(email),
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitationsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		invitationColumns+`WHERE organization_id = ? ORDER BY created_at DESC`,
		orgID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// MarkAccepted is conditional on the row still being pending with the given
// token, so a concurrent revoke or resend makes this call lose cleanly.
func (r *invitationsRepo) MarkAccepted(ctx context.Context, id idx.ID, tokenHash string, at time.Time) error {
	return r.conditional(ctx, `
		UPDATE invitations
		SET status = 'accepted', accepted_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending' AND token_hash = ?`,
		at, id.String(), tokenHash,
	)
}

func (r *invitationsRepo) MarkRevoked(ctx context.Context, id idx.ID, revokedBy idx.ID, at time.Time) error {
	return r.conditional(ctx, `
		UPDATE invitations
		SET status = 'revoked', revoked_at = ?, revoked_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`,
		at, revokedBy.String(), id.String(),
	)
}

func (r *invitationsRepo) MarkExpired(ctx context.Context, id idx.ID) error {
	return r.conditional(ctx, `
		UPDATE invitations
		SET status = 'expired', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`,
		id.String(),
	)
}

// Reissue overwrites the status unconditionally: the one deliberate escape
// from the forward-only state machine.
func (r *invitationsRepo) Reissue(ctx context.Context, id idx.ID, tokenHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'pending', token_hash = ?, expires_at = ?,
		    accepted_at = NULL, revoked_at = NULL, revoked_by = NULL,
		    resend_count = resend_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		tokenHash, expiresAt, id.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitationsRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'expired', updated_at = CURRENT_TIMESTAMP
		WHERE status = 'pending' AND expires_at < ?`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// conditional runs an update that must match exactly one row; zero rows
// means another writer transitioned the invitation first.
func (r *invitationsRepo) conditional(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

const invitationColumns = `
	SELECT id, organization_id, email, role, region_id, inviter_id, token_hash,
	       status, expires_at, accepted_at, revoked_at, revoked_by, resend_count,
	       created_at, updated_at
	FROM invitations `

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	var id, orgID, inviterID, role, status string
	var regionID, revokedBy sql.NullString
	var acceptedAt, revokedAt sql.NullTime

	err := row.Scan(
		&id, &orgID, &inv.Email, &role, &regionID, &inviterID, &inv.TokenHash,
		&status, &inv.ExpiresAt, &acceptedAt, &revokedAt, &revokedBy, &inv.ResendCount,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Invitation{}, err
	}

	inv.ID = idx.ID(id)
	inv.OrganizationID = idx.ID(orgID)
	inv.InviterID = idx.ID(inviterID)
	inv.Role = parsed
	inv.RegionID = idFromNull(regionID)
	inv.Status = domain.InvitationStatus(status)
	inv.RevokedBy = idFromNull(revokedBy)
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		inv.RevokedAt = &t
	}
	return inv, nil
}
