package sqlite

import (
	"context"
	"database/sql"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, organization_id, user_id, role, region_id)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID.String(), m.OrganizationID.String(), m.UserID.String(),
		m.Role.String(), nullID(m.RegionID),
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id idx.ID) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, user_id, role, region_id, created_at, updated_at
		FROM memberships WHERE id = ?`, id.String(),
	)
	return scanMembership(row)
}

func (r *membershipsRepo) GetMembership(ctx context.Context, orgID, userID idx.ID) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, user_id, role, region_id, created_at, updated_at
		FROM memberships WHERE organization_id = ? AND user_id = ?`,
		orgID.String(), userID.String(),
	)
	return scanMembership(row)
}

func (r *membershipsRepo) ListMembershipsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, user_id, role, region_id, created_at, updated_at
		FROM memberships WHERE organization_id = ? ORDER BY created_at`, orgID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateRoleAndRegion writes the pair in a single statement; the schema's
// CHECK constraint rejects any half-consistent combination.
func (r *membershipsRepo) UpdateRoleAndRegion(ctx context.Context, id idx.ID, role domain.Role, regionID idx.ID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET role = ?, region_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		role.String(), nullID(regionID), id.String(),
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

func (r *membershipsRepo) UpsertMembership(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, organization_id, user_id, role, region_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, user_id)
		DO UPDATE SET role = excluded.role, region_id = excluded.region_id,
		              updated_at = CURRENT_TIMESTAMP`,
		m.ID.String(), m.OrganizationID.String(), m.UserID.String(),
		m.Role.String(), nullID(m.RegionID),
	)
	if err != nil {
		return domain.Membership{}, err
	}
	// The conflict path keeps the original row id; re-read to return the
	// membership as persisted.
	return r.GetMembership(ctx, m.OrganizationID, m.UserID)
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = ?`, id.String())
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

func scanMembership(row rowScanner) (domain.Membership, error) {
	var m domain.Membership
	var id, orgID, userID, role string
	var regionID sql.NullString
	err := row.Scan(&id, &orgID, &userID, &role, &regionID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Membership{}, err
	}

	m.ID = idx.ID(id)
	m.OrganizationID = idx.ID(orgID)
	m.UserID = idx.ID(userID)
	m.Role = parsed
	m.RegionID = idFromNull(regionID)
	return m, nil
}
