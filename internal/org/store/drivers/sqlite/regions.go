package sqlite

import (
	"context"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type regionsRepo struct {
	db dbtx
}

func (r *regionsRepo) CreateRegion(ctx context.Context, reg domain.Region) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO regions (id, organization_id, name, code) VALUES (?, ?, ?, ?)`,
		reg.ID.String(), reg.OrganizationID.String(), reg.Name, reg.Code,
	)
	return mapConstraint(err)
}

func (r *regionsRepo) GetRegionByID(ctx context.Context, id idx.ID) (domain.Region, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, code, created_at FROM regions WHERE id = ?`,
		id.String(),
	)
	return scanRegion(row)
}

func (r *regionsRepo) ListRegionsByOrganization(ctx context.Context, orgID idx.ID) ([]domain.Region, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, name, code, created_at
		FROM regions WHERE organization_id = ? ORDER BY name`, orgID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Region
	for rows.Next() {
		reg, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func scanRegion(row rowScanner) (domain.Region, error) {
	var reg domain.Region
	var id, orgID string
	if err := row.Scan(&id, &orgID, &reg.Name, &reg.Code, &reg.CreatedAt); err != nil {
		return domain.Region{}, mapNotFound(err)
	}
	reg.ID = idx.ID(id)
	reg.OrganizationID = idx.ID(orgID)
	return reg, nil
}
