package sqlite

import (
	"context"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type organizationsRepo struct {
	db dbtx
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, slug) VALUES (?, ?, ?)`,
		o.ID.String(), o.Name, o.Slug,
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id idx.ID) (domain.Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, created_at FROM organizations WHERE id = ?`, id.String(),
	)
	return scanOrganization(row)
}

func (r *organizationsRepo) GetOrganizationBySlug(ctx context.Context, slug string) (domain.Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, created_at FROM organizations WHERE slug = ?`, slug,
	)
	return scanOrganization(row)
}

func (r *organizationsRepo) ListOrganizationsForUser(ctx context.Context, userID idx.ID) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.name, o.slug, o.created_at
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = ?
		ORDER BY o.created_at`, userID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrganization(row rowScanner) (domain.Organization, error) {
	var o domain.Organization
	var id string
	if err := row.Scan(&id, &o.Name, &o.Slug, &o.CreatedAt); err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	o.ID = idx.ID(id)
	return o, nil
}
