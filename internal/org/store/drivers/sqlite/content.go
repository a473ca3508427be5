package sqlite

import (
	"context"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type contentRepo struct {
	db dbtx
}

func (r *contentRepo) CreateContent(ctx context.Context, c domain.Content) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content (id, organization_id, region_id, type, title, body, url, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.OrganizationID.String(), c.RegionID.String(),
		string(c.Type), c.Title, c.Body, c.URL, c.CreatedBy.String(),
	)
	return mapConstraint(err)
}

func (r *contentRepo) GetContentByID(ctx context.Context, id idx.ID) (domain.Content, error) {
	row := r.db.QueryRowContext(ctx, contentColumns+`WHERE id = ?`, id.String())
	return scanContent(row)
}

func (r *contentRepo) ListContentByRegion(ctx context.Context, regionID idx.ID) ([]domain.Content, error) {
	rows, err := r.db.QueryContext(ctx,
		contentColumns+`WHERE region_id = ? ORDER BY created_at DESC`,
		regionID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contentRepo) UpdateContent(ctx context.Context, c domain.Content) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content
		SET type = ?, title = ?, body = ?, url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(c.Type), c.Title, c.Body, c.URL, c.ID.String(),
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

func (r *contentRepo) DeleteContent(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id.String())
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

const contentColumns = `
	SELECT id, organization_id, region_id, type, title, body, url, created_by,
	       created_at, updated_at
	FROM content `

func scanContent(row rowScanner) (domain.Content, error) {
	var c domain.Content
	var id, orgID, regionID, ctype, createdBy string
	err := row.Scan(&id, &orgID, &regionID, &ctype, &c.Title, &c.Body, &c.URL,
		&createdBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Content{}, mapNotFound(err)
	}

	parsed, err := domain.ParseContentType(ctype)
	if err != nil {
		return domain.Content{}, err
	}

	c.ID = idx.ID(id)
	c.OrganizationID = idx.ID(orgID)
	c.RegionID = idx.ID(regionID)
	c.Type = parsed
	c.CreatedBy = idx.ID(createdBy)
	return c, nil
}
