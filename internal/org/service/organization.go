package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yohannes4321/MissionForNation/internal/org/authz"
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

var ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and hyphens")

// OrganizationService manages tenants and their regions.
type OrganizationService struct {
	store store.Store
	authz *AuthorizeService
}

func NewOrganizationService(st store.Store) *OrganizationService {
	return &OrganizationService{store: st, authz: &AuthorizeService{Store: st}}
}

// CreateOrganization creates a tenant and makes the creator its first
// super_admin. Both writes happen in one transaction so an organization can
// never exist without a privileged member.
func (s *OrganizationService) CreateOrganization(ctx context.Context, actorID idx.ID, name, slug string) (domain.Organization, domain.Membership, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return domain.Organization{}, domain.Membership{}, fmt.Errorf("%w: name is required", ErrInvalidSlug)
	}
	if !validSlug(slug) {
		return domain.Organization{}, domain.Membership{}, ErrInvalidSlug
	}

	org := domain.Organization{ID: idx.New(), Name: name, Slug: slug}
	membership := domain.Membership{
		ID:             idx.New(),
		OrganizationID: org.ID,
		UserID:         actorID,
		Role:           domain.RoleSuperAdmin,
	}

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.Memberships().CreateMembership(ctx, membership)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Organization{}, domain.Membership{}, ErrAlreadyExists
		}
		return domain.Organization{}, domain.Membership{}, err
	}

	slogx.FromContext(ctx).Info("organization created",
		"organization_id", org.ID, "slug", org.Slug, "creator_id", actorID)
	return org, membership, nil
}

// GetOrganization returns an organization the actor is a member of. Non
// members get not-found, never forbidden.
func (s *OrganizationService) GetOrganization(ctx context.Context, actorID, orgID idx.ID) (domain.Organization, error) {
	if _, err := requireMembership(ctx, s.store, orgID, actorID); err != nil {
		return domain.Organization{}, err
	}
	org, err := s.store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, ErrNotFound
		}
		return domain.Organization{}, err
	}
	return org, nil
}

// ListOrganizations returns every organization the user belongs to.
func (s *OrganizationService) ListOrganizations(ctx context.Context, userID idx.ID) ([]domain.Organization, error) {
	return s.store.Organizations().ListOrganizationsForUser(ctx, userID)
}

// CreateRegion adds a region to an organization. Gated on the region:create
// capability, which only super_admin holds.
func (s *OrganizationService) CreateRegion(ctx context.Context, actorID, orgID idx.ID, name, code string) (domain.Region, error) {
	decision, err := s.authz.Authorize(ctx, actorID, authz.ActionCreate, authz.Resource{
		Kind:           authz.KindRegion,
		OrganizationID: orgID,
	})
	if err != nil {
		return domain.Region{}, err
	}
	if err := denialError(decision); err != nil {
		return domain.Region{}, err
	}

	name = strings.TrimSpace(name)
	code = strings.ToLower(strings.TrimSpace(code))
	if name == "" || code == "" {
		return domain.Region{}, fmt.Errorf("%w: region name and code are required", ErrInvalidRegion)
	}

	region := domain.Region{ID: idx.New(), OrganizationID: orgID, Name: name, Code: code}
	if err := s.store.Regions().CreateRegion(ctx, region); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Region{}, ErrAlreadyExists
		}
		return domain.Region{}, err
	}

	slogx.FromContext(ctx).Info("region created",
		"organization_id", orgID, "region_id", region.ID, "code", region.Code)
	return region, nil
}

// ListRegions returns the organization's regions. Every member may read them.
func (s *OrganizationService) ListRegions(ctx context.Context, actorID, orgID idx.ID) ([]domain.Region, error) {
	if _, err := requireMembership(ctx, s.store, orgID, actorID); err != nil {
		return nil, err
	}
	return s.store.Regions().ListRegionsByOrganization(ctx, orgID)
}

func validSlug(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return s[0] != '-' && s[len(s)-1] != '-'
}
