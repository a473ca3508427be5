package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// BootstrapService promotes the configured super admin at process startup.
// This replaces any invisible first-user promotion: the only way to become
// super_admin without an invitation is this explicit, logged, configured
// step.
type BootstrapService struct {
	store store.Store

	// email of the account to promote. Empty disables bootstrapping.
	email string

	// orgSlug and orgName identify the bootstrap organization, created if
	// absent.
	orgSlug string
	orgName string
}

func NewBootstrapService(st store.Store, email, orgSlug, orgName string) *BootstrapService {
	if orgName == "" {
		orgName = orgSlug
	}
	return &BootstrapService{
		store:   st,
		email:   strings.ToLower(strings.TrimSpace(email)),
		orgSlug: strings.ToLower(strings.TrimSpace(orgSlug)),
		orgName: strings.TrimSpace(orgName),
	}
}

// PromoteConfiguredSuperAdmin ensures the configured account holds a
// super_admin membership in the bootstrap organization. Idempotent: safe to
// run on every startup. The account must already be registered; bootstrap
// never invents credentials.
func (s *BootstrapService) PromoteConfiguredSuperAdmin(ctx context.Context) error {
	log := slogx.FromContext(ctx)

	if s.email == "" {
		log.Debug("super admin bootstrap disabled")
		return nil
	}
	if s.orgSlug == "" {
		log.Warn("super admin bootstrap skipped: no organization slug configured")
		return nil
	}

	user, err := s.store.Users().GetUserByEmail(ctx, s.email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("super admin bootstrap skipped: account not registered", "email", s.email)
			return nil
		}
		return err
	}

	org, err := s.store.Organizations().GetOrganizationBySlug(ctx, s.orgSlug)
	if errors.Is(err, store.ErrNotFound) {
		org = domain.Organization{ID: idx.New(), Name: s.orgName, Slug: s.orgSlug}
		if err := s.store.Organizations().CreateOrganization(ctx, org); err != nil {
			// Another instance may have created it between the read and the
			// write.
			if !errors.Is(err, store.ErrAlreadyExists) {
				return err
			}
			if org, err = s.store.Organizations().GetOrganizationBySlug(ctx, s.orgSlug); err != nil {
				return err
			}
		} else {
			log.Info("bootstrap organization created", "organization_id", org.ID, "slug", org.Slug)
		}
	} else if err != nil {
		return err
	}

	existing, err := s.store.Memberships().GetMembership(ctx, org.ID, user.ID)
	if err == nil && existing.Role == domain.RoleSuperAdmin {
		return nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if _, err := s.store.Memberships().UpsertMembership(ctx, domain.Membership{
		ID:             idx.New(),
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           domain.RoleSuperAdmin,
	}); err != nil {
		return err
	}

	log.Info("super admin promoted",
		"organization_id", org.ID,
		"user_id", user.ID,
		"email", s.email,
	)
	return nil
}
