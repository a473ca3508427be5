package service

import (
	"context"
	"errors"

	"github.com/yohannes4321/MissionForNation/internal/org/authz"
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// MemberService manages existing memberships. New memberships only ever come
// from organization creation or invitation acceptance, never from here.
type MemberService struct {
	store store.Store
}

func NewMemberService(st store.Store) *MemberService {
	return &MemberService{store: st}
}

// ListMembers returns the organization's memberships. Any member may read
// the roster.
func (s *MemberService) ListMembers(ctx context.Context, actorID, orgID idx.ID) ([]domain.Membership, error) {
	if _, err := requireMembership(ctx, s.store, orgID, actorID); err != nil {
		return nil, err
	}
	return s.store.Memberships().ListMembershipsByOrganization(ctx, orgID)
}

// ChangeRole sets a member's role, and with it the region assignment: a
// change into regional_admin requires a region of the same organization, a
// change away from it clears the region silently. Role and region are
// persisted in one statement so the pairing is never observable half-updated.
func (s *MemberService) ChangeRole(ctx context.Context, actorID, membershipID idx.ID, newRole domain.Role, regionID idx.ID) (domain.Membership, error) {
	target, err := s.store.Memberships().GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	actor, err := requireMembership(ctx, s.store, target.OrganizationID, actorID)
	if err != nil {
		return domain.Membership{}, err
	}

	var region *domain.Region
	if newRole.RequiresRegion() && !regionID.IsZero() {
		r, err := s.store.Regions().GetRegionByID(ctx, regionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, err
		}
		if err == nil {
			region = &r
		}
	}

	resolvedRegion, decision := authz.RoleChange(actor, target, newRole, region)
	if err := denialError(decision); err != nil {
		return domain.Membership{}, err
	}

	if err := s.store.Memberships().UpdateRoleAndRegion(ctx, target.ID, newRole, resolvedRegion); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	updated, err := s.store.Memberships().GetMembershipByID(ctx, target.ID)
	if err != nil {
		return domain.Membership{}, err
	}

	slogx.FromContext(ctx).Info("member role changed",
		"organization_id", target.OrganizationID,
		"membership_id", target.ID,
		"from", target.Role, "to", newRole,
		"region_id", resolvedRegion,
		"actor_id", actorID,
	)
	return updated, nil
}

// RemoveMember deletes a membership. Self-removal is always denied,
// regardless of role.
func (s *MemberService) RemoveMember(ctx context.Context, actorID, membershipID idx.ID) error {
	target, err := s.store.Memberships().GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	actor, err := requireMembership(ctx, s.store, target.OrganizationID, actorID)
	if err != nil {
		return err
	}

	if err := denialError(authz.MemberRemoval(actor, target)); err != nil {
		return err
	}

	if err := s.store.Memberships().DeleteMembership(ctx, target.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("member removed",
		"organization_id", target.OrganizationID,
		"membership_id", target.ID,
		"removed_user_id", target.UserID,
		"actor_id", actorID,
	)
	return nil
}
