package service

import (
	"context"
	"errors"

	"github.com/yohannes4321/MissionForNation/internal/org/authz"
	"github.com/yohannes4321/MissionForNation/internal/org/domain"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// AuthorizeService resolves an actor's membership and runs the pure
// authorization gate over it. It is the only place a membership lookup and
// a gate decision are stitched together, so every mutating endpoint shares
// the same denial behaviour.
type AuthorizeService struct {
	Store store.Store
}

// Authorize resolves the actor's membership in the resource's organization
// and evaluates the gate. A missing membership yields a NOT_A_MEMBER denial
// rather than an error.
func (s *AuthorizeService) Authorize(
	ctx context.Context,
	actorID idx.ID,
	action authz.Action,
	res authz.Resource,
) (authz.Decision, error) {
	m, err := s.Store.Memberships().GetMembership(ctx, res.OrganizationID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return authz.Authorize(nil, action, res), nil
		}
		return authz.Decision{}, err
	}
	return authz.Authorize(&m, action, res), nil
}

// requireMembership fetches the actor's membership in orgID, hiding its
// absence behind ErrNotFound.
func requireMembership(ctx context.Context, st store.Store, orgID, actorID idx.ID) (domain.Membership, error) {
	m, err := st.Memberships().GetMembership(ctx, orgID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}
	return m, nil
}
