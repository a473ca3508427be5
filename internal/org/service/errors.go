package service

import (
	"errors"

	"github.com/yohannes4321/MissionForNation/internal/org/authz"
)

// One sentinel per reason code in the error taxonomy. The HTTP layer maps
// these to transport status; the services never retry, every error is a
// terminal decision.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotAMember       = errors.New("not a member of this organization")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrRegionMismatch   = errors.New("region does not match the actor's assignment")
	ErrInvalidRegion    = errors.New("invalid region")
	ErrSelfRoleChange   = errors.New("actors may not change their own role")
	ErrSelfRemoval      = errors.New("actors may not remove their own membership")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")

	ErrExpired         = errors.New("invitation expired")
	ErrAlreadyResolved = errors.New("invitation already resolved")
	ErrNotPending      = errors.New("invitation is not pending")
	ErrEmailMismatch   = errors.New("invitation was issued to a different email")
	ErrAlreadyExists   = errors.New("a pending invitation already exists for this email")

	// ErrNotificationFailed reports a failed email send after the state
	// transition already committed. The returned invitation is valid and
	// the operation can simply be retried.
	ErrNotificationFailed = errors.New("state updated but notification delivery failed")
)

// denialError translates a deny decision into the matching sentinel.
// CrossOrg and NotAMember surface as ErrNotFound so callers cannot probe
// for existence across organizations.
func denialError(d authz.Decision) error {
	if d.Allow {
		return nil
	}
	switch d.Reason {
	case authz.ReasonNotAMember, authz.ReasonCrossOrg:
		return ErrNotFound
	case authz.ReasonInsufficientRole:
		return ErrInsufficientRole
	case authz.ReasonRegionMismatch:
		return ErrRegionMismatch
	case authz.ReasonInvalidRegion:
		return ErrInvalidRegion
	case authz.ReasonSelfRoleChange:
		return ErrSelfRoleChange
	case authz.ReasonSelfRemoval:
		return ErrSelfRemoval
	default:
		return ErrInsufficientRole
	}
}
