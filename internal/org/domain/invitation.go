package domain

import (
	"time"

	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// InvitationStatus is the invitation lifecycle state.
//
// pending is the only live state. accepted and revoked are terminal;
// expired is semi-terminal, reachable from pending when the TTL passes and
// recoverable only through resend. Resend forces any state back to pending,
// which is the one deliberate escape from the forward-only flow.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation proposes a membership to an email address. Only the token
// fingerprint is stored; the raw token travels inside the invitation email.
type Invitation struct {
	ID             idx.ID
	OrganizationID idx.ID
	Email          string // stored lowercased
	Role           Role
	RegionID       idx.ID // required iff Role == regional_admin
	InviterID      idx.ID
	TokenHash      string
	Status         InvitationStatus
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
	RevokedAt      *time.Time
	RevokedBy      idx.ID
	ResendCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpiredAt reports whether the invitation is past its expiry at the given
// instant while still pending. Expiry is evaluated lazily on read, never by
// a background sweep racing the accept flow.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return i.Status == InvitationPending && now.After(i.ExpiresAt)
}

// EffectiveStatus returns the status an observer sees at the given instant,
// folding lazy expiry into the read.
func (i Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.ExpiredAt(now) {
		return InvitationExpired
	}
	return i.Status
}
