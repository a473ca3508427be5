// Package notify delivers invitation emails. Delivery is a side channel:
// callers surface send failures but never roll back a state transition
// because of one, since a failed send can always be retried via resend.
package notify

import (
	"context"
	"time"
)

// InvitationEmail carries everything the invitation template needs. The raw
// accept token appears only here; storage keeps its fingerprint.
type InvitationEmail struct {
	To               string
	OrganizationName string
	InviterName      string
	InviterEmail     string
	AcceptURL        string
	ExpiresAt        time.Time
}

// Mailer sends notification emails.
type Mailer interface {
	SendInvitation(ctx context.Context, msg InvitationEmail) error
}

// LogMailer logs instead of sending. Used when email delivery is not
// configured (dev environments, tests).
type LogMailer struct{}

func (LogMailer) SendInvitation(ctx context.Context, msg InvitationEmail) error {
	logFromContext(ctx).Info("invitation email (delivery disabled)",
		"to", msg.To,
		"organization", msg.OrganizationName,
		"accept_url", msg.AcceptURL,
		"expires_at", msg.ExpiresAt,
	)
	return nil
}
