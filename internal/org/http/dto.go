package http

import (
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/domain"
)

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrganizationResponse(o domain.Organization) organizationResponse {
	return organizationResponse{ID: o.ID.String(), Name: o.Name, Slug: o.Slug, CreatedAt: o.CreatedAt}
}

type regionResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	CreatedAt      time.Time `json:"created_at"`
}

func toRegionResponse(r domain.Region) regionResponse {
	return regionResponse{
		ID:             r.ID.String(),
		OrganizationID: r.OrganizationID.String(),
		Name:           r.Name,
		Code:           r.Code,
		CreatedAt:      r.CreatedAt,
	}
}

type membershipResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	RegionID       string    `json:"region_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toMembershipResponse(m domain.Membership) membershipResponse {
	return membershipResponse{
		ID:             m.ID.String(),
		OrganizationID: m.OrganizationID.String(),
		UserID:         m.UserID.String(),
		Role:           m.Role.String(),
		RegionID:       m.RegionID.String(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// invitationResponse never carries the token or its fingerprint; the raw
// token only ever travels inside the invitation email.
type invitationResponse struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	RegionID       string     `json:"region_id,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	ResendCount    int        `json:"resend_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toInvitationResponse(i domain.Invitation) invitationResponse {
	return invitationResponse{
		ID:             i.ID.String(),
		OrganizationID: i.OrganizationID.String(),
		Email:          i.Email,
		Role:           i.Role.String(),
		RegionID:       i.RegionID.String(),
		Status:         string(i.Status),
		ExpiresAt:      i.ExpiresAt,
		AcceptedAt:     i.AcceptedAt,
		RevokedAt:      i.RevokedAt,
		ResendCount:    i.ResendCount,
		CreatedAt:      i.CreatedAt,
	}
}

type contentResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	RegionID       string    `json:"region_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Body           string    `json:"body,omitempty"`
	URL            string    `json:"url,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toContentResponse(c domain.Content) contentResponse {
	return contentResponse{
		ID:             c.ID.String(),
		OrganizationID: c.OrganizationID.String(),
		RegionID:       c.RegionID.String(),
		Type:           string(c.Type),
		Title:          c.Title,
		Body:           c.Body,
		URL:            c.URL,
		CreatedBy:      c.CreatedBy.String(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toInvitationResponses(invs []domain.Invitation) []invitationResponse {
	out := make([]invitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv))
	}
	return out
}

func toMembershipResponses(ms []domain.Membership) []membershipResponse {
	out := make([]membershipResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMembershipResponse(m))
	}
	return out
}
