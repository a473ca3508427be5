package domain

import (
	"time"

	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

// Organization is a tenant. Created by any authenticated user, who becomes
// its first super_admin. Organizations are never auto-deleted.
type Organization struct {
	ID        idx.ID
	Name      string
	Slug      string // unique
	CreatedAt time.Time
}

// Region belongs to exactly one organization; OrganizationID is immutable
// after creation.
type Region struct {
	ID             idx.ID
	OrganizationID idx.ID
	Name           string
	Code           string // short code, unique within the organization
	CreatedAt      time.Time
}
