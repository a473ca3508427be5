package domain

import (
	"errors"
	"time"

	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentLink  ContentType = "link"
	ContentPhoto ContentType = "photo"
	ContentVideo ContentType = "video"
)

var ErrUnknownContentType = errors.New("domain: unknown content type")

// Valid reports whether t is one of the defined content types.
func (t ContentType) Valid() bool {
	_, err := ParseContentType(string(t))
	return err == nil
}

func ParseContentType(s string) (ContentType, error) {
	switch t := ContentType(s); t {
	case ContentText, ContentLink, ContentPhoto, ContentVideo:
		return t, nil
	default:
		return "", ErrUnknownContentType
	}
}

// Content is an organization- and region-scoped record. It is owned by the
// region it was created under; mutation authorization follows the region
// scoping rules.
type Content struct {
	ID             idx.ID
	OrganizationID idx.ID
	RegionID       idx.ID
	Type           ContentType
	Title          string
	Body           string
	URL            string // media or link target, depending on Type
	CreatedBy      idx.ID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
