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

var ErrInvalidContent = errors.New("invalid content")

// ContentInput carries the mutable fields of a content record.
type ContentInput struct {
	Type  domain.ContentType
	Title string
	Body  string
	URL   string
}

// ContentService manages region-scoped content. Every mutation goes through
// the composed authorization gate; regional_admin only touches content in
// its own region.
type ContentService struct {
	store store.Store
	authz *AuthorizeService
}

func NewContentService(st store.Store) *ContentService {
	return &ContentService{store: st, authz: &AuthorizeService{Store: st}}
}

// CreateContent creates a record under a region. The owning organization is
// derived from the region, never trusted from the caller.
func (s *ContentService) CreateContent(ctx context.Context, actorID, regionID idx.ID, in ContentInput) (domain.Content, error) {
	region, err := s.store.Regions().GetRegionByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}

	if err := s.gate(ctx, actorID, authz.ActionCreate, region.OrganizationID, region.ID); err != nil {
		return domain.Content{}, err
	}
	if err := validateContent(in); err != nil {
		return domain.Content{}, err
	}

	c := domain.Content{
		ID:             idx.New(),
		OrganizationID: region.OrganizationID,
		RegionID:       region.ID,
		Type:           in.Type,
		Title:          strings.TrimSpace(in.Title),
		Body:           in.Body,
		URL:            strings.TrimSpace(in.URL),
		CreatedBy:      actorID,
	}
	if err := s.store.Content().CreateContent(ctx, c); err != nil {
		return domain.Content{}, err
	}

	slogx.FromContext(ctx).Info("content created",
		"organization_id", c.OrganizationID,
		"region_id", c.RegionID,
		"content_id", c.ID,
		"type", c.Type,
		"actor_id", actorID,
	)
	return c, nil
}

// GetContent returns a record the actor's organization owns. Cross-tenant
// ids come back as not-found.
func (s *ContentService) GetContent(ctx context.Context, actorID, contentID idx.ID) (domain.Content, error) {
	c, err := s.fetch(ctx, contentID)
	if err != nil {
		return domain.Content{}, err
	}
	if err := s.gate(ctx, actorID, authz.ActionRead, c.OrganizationID, c.RegionID); err != nil {
		return domain.Content{}, err
	}
	return c, nil
}

// ListContent returns a region's content, newest first.
func (s *ContentService) ListContent(ctx context.Context, actorID, regionID idx.ID) ([]domain.Content, error) {
	region, err := s.store.Regions().GetRegionByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.gate(ctx, actorID, authz.ActionRead, region.OrganizationID, region.ID); err != nil {
		return nil, err
	}
	return s.store.Content().ListContentByRegion(ctx, regionID)
}

// UpdateContent overwrites a record's mutable fields.
func (s *ContentService) UpdateContent(ctx context.Context, actorID, contentID idx.ID, in ContentInput) (domain.Content, error) {
	c, err := s.fetch(ctx, contentID)
	if err != nil {
		return domain.Content{}, err
	}
	if err := s.gate(ctx, actorID, authz.ActionUpdate, c.OrganizationID, c.RegionID); err != nil {
		return domain.Content{}, err
	}
	if err := validateContent(in); err != nil {
		return domain.Content{}, err
	}

	c.Type = in.Type
	c.Title = strings.TrimSpace(in.Title)
	c.Body = in.Body
	c.URL = strings.TrimSpace(in.URL)
	if err := s.store.Content().UpdateContent(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}
	return s.fetch(ctx, contentID)
}

// DeleteContent removes a record.
func (s *ContentService) DeleteContent(ctx context.Context, actorID, contentID idx.ID) error {
	c, err := s.fetch(ctx, contentID)
	if err != nil {
		return err
	}
	if err := s.gate(ctx, actorID, authz.ActionDelete, c.OrganizationID, c.RegionID); err != nil {
		return err
	}
	if err := s.store.Content().DeleteContent(ctx, contentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("content deleted",
		"organization_id", c.OrganizationID,
		"region_id", c.RegionID,
		"content_id", c.ID,
		"actor_id", actorID,
	)
	return nil
}

func (s *ContentService) fetch(ctx context.Context, id idx.ID) (domain.Content, error) {
	c, err := s.store.Content().GetContentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}
	return c, nil
}

func (s *ContentService) gate(ctx context.Context, actorID idx.ID, action authz.Action, orgID, regionID idx.ID) error {
	decision, err := s.authz.Authorize(ctx, actorID, action, authz.Resource{
		Kind:           authz.KindContent,
		OrganizationID: orgID,
		RegionID:       regionID,
	})
	if err != nil {
		return err
	}
	return denialError(decision)
}

func validateContent(in ContentInput) error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidContent, in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidContent)
	}
	switch in.Type {
	case domain.ContentLink, domain.ContentPhoto, domain.ContentVideo:
		if strings.TrimSpace(in.URL) == "" {
			return fmt.Errorf("%w: %s content requires a url", ErrInvalidContent, in.Type)
		}
	}
	return nil
}
