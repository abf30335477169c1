package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/models"
	"STOREFRONT_BACK-END/internal/store"
)

// MaxListedWebsites caps how many profiles List returns
const MaxListedWebsites = 100

// WebsiteService manages website profiles scoped to their owner
type WebsiteService struct {
	websites store.WebsiteStore
	users    store.UserStore
	now      func() time.Time
	suffix   func() string
}

// NewWebsiteService creates a WebsiteService
func NewWebsiteService(websites store.WebsiteStore, users store.UserStore) *WebsiteService {
	return &WebsiteService{
		websites: websites,
		users:    users,
		now:      time.Now,
		suffix:   randomSlugSuffix,
	}
}

// randomSlugSuffix returns 8 hex characters from a random UUID
func randomSlugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create stores a new profile for owner with a slug unique among the owner's profiles
func (s *WebsiteService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateWebsiteRequest) (*models.Website, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	slug := Slugify(req.BusinessName)
	_, err := s.websites.FindWebsite(ctx, store.WebsiteFilter{UserID: owner, Slug: slug})
	switch {
	case err == nil:
		slug = slug + "-" + s.suffix()
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check slug: %w", err)
	}

	colors := models.Colors{}
	if req.Colors != nil {
		colors = *req.Colors
	}
	industry := req.Industry
	if industry == "" {
		industry = models.DefaultIndustry
	}
	products := req.Products
	if products == nil {
		products = []models.Product{}
	}
	links := req.SocialLinks
	if links == nil {
		links = map[string]string{}
	}

	now := s.now().UTC()
	site := &models.Website{
		ID:                  uuid.New(),
		UserID:              owner,
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		Industry:            industry,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		Address:             req.Address,
		LogoImage:           req.LogoImage,
		HeroImage:           req.HeroImage,
		Products:            products,
		Colors:              colors.WithDefaults(),
		SocialLinks:         links,
		Slug:                slug,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.websites.InsertWebsite(ctx, site); err != nil {
		return nil, fmt.Errorf("insert website: %w", err)
	}

	logger.FromContext(ctx).Info("website created",
		zap.String("website_id", site.ID.String()),
		zap.String("slug", site.Slug))
	return site, nil
}

// List returns the owner's active profiles in creation order
func (s *WebsiteService) List(ctx context.Context, owner uuid.UUID) ([]models.Website, error) {
	sites, err := s.websites.FindWebsites(ctx, store.WebsiteFilter{UserID: owner, ActiveOnly: true}, MaxListedWebsites)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return sites, nil
}

// Get returns an owned profile, including soft-deleted ones
func (s *WebsiteService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Website, error) {
	site, err := s.websites.FindWebsite(ctx, store.WebsiteFilter{ID: id, UserID: owner})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("find website: %w", err)
	}
	return site, nil
}

// Update changes only the fields present in req and refreshes updated_at
func (s *WebsiteService) Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateWebsiteRequest) (*models.Website, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, owner, id); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := models.WebsitePatch{
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		Industry:            req.Industry,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		Address:             req.Address,
		LogoImage:           req.LogoImage,
		HeroImage:           req.HeroImage,
		Products:            req.Products,
		SocialLinks:         req.SocialLinks,
		UpdatedAt:           &now,
	}
	if req.Colors != nil {
		colors := req.Colors.WithDefaults()
		patch.Colors = &colors
	}

	filter := store.WebsiteFilter{ID: id, UserID: owner}
	matched, err := s.websites.UpdateWebsite(ctx, filter, patch)
	if err != nil {
		return nil, fmt.Errorf("update website: %w", err)
	}
	if matched == 0 {
		return nil, ErrWebsiteNotFound
	}
	return s.Get(ctx, owner, id)
}

// Delete marks an owned profile inactive
func (s *WebsiteService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	inactive := false
	matched, err := s.websites.UpdateWebsite(ctx,
		store.WebsiteFilter{ID: id, UserID: owner},
		models.WebsitePatch{IsActive: &inactive})
	if err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	if matched == 0 {
		return ErrWebsiteNotFound
	}

	logger.FromContext(ctx).Info("website deleted", zap.String("website_id", id.String()))
	return nil
}

// GetPublic resolves an active storefront by its owner's email and slug
func (s *WebsiteService) GetPublic(ctx context.Context, ownerEmail, slug string) (*models.Website, error) {
	owner, err := s.users.FindUserByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup owner: %w", err)
	}

	site, err := s.websites.FindWebsite(ctx, store.WebsiteFilter{UserID: owner.ID, Slug: slug, ActiveOnly: true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("find website: %w", err)
	}
	return site, nil
}
