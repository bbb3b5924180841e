// Package sites implements the provisioning service behind the creation
// wizard: site CRUD scoped to the owning user, and the subdomain
// uniqueness checks the wizard relies on both while typing and again at
// submission time.
package sites

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/db/models"
	"github.com/nyattihq/nyatti/internal/plans"
	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
	"github.com/nyattihq/nyatti/pkg/logger"
	"github.com/nyattihq/nyatti/pkg/utils"

	"github.com/google/uuid"
)

// Service handles site provisioning operations.
type Service struct {
	db         *gorm.DB
	maxPerUser int
}

// NewService creates a new site service.
func NewService(db *gorm.DB, maxPerUser int) *Service {
	return &Service{
		db:         db,
		maxPerUser: maxPerUser,
	}
}

// CreateInput is the completed draft submitted at the end of the wizard.
type CreateInput struct {
	Kind        catalog.Kind
	Name        string
	Description string
	Subdomain   string
	TemplateID  *string
	PlanType    plans.ID
	Status      string
	Domain      *string
	Industry    string
	ColorScheme string
	Pages       []string
	Features    []string
}

// Create provisions a new site. The subdomain is re-checked inside the
// transaction even though the client already validated it; a slow wizard
// session can lose the race to another user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Site, error) {
	if !catalog.IsValidKind(input.Kind) {
		return nil, pkgerrors.NewAppError("SITE_KIND", "unknown site kind", nil)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.NewAppError("SITE_NAME", "site name is required", nil)
	}
	if !plans.IsValid(input.PlanType) {
		return nil, pkgerrors.ErrInvalidPlan
	}
	if input.TemplateID != nil {
		if _, ok := catalog.TemplateByID(*input.TemplateID); !ok {
			return nil, pkgerrors.ErrInvalidTemplate
		}
	}

	subdomain := utils.NormalizeSubdomain(input.Subdomain)
	if !utils.IsValidSubdomain(subdomain) {
		return nil, pkgerrors.ErrInvalidSubdomain
	}

	pages, err := validateSelections(input.Kind, input.Pages, catalog.IsAllowedPage)
	if err != nil {
		return nil, err
	}
	features, err := validateSelections(input.Kind, input.Features, catalog.IsAllowedFeature)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.SiteStatusActive
	}

	site := &models.Site{
		UserID:      userID,
		Kind:        string(input.Kind),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Subdomain:   subdomain,
		TemplateID:  input.TemplateID,
		PlanType:    string(input.PlanType),
		Status:      status,
		Domain:      input.Domain,
		Industry:    input.Industry,
		ColorScheme: input.ColorScheme,
	}
	if err := site.SetPages(pages); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode pages")
	}
	if err := site.SetFeatures(features); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode features")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Site{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to count sites")
		}
		if s.maxPerUser > 0 && count >= int64(s.maxPerUser) {
			return pkgerrors.ErrMaxSitesReached
		}

		// Authoritative uniqueness check; the client-side availability
		// status may be stale by now.
		var existing int64
		if err := tx.Model(&models.Site{}).Where("subdomain = ?", subdomain).Count(&existing).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to check subdomain")
		}
		if existing > 0 {
			return pkgerrors.ErrSubdomainTaken
		}

		if err := tx.Create(site).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrSubdomainTaken
			}
			return pkgerrors.Wrap(err, "failed to create site")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoEvent().
		Str("site_id", site.ID.String()).
		Str("subdomain", site.Subdomain).
		Str("plan", site.PlanType).
		Msg("Site provisioned")

	return site, nil
}

// List returns the user's sites, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Site, error) {
	var out []models.Site
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list sites")
	}
	return out, nil
}

// Get returns one of the user's sites by ID.
func (s *Service) Get(ctx context.Context, userID, siteID uuid.UUID) (*models.Site, error) {
	var site models.Site
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", siteID, userID).
		First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrSiteNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to load site")
	}
	return &site, nil
}

// UpdateInput is a partial site patch. Nil fields are left unchanged.
type UpdateInput struct {
	Name   *string
	Status *string
	Domain *string
}

// Update patches one of the user's sites.
func (s *Service) Update(ctx context.Context, userID, siteID uuid.UUID, patch UpdateInput) (*models.Site, error) {
	site, err := s.Get(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.SiteStatusActive, models.SiteStatusDevelopment, models.SiteStatusSuspended:
			updates["status"] = *patch.Status
		default:
			return nil, pkgerrors.NewAppError("SITE_STATUS", "unknown site status", nil)
		}
	}
	if patch.Domain != nil {
		updates["domain"] = *patch.Domain
	}

	if len(updates) == 0 {
		return site, nil
	}

	if err := s.db.WithContext(ctx).Model(site).Updates(updates).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update site")
	}
	return site, nil
}

// Delete removes one of the user's sites.
func (s *Service) Delete(ctx context.Context, userID, siteID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", siteID, userID).
		Delete(&models.Site{})
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "failed to delete site")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrSiteNotFound
	}
	return nil
}

// CheckSubdomainAvailable reports whether a subdomain can still be claimed.
// Invalid and reserved names are never available.
func (s *Service) CheckSubdomainAvailable(ctx context.Context, subdomain string) (bool, error) {
	normalized := utils.NormalizeSubdomain(subdomain)
	if !utils.IsValidSubdomain(normalized) {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("subdomain = ?", normalized).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "failed to check subdomain")
	}
	return count == 0, nil
}

func validateSelections(kind catalog.Kind, values []string, allowed func(catalog.Kind, string) bool) ([]string, error) {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		if !allowed(kind, v) {
			return nil, pkgerrors.NewAppError("SITE_SELECTION", "selection not in catalog: "+v, nil)
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}
