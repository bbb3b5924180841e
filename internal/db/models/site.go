package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Site lifecycle states.
const (
	SiteStatusActive      = "active"
	SiteStatusDevelopment = "development"
	SiteStatusSuspended   = "suspended"
)

// Site represents a provisioned shop or website.
type Site struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Kind        string  `gorm:"not null;default:'shop'"` // website, shop
	Name        string  `gorm:"not null"`
	Description string
	Subdomain   string  `gorm:"uniqueIndex;not null"`
	TemplateID  *string
	PlanType    string  `gorm:"not null"` // standard, premium
	Status      string  `gorm:"default:'active';index"`
	Domain      *string // custom domain, when not served from a subdomain

	Industry    string
	ColorScheme string
	Pages       datatypes.JSON `gorm:"type:json"`
	Features    datatypes.JSON `gorm:"type:json"`

	ProductsCount int64 `gorm:"default:0"`
	Revenue       int64 `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// BeforeCreate hook to set UUID if not provided
func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SetPages stores the page selection as JSON.
func (s *Site) SetPages(pages []string) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return err
	}
	s.Pages = datatypes.JSON(data)
	return nil
}

// PageList decodes the stored page selection.
func (s *Site) PageList() []string {
	var pages []string
	if len(s.Pages) == 0 {
		return pages
	}
	_ = json.Unmarshal(s.Pages, &pages)
	return pages
}

// SetFeatures stores the feature selection as JSON.
func (s *Site) SetFeatures(features []string) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	s.Features = datatypes.JSON(data)
	return nil
}

// FeatureList decodes the stored feature selection.
func (s *Site) FeatureList() []string {
	var features []string
	if len(s.Features) == 0 {
		return features
	}
	_ = json.Unmarshal(s.Features, &features)
	return features
}

// PublicHost returns the host the site is served from.
func (s *Site) PublicHost(baseDomain string) string {
	if s.Domain != nil && *s.Domain != "" {
		return *s.Domain
	}
	return s.Subdomain + "." + baseDomain
}

// TableName specifies the table name
func (Site) TableName() string {
	return "sites"
}
