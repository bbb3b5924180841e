// Package wizard implements the site creation flow: a linear step machine
// over an in-progress draft, per-step validation, a debounced subdomain
// availability checker, checkout initiation, and final draft submission.
package wizard

import (
	"strings"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/api"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/pkg/utils"
)

// DomainMode says how the new site will be reached.
type DomainMode string

const (
	ModeSubdomain   DomainMode = "subdomain"
	ModePurchaseNew DomainMode = "purchase-new"
	ModeUseExisting DomainMode = "use-existing"
)

// Draft is the in-progress site being configured. It is mutated in place by
// the step screens and submitted whole once payment succeeds.
type Draft struct {
	Kind        catalog.Kind
	Name        string
	Description string
	Industry    string
	TemplateID  *string
	ColorScheme string
	Pages       []string
	Features    []string

	DomainMode   DomainMode
	Subdomain    string
	CustomDomain string

	PlanType plans.ID
}

// NewDraft returns a draft pre-seeded with the kind's defaults.
func NewDraft(kind catalog.Kind) *Draft {
	return &Draft{
		Kind:        kind,
		Industry:    catalog.DefaultIndustry,
		ColorScheme: catalog.DefaultColorScheme,
		Pages:       catalog.DefaultPages(kind),
		Features:    catalog.DefaultFeatures(kind),
		DomainMode:  ModeSubdomain,
		PlanType:    plans.Standard,
	}
}

// NormalizedSubdomain returns the subdomain as it would be claimed:
// lowercased, trimmed, with disallowed characters stripped.
func (d *Draft) NormalizedSubdomain() string {
	return utils.NormalizeSubdomain(d.Subdomain)
}

// PriceAnnual is derived from the selected plan; zero for an unknown plan.
func (d *Draft) PriceAnnual() int64 {
	plan, err := plans.ByID(d.PlanType)
	if err != nil {
		return 0
	}
	return plan.PriceAnnual
}

// TogglePage adds or removes a page selection. Values outside the kind's
// catalog are ignored; the selection never holds duplicates.
func (d *Draft) TogglePage(page string) {
	d.Pages = toggle(d.Pages, page, catalog.IsAllowedPage(d.Kind, page))
}

// ToggleFeature adds or removes a feature selection.
func (d *Draft) ToggleFeature(feature string) {
	d.Features = toggle(d.Features, feature, catalog.IsAllowedFeature(d.Kind, feature))
}

// HasPage reports whether the page is currently selected.
func (d *Draft) HasPage(page string) bool {
	return contains(d.Pages, page)
}

// HasFeature reports whether the feature is currently selected.
func (d *Draft) HasFeature(feature string) bool {
	return contains(d.Features, feature)
}

// ToCreateRequest converts the completed draft into the API's shape.
func (d *Draft) ToCreateRequest() api.CreateSiteRequest {
	req := api.CreateSiteRequest{
		Kind:        string(d.Kind),
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Subdomain:   d.NormalizedSubdomain(),
		TemplateID:  d.TemplateID,
		PlanType:    string(d.PlanType),
		Industry:    d.Industry,
		ColorScheme: d.ColorScheme,
		Pages:       d.Pages,
		Features:    d.Features,
	}
	return req
}

func toggle(values []string, value string, allowed bool) []string {
	if contains(values, value) {
		out := make([]string, 0, len(values)-1)
		for _, v := range values {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	}
	if !allowed {
		return values
	}
	return append(values, value)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
