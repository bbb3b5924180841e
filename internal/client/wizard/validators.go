package wizard

import (
	"strings"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/pkg/utils"
)

// A Validator is a pure predicate over the draft: it gates Advance for its
// step, never mutates anything, and is safe to call repeatedly.
type Validator func(*Draft) bool

// ValidTemplate requires a template chosen from the catalog.
func ValidTemplate(d *Draft) bool {
	if d.TemplateID == nil {
		return false
	}
	_, ok := catalog.TemplateByID(*d.TemplateID)
	return ok
}

// ValidDetails requires a non-empty display name and a known kind.
func ValidDetails(d *Draft) bool {
	return catalog.IsValidKind(d.Kind) && strings.TrimSpace(d.Name) != ""
}

// ValidSelections requires every page and feature to come from the kind's
// catalog. Empty selections are fine; the defaults cover them.
func ValidSelections(d *Draft) bool {
	for _, p := range d.Pages {
		if !catalog.IsAllowedPage(d.Kind, p) {
			return false
		}
	}
	for _, f := range d.Features {
		if !catalog.IsAllowedFeature(d.Kind, f) {
			return false
		}
	}
	return true
}

// ValidDomain requires a claimable subdomain, or a custom domain when the
// draft opts out of the subdomain mode. Whether the subdomain is actually
// still free is the availability checker's business, not this predicate's.
func ValidDomain(d *Draft) bool {
	switch d.DomainMode {
	case ModeSubdomain:
		return utils.IsValidSubdomain(d.NormalizedSubdomain())
	case ModePurchaseNew, ModeUseExisting:
		return strings.TrimSpace(d.CustomDomain) != ""
	default:
		return false
	}
}

// ValidPlan requires a plan from the closed set.
func ValidPlan(d *Draft) bool {
	return plans.IsValid(d.PlanType)
}
