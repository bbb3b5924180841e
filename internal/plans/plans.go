// Package plans defines the closed set of subscription plans a site can be
// provisioned on. Prices are annual, in whole Kenyan Shillings; the payment
// gateway is always handed the subunit amount (KES x 100).
package plans

import (
	"fmt"

	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
)

// ID identifies a plan. The set is closed: only the constants below exist.
type ID string

const (
	Standard ID = "standard"
	Premium  ID = "premium"
)

// Currency is the billing currency for all plans.
const Currency = "KES"

// SubunitMultiplier converts a whole-KES amount into the gateway's smallest
// currency subunit.
const SubunitMultiplier = 100

// Plan describes one subscription plan.
type Plan struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceAnnual int64    `json:"price_annual"` // whole KES per year
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}

var catalog = []Plan{
	{
		ID:          Standard,
		Name:        "Standard Plan",
		Description: "Perfect for small businesses and startups",
		PriceAnnual: 15000,
		Features: []string{
			"Custom E-commerce Store",
			"Up to 100 Products",
			"Basic Payment Gateway",
			"SSL Certificate Included",
			"5GB Storage Space",
			"Free Domain for 1 Year",
			"Email Support",
			"Mobile Responsive Design",
			"Basic Analytics",
			"Social Media Integration",
		},
	},
	{
		ID:          Premium,
		Name:        "Premium Plan",
		Description: "Complete solution for growing businesses",
		PriceAnnual: 30000,
		Features: []string{
			"Advanced E-commerce Store",
			"Unlimited Products",
			"Multiple Payment Gateways",
			"Advanced Inventory Management",
			"Order Management System",
			"Customer Accounts & Wishlist",
			"Advanced Shipping Calculator",
			"Tax Management",
			"Advanced Analytics & Reports",
			"Priority Support",
			"Marketing Tools",
			"Multi-currency Support",
			"Abandoned Cart Recovery",
			"SEO Optimization Tools",
		},
		Popular: true,
	},
}

// All returns every plan in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a plan by its identifier.
func ByID(id ID) (Plan, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, pkgerrors.ErrInvalidPlan
}

// IsValid reports whether id names a plan in the closed set.
func IsValid(id ID) bool {
	_, err := ByID(id)
	return err == nil
}

// SubunitAmount converts a whole-KES amount to gateway subunits.
func SubunitAmount(amountKES int64) int64 {
	return amountKES * SubunitMultiplier
}

// FormatKES renders a whole-KES amount for display, e.g. "KES 30,000".
func FormatKES(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) > 3 {
		var out []byte
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				out = append(out, ',')
			}
			out = append(out, c)
		}
		s = string(out)
	}
	return Currency + " " + s
}
