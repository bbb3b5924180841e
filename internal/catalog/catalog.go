// Package catalog holds the fixed selection catalogs the creation wizard
// draws from: site kinds, templates, industries, color schemes, and the
// per-kind page and feature sets. Draft validation only accepts values
// present here.
package catalog

// Kind is the type of site being provisioned.
type Kind string

const (
	KindWebsite Kind = "website"
	KindShop    Kind = "shop"
)

// IsValidKind reports whether k is a known site kind.
func IsValidKind(k Kind) bool {
	return k == KindWebsite || k == KindShop
}

// Template describes one starting template.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}

// ColorScheme is a named brand palette.
type ColorScheme struct {
	Name      string `json:"name"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

var templates = []Template{
	{ID: "modern-fashion", Name: "Modern Fashion", Description: "Clean, minimalist design perfect for clothing and accessories", Category: "Fashion", Features: []string{"Product galleries", "Size guides", "Wishlist", "Quick view"}, Popular: true},
	{ID: "electronics-store", Name: "Electronics Store", Description: "Tech-focused template with product comparison features", Category: "Electronics", Features: []string{"Product comparison", "Specs display", "Reviews", "Search filters"}},
	{ID: "general-store", Name: "General Store", Description: "Versatile template suitable for any type of product", Category: "General", Features: []string{"Multi-category", "Featured products", "Blog integration", "SEO optimized"}},
	{ID: "marketplace", Name: "Marketplace", Description: "Multi-vendor template for marketplace businesses", Category: "Marketplace", Features: []string{"Vendor profiles", "Commission tracking", "Bulk products", "Advanced search"}},
	{ID: "boutique", Name: "Boutique", Description: "Elegant design for premium fashion and luxury items", Category: "Fashion", Features: []string{"Luxury feel", "High-quality images", "Premium checkout", "Brand storytelling"}},
	{ID: "cafe-restaurant", Name: "Café & Restaurant", Description: "Perfect for food businesses with menu and ordering features", Category: "Food", Features: []string{"Menu display", "Online ordering", "Reservations", "Delivery tracking"}},
	{ID: "photography", Name: "Photography", Description: "Portfolio-style template for photographers and creatives", Category: "Services", Features: []string{"Portfolio galleries", "Booking system", "Client proofing", "Print sales"}},
	{ID: "gaming", Name: "Gaming Store", Description: "Bold template for gaming gear and digital products", Category: "Gaming", Features: []string{"Digital downloads", "Product videos", "Community links", "Pre-orders"}},
	{ID: "wellness", Name: "Health & Wellness", Description: "Calm, trustworthy design for health and beauty brands", Category: "Beauty", Features: []string{"Ingredient lists", "Subscriptions", "Reviews", "Consultation booking"}},
}

var industries = []string{
	"Business & Consulting", "E-commerce & Retail", "Technology & Software",
	"Health & Wellness", "Education & Training", "Creative & Design",
	"Food & Restaurant", "Real Estate", "Finance & Insurance",
	"Travel & Tourism", "Sports & Fitness", "Non-profit",
}

var colorSchemes = []ColorScheme{
	{Name: "Ocean Blue", Primary: "#0ea5e9", Secondary: "#0284c7", Accent: "#0369a1"},
	{Name: "Forest Green", Primary: "#16876b", Secondary: "#0f6b54", Accent: "#059669"},
	{Name: "Sunset Orange", Primary: "#f97316", Secondary: "#ea580c", Accent: "#dc2626"},
	{Name: "Royal Purple", Primary: "#9333ea", Secondary: "#7c3aed", Accent: "#6d28d9"},
	{Name: "Rose Pink", Primary: "#ec4899", Secondary: "#db2777", Accent: "#be185d"},
}

var pagesByKind = map[Kind][]string{
	KindWebsite: {
		"Home", "About Us", "Services", "Portfolio", "Blog", "Contact",
		"Team", "Testimonials", "FAQ", "Privacy Policy",
	},
	KindShop: {
		"Home", "Shop", "Product Categories", "About Us", "Contact",
		"Cart", "Checkout", "My Account", "Shipping Info", "Returns",
	},
}

var featuresByKind = map[Kind][]string{
	KindWebsite: {
		"Contact Forms", "Newsletter Signup", "Social Media Integration",
		"Google Analytics", "SEO Optimization", "Live Chat",
		"Booking System", "Photo Gallery", "Testimonials", "Blog",
	},
	KindShop: {
		"Payment Gateway", "Inventory Management", "Order Tracking",
		"Customer Reviews", "Wishlist", "Discount Codes",
		"Multi-currency", "Shipping Calculator", "Abandoned Cart Recovery",
	},
}

var defaultPagesByKind = map[Kind][]string{
	KindWebsite: {"Home", "About Us", "Contact"},
	KindShop:    {"Home", "Shop", "About Us", "Contact", "Cart"},
}

var defaultFeaturesByKind = map[Kind][]string{
	KindWebsite: {"Contact Forms", "SEO Optimization"},
	KindShop:    {"Payment Gateway", "Inventory Management"},
}

// Templates returns every template in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a template.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateCategories returns the distinct template categories in catalog order.
func TemplateCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// TemplatesByCategory filters templates by category; empty matches all.
func TemplatesByCategory(category string) []Template {
	if category == "" {
		return Templates()
	}
	var out []Template
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Industries returns the industry choices.
func Industries() []string {
	out := make([]string, len(industries))
	copy(out, industries)
	return out
}

// ColorSchemes returns the named palettes.
func ColorSchemes() []ColorScheme {
	out := make([]ColorScheme, len(colorSchemes))
	copy(out, colorSchemes)
	return out
}

// Pages returns the selectable pages for a kind.
func Pages(k Kind) []string {
	out := make([]string, len(pagesByKind[k]))
	copy(out, pagesByKind[k])
	return out
}

// Features returns the selectable features for a kind.
func Features(k Kind) []string {
	out := make([]string, len(featuresByKind[k]))
	copy(out, featuresByKind[k])
	return out
}

// DefaultPages returns the pages pre-selected for a new draft of this kind.
func DefaultPages(k Kind) []string {
	out := make([]string, len(defaultPagesByKind[k]))
	copy(out, defaultPagesByKind[k])
	return out
}

// DefaultFeatures returns the features pre-selected for a new draft.
func DefaultFeatures(k Kind) []string {
	out := make([]string, len(defaultFeaturesByKind[k]))
	copy(out, defaultFeaturesByKind[k])
	return out
}

// IsAllowedPage reports whether page is selectable for the kind.
func IsAllowedPage(k Kind, page string) bool {
	for _, p := range pagesByKind[k] {
		if p == page {
			return true
		}
	}
	return false
}

// IsAllowedFeature reports whether feature is selectable for the kind.
func IsAllowedFeature(k Kind, feature string) bool {
	for _, f := range featuresByKind[k] {
		if f == feature {
			return true
		}
	}
	return false
}

// DefaultIndustry is the industry pre-selected for new drafts.
const DefaultIndustry = "Business & Consulting"

// DefaultColorScheme is the palette pre-selected for new drafts.
const DefaultColorScheme = "Forest Green"
