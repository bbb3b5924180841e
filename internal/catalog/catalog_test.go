package catalog

import "testing"

// TestTemplateByID tests template lookup.
func TestTemplateByID(t *testing.T) {
	tmpl, ok := TemplateByID("modern-fashion")
	if !ok {
		t.Fatal("TemplateByID(modern-fashion) not found")
	}
	if tmpl.Category != "Fashion" {
		t.Errorf("category = %q; want Fashion", tmpl.Category)
	}
	if !tmpl.Popular {
		t.Error("modern-fashion should be popular")
	}

	if _, ok := TemplateByID("no-such-template"); ok {
		t.Error("TemplateByID() should miss on unknown IDs")
	}
}

// TestTemplatesByCategory tests category filtering.
func TestTemplatesByCategory(t *testing.T) {
	fashion := TemplatesByCategory("Fashion")
	if len(fashion) != 2 {
		t.Errorf("Fashion templates = %d; want 2", len(fashion))
	}
	for _, tmpl := range fashion {
		if tmpl.Category != "Fashion" {
			t.Errorf("template %s has category %q", tmpl.ID, tmpl.Category)
		}
	}

	// Empty category matches everything
	if len(TemplatesByCategory("")) != len(Templates()) {
		t.Error("empty category should return all templates")
	}

	if got := TemplatesByCategory("Nonexistent"); len(got) != 0 {
		t.Errorf("unknown category returned %d templates; want 0", len(got))
	}
}

// TestKindCatalogs tests per-kind pages and features.
func TestKindCatalogs(t *testing.T) {
	for _, k := range []Kind{KindWebsite, KindShop} {
		if len(Pages(k)) == 0 {
			t.Errorf("Pages(%s) is empty", k)
		}
		if len(Features(k)) == 0 {
			t.Errorf("Features(%s) is empty", k)
		}

		// Defaults must be drawn from the kind's own catalog
		for _, p := range DefaultPages(k) {
			if !IsAllowedPage(k, p) {
				t.Errorf("default page %q not in %s catalog", p, k)
			}
		}
		for _, f := range DefaultFeatures(k) {
			if !IsAllowedFeature(k, f) {
				t.Errorf("default feature %q not in %s catalog", f, k)
			}
		}
	}

	// Kind catalogs must not bleed into each other
	if IsAllowedPage(KindWebsite, "Cart") {
		t.Error("Cart is a shop page, not a website page")
	}
	if IsAllowedFeature(KindShop, "Blog") {
		t.Error("Blog is a website feature, not a shop feature")
	}
}

// TestIsValidKind tests kind validation.
func TestIsValidKind(t *testing.T) {
	if !IsValidKind(KindWebsite) || !IsValidKind(KindShop) {
		t.Error("known kinds must validate")
	}
	if IsValidKind("blog") || IsValidKind("") {
		t.Error("unknown kinds must not validate")
	}
}
