package models

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Wireless Headphones", "wireless-headphones"},
		{"  Spaced   Out  ", "spaced-out"},
		{"50% Off! (Deal)", "50-off-deal"},
		{"snake_case_name", "snake-case-name"},
		{"Already-Slugged", "already-slugged"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestProductBeforeSaveDefaults(t *testing.T) {
	p := &Product{
		Code:     "PROD-100",
		Name:     "Wireless Headphones",
		Brand:    "AudioMax",
		Category: "Electronics",
	}

	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}

	if p.Slug != "wireless-headphones-prod-100" {
		t.Errorf("slug = %q", p.Slug)
	}
	if p.MetaTitle != "Wireless Headphones | ShopWeve - Best Price & Quality" {
		t.Errorf("meta title = %q", p.MetaTitle)
	}
	if p.MetaDescription == "" {
		t.Error("meta description not generated")
	}
}

func TestProductBeforeSaveKeepsExplicitValues(t *testing.T) {
	p := &Product{
		Code:            "PROD-100",
		Name:            "Wireless Headphones",
		Slug:            "custom-slug",
		MetaTitle:       "Custom Title",
		MetaDescription: "Custom description.",
	}

	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}

	if p.Slug != "custom-slug" || p.MetaTitle != "Custom Title" || p.MetaDescription != "Custom description." {
		t.Errorf("explicit values overwritten: %q %q %q", p.Slug, p.MetaTitle, p.MetaDescription)
	}
}
