package services

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Elegant Boutique", "elegant-boutique"},
		{"punctuation runs", "  Tom & Jerry's -- Café!! ", "tom-jerrys-cafe"},
		{"digits kept", "Shop 24/7", "shop-24-7"},
		{"accents stripped", "Crème Brûlée", "creme-brulee"},
		{"already a slug", "my-shop", "my-shop"},
		{"no ascii", "ร้านค้า", "website"},
		{"empty", "", "website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
