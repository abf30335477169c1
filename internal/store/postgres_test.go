package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/models"
)

func TestWebsiteWhere(t *testing.T) {
	id, owner := uuid.New(), uuid.New()
	where, args := websiteWhere(WebsiteFilter{ID: id, UserID: owner, ActiveOnly: true}, 3)

	want := " WHERE id = $3 AND user_id = $4 AND is_active = true"
	if where != want {
		t.Fatalf("got %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != id || args[1] != owner {
		t.Fatalf("unexpected args %v", args)
	}

	if where, args := websiteWhere(WebsiteFilter{}, 1); where != "" || args != nil {
		t.Fatalf("expected empty filter, got %q %v", where, args)
	}
}

func TestWebsiteSet(t *testing.T) {
	name := "New Name"
	colors := models.Colors{Primary: "#000000"}
	set, args, err := websiteSet(models.WebsitePatch{BusinessName: &name, Colors: &colors})
	if err != nil {
		t.Fatalf("websiteSet: %v", err)
	}

	got := strings.Join(set, ", ")
	if got != "business_name = $1, colors = $2::jsonb" {
		t.Fatalf("unexpected SET clause %q", got)
	}
	if args[0] != "New Name" || args[1] != `{"primary":"#000000","secondary":"","accent":""}` {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestWebsiteSetNullImage(t *testing.T) {
	set, args, err := websiteSet(models.WebsitePatch{HeroImage: models.SomeString(nil)})
	if err != nil {
		t.Fatalf("websiteSet: %v", err)
	}
	if len(set) != 1 || set[0] != "hero_image = $1" {
		t.Fatalf("unexpected SET clause %v", set)
	}
	if v, ok := args[0].(*string); !ok || v != nil {
		t.Fatalf("expected a nil *string for NULL, got %#v", args[0])
	}

	if set, _, _ := websiteSet(models.WebsitePatch{}); len(set) != 0 {
		t.Fatalf("unset images must not be written, got %v", set)
	}
}
