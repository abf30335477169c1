package render

import (
	"html"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/models"
)

func testSite() *models.Website {
	return &models.Website{
		ID:                  uuid.New(),
		UserID:              uuid.New(),
		BusinessName:        "Elegant Boutique",
		BusinessDescription: "Fine clothing",
		ContactEmail:        "shop@example.com",
		ContactPhone:        "555-0100",
		Address:             "1 Market St",
		Colors:              models.Colors{}.WithDefaults(),
		Slug:                "elegant-boutique",
		IsActive:            true,
		CreatedAt:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func render(t *testing.T, site *models.Website) string {
	t.Helper()
	out, err := Storefront(site)
	if err != nil {
		t.Fatalf("Storefront: %v", err)
	}
	return string(out)
}

func TestStorefrontProductLimit(t *testing.T) {
	site := testSite()
	for i := 0; i < 8; i++ {
		site.Products = append(site.Products, models.Product{Name: "Item", Price: "9.99"})
	}
	html := render(t, site)

	if got := strings.Count(html, `class="product-card`); got != MaxProducts {
		t.Fatalf("expected %d cards, got %d", MaxProducts, got)
	}
	if strings.Contains(html, "No products yet") {
		t.Fatal("placeholder must not render with products")
	}
	if !strings.Contains(html, `data-product-index="5"`) || strings.Contains(html, `data-product-index="6"`) {
		t.Fatal("expected positional indexes 0..5")
	}
}

func TestStorefrontEmptyProducts(t *testing.T) {
	html := render(t, testSite())
	if strings.Count(html, "No products yet") != 1 {
		t.Fatal("expected one empty placeholder")
	}
	if strings.Contains(html, `class="product-card`) {
		t.Fatal("expected zero cards")
	}
}

func TestStorefrontProductDefaults(t *testing.T) {
	site := testSite()
	site.Products = []models.Product{{}}
	// attribute values are entity-escaped, e.g. "+" becomes "&#43;" in src
	page := html.UnescapeString(render(t, site))

	for _, want := range []string{
		">Product Name</h3>",
		">Product description</p>",
		"$0.00",
		`alt="Product"`,
		`data-product-name="Product"`,
		`data-product-price="0.00"`,
		`src="` + productPlaceholderImage + `"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestStorefrontSocialLinks(t *testing.T) {
	site := testSite()
	site.SocialLinks = map[string]string{"facebook": "", "twitter": "https://x.example/shop"}
	html := render(t, site)

	if got := strings.Count(html, `class="social-link `); got != 1 {
		t.Fatalf("expected exactly one social link, got %d", got)
	}
	if !strings.Contains(html, `href="https://x.example/shop"`) {
		t.Fatal("expected twitter link")
	}

	site.SocialLinks = nil
	html = render(t, site)
	if !strings.Contains(html, `class="social-links`) {
		t.Fatal("follow-us container must always render")
	}
}

func TestStorefrontSocialLinksSorted(t *testing.T) {
	site := testSite()
	site.SocialLinks = map[string]string{
		"youtube":   "https://y.example",
		"facebook":  "https://f.example",
		"instagram": "https://i.example",
	}
	html := render(t, site)
	f := strings.Index(html, "https://f.example")
	i := strings.Index(html, "https://i.example")
	y := strings.Index(html, "https://y.example")
	if !(f < i && i < y) {
		t.Fatal("expected links ordered by platform")
	}
	if render(t, site) != html {
		t.Fatal("render must be deterministic")
	}
}

func TestStorefrontColorsAndImages(t *testing.T) {
	site := testSite()
	site.Colors = models.Colors{Primary: "#000000"}
	logo := "aGVsbG8="
	site.LogoImage = &logo
	html := render(t, site)

	for _, want := range []string{
		"--color-primary: #000000",
		"--color-secondary: #1E40AF",
		"--color-accent: #F59E0B",
		`src="data:image/jpeg;base64,aGVsbG8="`,
		"Your Hero Image Here",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q", want)
		}
	}

	hero := "aGVybw=="
	site.HeroImage = &hero
	site.LogoImage = nil
	html = render(t, site)
	if strings.Contains(html, "Your Hero Image Here") {
		t.Error("hero placeholder must not render with an image")
	}
	if strings.Contains(html, `alt="Logo"`) {
		t.Error("logo must be omitted when absent")
	}
}

func TestStorefrontEscapesUserText(t *testing.T) {
	site := testSite()
	site.BusinessName = `<script>alert("x")</script>`
	bad := `"><script>`
	site.HeroImage = &bad
	site.SocialLinks = map[string]string{"evil": "javascript:alert(1)"}
	html := render(t, site)

	if strings.Contains(html, `<script>alert("x")</script>`) {
		t.Fatal("business name must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("expected escaped markup")
	}
	if strings.Contains(html, "javascript:alert") {
		t.Fatal("unsafe link scheme must be filtered")
	}
	if !strings.Contains(html, "Your Hero Image Here") {
		t.Fatal("non-base64 image must be treated as absent")
	}
}

func TestStorefrontFooter(t *testing.T) {
	site := testSite()
	site.BusinessDescription = strings.Repeat("é", 150)
	html := render(t, site)

	want := strings.Repeat("é", 100) + "..."
	if !strings.Contains(html, want) {
		t.Fatal("footer must repeat the first 100 characters followed by ...")
	}
	if !strings.Contains(html, "&copy; 2024 Elegant Boutique") {
		t.Fatal("expected footer year from creation date")
	}
}

func TestStorefrontClientScript(t *testing.T) {
	site := testSite()
	site.Products = []models.Product{{Name: "Mug", Price: "12.50"}}
	page := render(t, site)

	for _, want := range []string{
		"function addToCart(index, name, price)",
		"cart.push(",
		`id="cart-count"`,
		`id="contact-form"`,
		"getElementById('contact-form').addEventListener('submit'",
		"event.preventDefault()",
		"scrollIntoView({ behavior: 'smooth' })",
		`onclick="addToCart(this.dataset.productIndex, this.dataset.productName, this.dataset.productPrice)"`,
		`data-product-index="0"`,
		`data-product-name="Mug"`,
		`data-product-price="12.50"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("missing %q", want)
		}
	}
}
