// Package render turns a website profile into a standalone HTML storefront.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"unicode/utf8"

	"STOREFRONT_BACK-END/internal/models"
)

const (
	// MaxProducts is the number of product cards a storefront shows
	MaxProducts = 6
	// footerSummaryRunes is how much of the description the footer repeats
	footerSummaryRunes = 100

	defaultProductName        = "Product Name"
	defaultProductLabel       = "Product"
	defaultProductDescription = "Product description"
	defaultProductPrice       = "0.00"
	productPlaceholderImage   = "https://via.placeholder.com/300x200?text=Product+Image"
)

//go:embed templates/storefront.html
var templatesFS embed.FS

var storefrontTmpl = template.Must(template.ParseFS(templatesFS, "templates/storefront.html"))

var base64Blob = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

type storefrontView struct {
	BusinessName        string
	BusinessDescription string
	FooterSummary       string
	ContactEmail        string
	ContactPhone        string
	Address             string
	Colors              models.Colors
	LogoURL             template.URL
	HeroURL             template.URL
	Products            []productView
	SocialLinks         []socialLinkView
	Year                int
}

type productView struct {
	Index       int
	Name        string
	Label       string
	Description string
	Price       string
	ImageURL    template.URL
}

type socialLinkView struct {
	Platform string
	URL      string
}

// Storefront renders the complete HTML document for site. Every optional
// field has a fallback so a stored profile always renders.
func Storefront(site *models.Website) ([]byte, error) {
	view := storefrontView{
		BusinessName:        site.BusinessName,
		BusinessDescription: site.BusinessDescription,
		FooterSummary:       truncateRunes(site.BusinessDescription, footerSummaryRunes) + "...",
		ContactEmail:        site.ContactEmail,
		ContactPhone:        site.ContactPhone,
		Address:             site.Address,
		Colors:              site.Colors.WithDefaults(),
		LogoURL:             imageURL(site.LogoImage),
		HeroURL:             imageURL(site.HeroImage),
		Products:            productViews(site.Products),
		SocialLinks:         socialLinkViews(site.SocialLinks),
		Year:                site.CreatedAt.Year(),
	}

	var buf bytes.Buffer
	if err := storefrontTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render storefront %s: %w", site.ID, err)
	}
	return buf.Bytes(), nil
}

func productViews(products []models.Product) []productView {
	if len(products) > MaxProducts {
		products = products[:MaxProducts]
	}

	views := make([]productView, 0, len(products))
	for i, p := range products {
		v := productView{
			Index:       i,
			Name:        orDefault(p.Name, defaultProductName),
			Label:       orDefault(p.Name, defaultProductLabel),
			Description: orDefault(p.Description, defaultProductDescription),
			Price:       orDefault(string(p.Price), defaultProductPrice),
			ImageURL:    imageURL(p.Image),
		}
		if v.ImageURL == "" {
			v.ImageURL = productPlaceholderImage
		}
		views = append(views, v)
	}
	return views
}

// socialLinkViews drops empty URLs and orders platforms by name
func socialLinkViews(links map[string]string) []socialLinkView {
	views := make([]socialLinkView, 0, len(links))
	for platform, url := range links {
		if url == "" {
			continue
		}
		views = append(views, socialLinkView{Platform: platform, URL: url})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Platform < views[j].Platform })
	return views
}

// imageURL wraps a base64 blob in a data URL. Anything that is not plain
// base64 text is treated as no image.
func imageURL(blob *string) template.URL {
	if blob == nil || !base64Blob.MatchString(*blob) {
		return ""
	}
	return template.URL("data:image/jpeg;base64," + *blob)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
