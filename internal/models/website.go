package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultIndustry is assigned when a profile does not name one
const DefaultIndustry = "ecommerce"

// Default theme colors
const (
	DefaultPrimaryColor   = "#3B82F6"
	DefaultSecondaryColor = "#1E40AF"
	DefaultAccentColor    = "#F59E0B"
)

// Website is a business profile rendered as a public storefront
type Website struct {
	ID                  uuid.UUID         `json:"id" db:"id"`
	UserID              uuid.UUID         `json:"user_id" db:"user_id"`
	BusinessName        string            `json:"business_name" db:"business_name"`
	BusinessDescription string            `json:"business_description" db:"business_description"`
	Industry            string            `json:"industry" db:"industry"`
	ContactEmail        string            `json:"contact_email" db:"contact_email"`
	ContactPhone        string            `json:"contact_phone" db:"contact_phone"`
	Address             string            `json:"address" db:"address"`
	LogoImage           *string           `json:"logo_image" db:"logo_image"` // base64, no data: prefix
	HeroImage           *string           `json:"hero_image" db:"hero_image"`
	Products            []Product         `json:"products" db:"products"`         // JSONB
	Colors              Colors            `json:"colors" db:"colors"`             // JSONB
	SocialLinks         map[string]string `json:"social_links" db:"social_links"` // JSONB
	Slug                string            `json:"slug" db:"slug"`
	IsActive            bool              `json:"is_active" db:"is_active"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// Product is a listing shown on the storefront; it has no identity beyond its position
type Product struct {
	Name        string  `json:"name" validate:"max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       Price   `json:"price"`
	Image       *string `json:"image"`
}

// Colors are the three theme slots
type Colors struct {
	Primary   string `json:"primary" validate:"omitempty,hexcolor"`
	Secondary string `json:"secondary" validate:"omitempty,hexcolor"`
	Accent    string `json:"accent" validate:"omitempty,hexcolor"`
}

// WithDefaults fills every empty slot with its default color
func (c Colors) WithDefaults() Colors {
	if c.Primary == "" {
		c.Primary = DefaultPrimaryColor
	}
	if c.Secondary == "" {
		c.Secondary = DefaultSecondaryColor
	}
	if c.Accent == "" {
		c.Accent = DefaultAccentColor
	}
	return c
}

// Price is kept as display text. JSON numbers are accepted and stored as
// their decimal representation.
type Price string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or a number: %w", err)
	}
	*p = Price(n.String())
	return nil
}

// OptionalString tells an absent JSON field apart from an explicit null.
// Set is true whenever the field was present; Value is nil for null.
type OptionalString struct {
	Set   bool
	Value *string
}

// SomeString returns a present OptionalString holding v, or null when v is nil
func SomeString(v *string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// UnmarshalJSON only runs for present fields, so it always marks o as set
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// WebsitePatch carries the fields of a partial update. Nil (or an unset
// OptionalString) means unchanged.
type WebsitePatch struct {
	BusinessName        *string
	BusinessDescription *string
	Industry            *string
	ContactEmail        *string
	ContactPhone        *string
	Address             *string
	LogoImage           OptionalString
	HeroImage           OptionalString
	Products            *[]Product
	Colors              *Colors
	SocialLinks         *map[string]string
	IsActive            *bool
	UpdatedAt           *time.Time
}

// Apply copies every present field onto w
func (p WebsitePatch) Apply(w *Website) {
	if p.BusinessName != nil {
		w.BusinessName = *p.BusinessName
	}
	if p.BusinessDescription != nil {
		w.BusinessDescription = *p.BusinessDescription
	}
	if p.Industry != nil {
		w.Industry = *p.Industry
	}
	if p.ContactEmail != nil {
		w.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		w.ContactPhone = *p.ContactPhone
	}
	if p.Address != nil {
		w.Address = *p.Address
	}
	if p.LogoImage.Set {
		w.LogoImage = p.LogoImage.Value
	}
	if p.HeroImage.Set {
		w.HeroImage = p.HeroImage.Value
	}
	if p.Products != nil {
		w.Products = *p.Products
	}
	if p.Colors != nil {
		w.Colors = *p.Colors
	}
	if p.SocialLinks != nil {
		w.SocialLinks = *p.SocialLinks
	}
	if p.IsActive != nil {
		w.IsActive = *p.IsActive
	}
	if p.UpdatedAt != nil {
		w.UpdatedAt = *p.UpdatedAt
	}
}
