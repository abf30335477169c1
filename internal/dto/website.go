package dto

import (
	"STOREFRONT_BACK-END/internal/models"
)

// CreateWebsiteRequest is the payload for creating a website profile
type CreateWebsiteRequest struct {
	BusinessName        string            `json:"business_name" validate:"required,max=200"`
	BusinessDescription string            `json:"business_description" validate:"required"`
	Industry            string            `json:"industry" validate:"omitempty,max=100"`
	ContactEmail        string            `json:"contact_email" validate:"required,email"`
	ContactPhone        string            `json:"contact_phone" validate:"required,max=50"`
	Address             string            `json:"address" validate:"required"`
	LogoImage           *string           `json:"logo_image,omitempty"`
	HeroImage           *string           `json:"hero_image,omitempty"`
	Products            []models.Product  `json:"products" validate:"dive"`
	Colors              *models.Colors    `json:"colors,omitempty"`
	SocialLinks         map[string]string `json:"social_links" validate:"dive,keys,required,endkeys,omitempty,url"`
}

// UpdateWebsiteRequest is a partial update; absent fields stay unchanged
type UpdateWebsiteRequest struct {
	BusinessName        *string               `json:"business_name,omitempty" validate:"omitnil,min=1,max=200"`
	BusinessDescription *string               `json:"business_description,omitempty" validate:"omitnil,min=1"`
	Industry            *string               `json:"industry,omitempty" validate:"omitnil,max=100"`
	ContactEmail        *string               `json:"contact_email,omitempty" validate:"omitnil,email"`
	ContactPhone        *string               `json:"contact_phone,omitempty" validate:"omitnil,min=1,max=50"`
	Address             *string               `json:"address,omitempty" validate:"omitnil,min=1"`
	LogoImage           models.OptionalString `json:"logo_image" swaggertype:"string"` // null removes the image
	HeroImage           models.OptionalString `json:"hero_image" swaggertype:"string"`
	Products            *[]models.Product     `json:"products,omitempty" validate:"omitnil,dive"`
	Colors              *models.Colors        `json:"colors,omitempty"`
	SocialLinks         *map[string]string    `json:"social_links,omitempty" validate:"omitnil,dive,keys,required,endkeys,omitempty,url"`
}

// DeleteWebsiteResponse acknowledges a soft delete
type DeleteWebsiteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
