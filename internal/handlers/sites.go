package handlers

import (
	"net/http"

	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/services"
)

// SitesHandler serves published storefronts without authentication
type SitesHandler struct {
	websites *services.WebsiteService
	metrics  *metrics.Metrics
}

// NewSitesHandler creates a new SitesHandler
func NewSitesHandler(websites *services.WebsiteService, m *metrics.Metrics) *SitesHandler {
	return &SitesHandler{websites: websites, metrics: m}
}

// ServeSite handles GET /api/sites/{ownerEmail}/{slug}
// @Summary Serve a public storefront
// @Description Render the active website profile identified by its owner's email and slug
// @Tags sites
// @Produce html
// @Param ownerEmail path string true "Owner email"
// @Param slug path string true "Website slug"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/sites/{ownerEmail}/{slug} [get]
func (h *SitesHandler) ServeSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.websites.GetPublic(r.Context(), r.PathValue("ownerEmail"), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeStorefront(w, r, h.metrics, "public", site)
}
