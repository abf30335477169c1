package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/models"
	"STOREFRONT_BACK-END/internal/render"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/utils"
)

// WebsitesHandler manages the authenticated website profile endpoints
type WebsitesHandler struct {
	websites *services.WebsiteService
	metrics  *metrics.Metrics
}

// NewWebsitesHandler creates a new WebsitesHandler
func NewWebsitesHandler(websites *services.WebsiteService, m *metrics.Metrics) *WebsitesHandler {
	return &WebsitesHandler{websites: websites, metrics: m}
}

// CreateWebsite handles POST /api/websites
// @Summary Create a website profile
// @Tags websites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateWebsiteRequest true "Website profile"
// @Success 200 {object} models.Website
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/websites [post]
func (h *WebsitesHandler) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateWebsiteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	site, err := h.websites.Create(r.Context(), user.ID, req)
	h.metrics.WebsiteOp("create", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, site)
}

// ListWebsites handles GET /api/websites
// @Summary List active website profiles of the current user
// @Tags websites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Website
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/websites [get]
func (h *WebsitesHandler) ListWebsites(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	sites, err := h.websites.List(r.Context(), user.ID)
	h.metrics.WebsiteOp("list", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, sites)
}

// GetWebsite handles GET /api/websites/{id}
// @Summary Get a website profile
// @Tags websites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Website ID"
// @Success 200 {object} models.Website
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/websites/{id} [get]
func (h *WebsitesHandler) GetWebsite(w http.ResponseWriter, r *http.Request) {
	site, ok := h.ownedWebsite(w, r)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, site)
}

// UpdateWebsite handles PUT /api/websites/{id}
// @Summary Update a website profile
// @Description Only the fields present in the body change
// @Tags websites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Website ID"
// @Param payload body dto.UpdateWebsiteRequest true "Fields to change"
// @Success 200 {object} models.Website
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/websites/{id} [put]
func (h *WebsitesHandler) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := websiteID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateWebsiteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	site, err := h.websites.Update(r.Context(), user.ID, id, req)
	h.metrics.WebsiteOp("update", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, site)
}

// DeleteWebsite handles DELETE /api/websites/{id}
// @Summary Soft delete a website profile
// @Tags websites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Website ID"
// @Success 200 {object} dto.DeleteWebsiteResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/websites/{id} [delete]
func (h *WebsitesHandler) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := websiteID(w, r)
	if !ok {
		return
	}

	err := h.websites.Delete(r.Context(), user.ID, id)
	h.metrics.WebsiteOp("delete", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteWebsiteResponse{
		Message: "Website deleted successfully",
		ID:      id.String(),
	})
}

// PreviewWebsite handles GET /api/websites/{id}/preview
// @Summary Preview the rendered storefront
// @Tags websites
// @Produce html
// @Security BearerAuth
// @Param id path string true "Website ID"
// @Success 200 {string} string "HTML document"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/websites/{id}/preview [get]
func (h *WebsitesHandler) PreviewWebsite(w http.ResponseWriter, r *http.Request) {
	site, ok := h.ownedWebsite(w, r)
	if !ok {
		return
	}
	writeStorefront(w, r, h.metrics, "preview", site)
}

func (h *WebsitesHandler) ownedWebsite(w http.ResponseWriter, r *http.Request) (*models.Website, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := websiteID(w, r)
	if !ok {
		return nil, false
	}

	site, err := h.websites.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return site, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return nil, false
	}
	return user, true
}

// websiteID parses the {id} path value. A malformed id cannot name a stored
// profile, so it is reported as not found.
func websiteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Website not found", services.ErrWebsiteNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

func writeStorefront(w http.ResponseWriter, r *http.Request, m *metrics.Metrics, source string, site *models.Website) {
	start := time.Now()
	html, err := render.Storefront(site)
	m.ObserveRender(source, start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteHTMLResponse(w, http.StatusOK, html)
}
