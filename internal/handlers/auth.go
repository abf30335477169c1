package handlers

import (
	"net/http"

	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	identity *services.IdentityService
	metrics  *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(identity *services.IdentityService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{identity: identity, metrics: m}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new account and return an access token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 200 {object} dto.TokenResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Email already registered"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	token, err := h.identity.Register(r.Context(), req)
	h.metrics.AuthEvent("register", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTokenResponse(token))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	token, err := h.identity.Login(r.Context(), req)
	h.metrics.AuthEvent("login", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTokenResponse(token))
}

// Me returns the current user
// @Summary Get current user
// @Description Get the authenticated user's account
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}
