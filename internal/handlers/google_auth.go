package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/utils"
)

const oauthStateCookie = "oauth_state"

// GoogleUserInfoFunc fetches the Google profile behind an OAuth token
type GoogleUserInfoFunc func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	identity     *services.IdentityService
	oauth2Config *oauth2.Config
	frontendURL  string
	enabled      bool
	userInfo     GoogleUserInfoFunc
	metrics      *metrics.Metrics
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(identity *services.IdentityService, cfg *config.Config, m *metrics.Metrics) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	h := &GoogleAuthHandler{
		identity:     identity,
		oauth2Config: oauth2Config,
		frontendURL:  cfg.Server.FrontendURL,
		enabled:      cfg.IsGoogleOAuthConfigured(),
		metrics:      m,
	}
	h.userInfo = h.fetchGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Return the Google consent URL and set the CSRF state cookie
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Failure 503 {object} dto.ErrorResponse "Google login not configured"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Google login disabled", "Google OAuth is not configured")
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchange the authorization code and redirect to the frontend with an access token
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by the login endpoint, must match the oauth_state cookie"
// @Success 302 "Redirect to frontend"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Failure 503 {object} dto.ErrorResponse "Google login not configured"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Google login disabled", "Google OAuth is not configured")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid state", "OAuth state does not match")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/api/auth/google", MaxAge: -1})

	log := logger.FromContext(r.Context())
	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		log.Warn("google code exchange failed", zap.Error(err))
		h.metrics.AuthEvent("google", err)
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", "Could not exchange authorization code")
		return
	}

	info, err := h.userInfo(r.Context(), token)
	if err != nil {
		log.Error("google userinfo failed", zap.Error(err))
		h.metrics.AuthEvent("google", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user info", "")
		return
	}

	jwtToken, user, err := h.identity.LoginWithGoogle(r.Context(), *info)
	h.metrics.AuthEvent("google", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, h.redirectURL(jwtToken, user.ID.String(), info), http.StatusFound)
}

func (h *GoogleAuthHandler) redirectURL(token, userID string, info *dto.GoogleUserInfo) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("token_type", "bearer")
	q.Set("user_id", userID)
	q.Set("email", info.Email)
	q.Set("name", info.Name)
	q.Set("provider", "google")
	return h.frontendURL + "/callback?" + q.Encode()
}

// fetchGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}
