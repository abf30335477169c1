package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"STOREFRONT_BACK-END/internal/handlers"
	"STOREFRONT_BACK-END/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Auth           *handlers.AuthHandler
	Google         *handlers.GoogleAuthHandler
	ForgotPassword *handlers.ForgotPasswordHandler
	Websites       *handlers.WebsitesHandler
	Sites          *handlers.SitesHandler
	Health         *handlers.HealthHandler

	// Metrics is mounted at MetricsPath when non-nil
	Metrics     http.Handler
	MetricsPath string
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, resolver middleware.UserResolver) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(resolver)

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", auth(h.Auth.Me))
	mux.HandleFunc("GET /api/auth/google/login", h.Google.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", h.Google.GoogleCallback)
	mux.HandleFunc("POST /api/auth/forgot-password", h.ForgotPassword.ForgotPassword)
	mux.HandleFunc("POST /api/auth/verify-otp", h.ForgotPassword.VerifyOTP)
	mux.HandleFunc("POST /api/auth/reset-password", h.ForgotPassword.ResetPassword)

	// Website profile routes
	mux.HandleFunc("POST /api/websites", auth(h.Websites.CreateWebsite))
	mux.HandleFunc("GET /api/websites", auth(h.Websites.ListWebsites))
	mux.HandleFunc("GET /api/websites/{id}", auth(h.Websites.GetWebsite))
	mux.HandleFunc("PUT /api/websites/{id}", auth(h.Websites.UpdateWebsite))
	mux.HandleFunc("DELETE /api/websites/{id}", auth(h.Websites.DeleteWebsite))
	mux.HandleFunc("GET /api/websites/{id}/preview", auth(h.Websites.PreviewWebsite))

	// Public storefronts
	mux.HandleFunc("GET /api/sites/{ownerEmail}/{slug}", h.Sites.ServeSite)

	if h.Metrics != nil && h.MetricsPath != "" {
		mux.Handle("GET "+h.MetricsPath, h.Metrics)
	}
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Storefront backend is running."))
}
