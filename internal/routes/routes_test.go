package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/handlers"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/models"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/store"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendVerificationCode(to, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	mailer  *captureMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{FrontendURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			Issuer:         "storefront-test",
			AccessTokenTTL: 30 * time.Minute,
			ResetTokenTTL:  10 * time.Minute,
		},
	}
	st := store.NewMemoryStore()
	mailer := &captureMailer{codes: map[string]string{}}

	identity := services.NewIdentityService(st, &cfg.JWT)
	websites := services.NewWebsiteService(st, st)
	resets := services.NewPasswordResetService(st, st, mailer, &cfg.JWT)
	m := metrics.New()

	mux := SetupRoutes(Handlers{
		Auth:           handlers.NewAuthHandler(identity, m),
		Google:         handlers.NewGoogleAuthHandler(identity, cfg, m),
		ForgotPassword: handlers.NewForgotPasswordHandler(resets, m),
		Websites:       handlers.NewWebsitesHandler(websites, m),
		Sites:          handlers.NewSitesHandler(websites, m),
		Health:         handlers.NewHealthHandler(st),
		Metrics:        m.Handler(),
		MetricsPath:    "/metrics",
	}, identity)

	return &testServer{t: t, handler: m.Middleware(mux), mailer: mailer}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

func (s *testServer) register(name, email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Name: name, Email: email, Password: password})
	expectStatus(s.t, w, http.StatusOK)
	return decode[dto.TokenResponse](s.t, w).AccessToken
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	token := s.register("Jane", "jane@example.com", "secret1")
	if token == "" {
		t.Fatal("empty token")
	}

	w := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Name: "Jane", Email: "nope", Password: "123"})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	details := decode[dto.ErrorResponse](t, w).Details
	if details["email"] != "email" || details["password"] != "min=6" {
		t.Fatalf("unexpected details %v", details)
	}

	w = s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	expectStatus(t, w, http.StatusUnauthorized)
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatal("missing WWW-Authenticate on failed login")
	}

	w = s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	expectStatus(t, w, http.StatusOK)
	login := decode[dto.TokenResponse](t, w)
	if login.TokenType != "bearer" {
		t.Fatalf("token type %q", login.TokenType)
	}

	expectStatus(t, s.do(http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized)
	w = s.do(http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	expectStatus(t, w, http.StatusOK)
	if me := decode[dto.UserResponse](t, w); me.Email != "jane@example.com" || !me.IsActive {
		t.Fatalf("unexpected user %+v", me)
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	expectStatus(t, w, http.StatusBadRequest)

	r = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestWebsiteLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Owner", "owner@example.com", "secret1")
	other := s.register("Other", "other@example.com", "secret1")

	expectStatus(t, s.do(http.MethodGet, "/api/websites", "", nil), http.StatusUnauthorized)

	w := s.do(http.MethodPost, "/api/websites", token, map[string]any{
		"business_name":        "Café Olé",
		"business_description": "Coffee & <cake>",
		"contact_email":        "shop@example.com",
		"contact_phone":        "555-0100",
		"address":              "1 Market St",
		"products": []map[string]any{
			{"name": "Latte", "description": "Hot", "price": 4.5},
		},
		"social_links": map[string]string{"instagram": "https://instagram.com/cafe"},
	})
	expectStatus(t, w, http.StatusOK)
	site := decode[models.Website](t, w)
	if site.Slug != "cafe-ole" || site.Industry != models.DefaultIndustry || !site.IsActive {
		t.Fatalf("unexpected website %+v", site)
	}
	if site.Colors.Primary != models.DefaultPrimaryColor {
		t.Fatalf("colors not defaulted: %+v", site.Colors)
	}

	w = s.do(http.MethodPost, "/api/websites", token, map[string]any{"business_name": "Missing fields"})
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w = s.do(http.MethodGet, "/api/websites", token, nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]models.Website](t, w); len(list) != 1 || list[0].ID != site.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	path := "/api/websites/" + site.ID.String()
	expectStatus(t, s.do(http.MethodGet, path, token, nil), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, path, other, nil), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodGet, "/api/websites/not-a-uuid", token, nil), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodGet, "/api/websites/"+uuid.NewString(), token, nil), http.StatusNotFound)

	w = s.do(http.MethodPut, path, token, map[string]any{"contact_phone": "555-0199"})
	expectStatus(t, w, http.StatusOK)
	updated := decode[models.Website](t, w)
	if updated.ContactPhone != "555-0199" || updated.BusinessName != "Café Olé" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.UpdatedAt.Before(site.UpdatedAt) {
		t.Fatalf("updated_at moved backwards")
	}
	expectStatus(t, s.do(http.MethodPut, path, other, map[string]any{"contact_phone": "x"}), http.StatusNotFound)

	w = s.do(http.MethodGet, path+"/preview", token, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Café Olé") || !strings.Contains(body, "Latte") {
		t.Fatal("preview missing profile content")
	}
	if strings.Contains(body, "<cake>") {
		t.Fatal("description rendered unescaped")
	}

	w = s.do(http.MethodGet, "/api/sites/owner@example.com/cafe-ole", "", nil)
	expectStatus(t, w, http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/api/sites/nobody@example.com/cafe-ole", "", nil), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodGet, "/api/sites/owner@example.com/unknown", "", nil), http.StatusNotFound)

	expectStatus(t, s.do(http.MethodDelete, path, other, nil), http.StatusNotFound)
	w = s.do(http.MethodDelete, path, token, nil)
	expectStatus(t, w, http.StatusOK)
	if del := decode[dto.DeleteWebsiteResponse](t, w); del.ID != site.ID.String() {
		t.Fatalf("unexpected delete response %+v", del)
	}

	// the owner still sees a soft-deleted profile
	w = s.do(http.MethodGet, path, token, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Website](t, w); got.IsActive {
		t.Fatal("profile still active after delete")
	}
	expectStatus(t, s.do(http.MethodGet, "/api/sites/owner@example.com/cafe-ole", "", nil), http.StatusNotFound)
	w = s.do(http.MethodGet, "/api/websites", token, nil)
	if list := decode[[]models.Website](t, w); len(list) != 0 {
		t.Fatalf("deleted website still listed")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.register("Jane", "jane@example.com", "secret1")

	expectStatus(t, s.do(http.MethodPost, "/api/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "ghost@example.com"}), http.StatusNotFound)

	w := s.do(http.MethodPost, "/api/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "jane@example.com"})
	expectStatus(t, w, http.StatusOK)
	if resp := decode[dto.ForgotPasswordResponse](t, w); resp.ExpiresIn != services.ResetCodeTTL.String() {
		t.Fatalf("expires_in %q", resp.ExpiresIn)
	}

	w = s.do(http.MethodPost, "/api/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "jane@example.com"})
	expectStatus(t, w, http.StatusTooManyRequests)
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}

	code := s.mailer.codes["jane@example.com"]
	if len(code) != 6 {
		t.Fatalf("code %q not captured", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	expectStatus(t, s.do(http.MethodPost, "/api/auth/verify-otp", "", dto.VerifyOTPRequest{Email: "jane@example.com", Code: wrong}), http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/auth/verify-otp", "", dto.VerifyOTPRequest{Email: "jane@example.com", Code: code})
	expectStatus(t, w, http.StatusOK)
	verified := decode[dto.VerifyOTPResponse](t, w)
	if verified.ExpiresIn != "10m0s" {
		t.Fatalf("expires_in %q", verified.ExpiresIn)
	}

	w = s.do(http.MethodPost, "/api/auth/reset-password", "", dto.ResetPasswordRequest{ResetToken: verified.ResetToken, NewPassword: "newsecret"})
	expectStatus(t, w, http.StatusOK)

	expectStatus(t, s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "secret1"}), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "newsecret"}), http.StatusOK)

	// the code is spent
	w = s.do(http.MethodPost, "/api/auth/reset-password", "", dto.ResetPasswordRequest{ResetToken: verified.ResetToken, NewPassword: "again123"})
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestGoogleLoginDisabled(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(http.MethodGet, "/api/auth/google/login", "", nil), http.StatusServiceUnavailable)
	expectStatus(t, s.do(http.MethodGet, "/api/auth/google/callback?code=x", "", nil), http.StatusServiceUnavailable)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		expectStatus(t, s.do(http.MethodGet, path, "", nil), http.StatusOK)
	}

	w := s.do(http.MethodGet, "/metrics", "", nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `route="GET /healthz"`) {
		t.Fatal("request metrics not labelled by route pattern")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(http.MethodGet, "/api/auth/login", "", nil), http.StatusMethodNotAllowed)
}

func TestUpdateNullImageRemovesIt(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Owner", "owner@example.com", "secret1")

	w := s.do(http.MethodPost, "/api/websites", token, map[string]any{
		"business_name":        "Logo Shop",
		"business_description": "Shop",
		"contact_email":        "shop@example.com",
		"contact_phone":        "555-0100",
		"address":              "1 Market St",
		"logo_image":           "aGVsbG8=",
	})
	expectStatus(t, w, http.StatusOK)
	site := decode[models.Website](t, w)

	w = s.do(http.MethodPut, "/api/websites/"+site.ID.String(), token, map[string]any{"logo_image": nil})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Website](t, w); got.LogoImage != nil {
		t.Fatalf("logo still stored: %q", *got.LogoImage)
	}

	w = s.do(http.MethodGet, "/api/websites/"+site.ID.String()+"/preview", token, nil)
	expectStatus(t, w, http.StatusOK)
	if strings.Contains(w.Body.String(), `alt="Logo"`) {
		t.Fatal("removed logo still rendered")
	}
}
