// @title Storefront Backend API
// @version 1.0
// @description Storefront builder backend: accounts, website profiles and rendered storefronts
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "STOREFRONT_BACK-END/docs" // This is required for swagger
	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/handlers"
	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/routes"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/store"
	"STOREFRONT_BACK-END/internal/tracing"
	"STOREFRONT_BACK-END/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("configuration loaded", cfg.LogFields()...)
	cfg.Warnings(zlog)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Server.Env)
	if err != nil {
		zlog.Fatal("init tracing", zap.Error(err))
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		zlog.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	// --- Services ---
	identity := services.NewIdentityService(st, &cfg.JWT)
	websites := services.NewWebsiteService(st, st)

	var mailer services.Mailer
	if cfg.IsEmailConfigured() {
		mailer = utils.NewEmailService(&cfg.Email)
	}
	resets := services.NewPasswordResetService(st, st, mailer, &cfg.JWT)

	// --- HTTP Handlers ---
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	h := routes.Handlers{
		Auth:           handlers.NewAuthHandler(identity, m),
		Google:         handlers.NewGoogleAuthHandler(identity, cfg, m),
		ForgotPassword: handlers.NewForgotPasswordHandler(resets, m),
		Websites:       handlers.NewWebsitesHandler(websites, m),
		Sites:          handlers.NewSitesHandler(websites, m),
		Health:         handlers.NewHealthHandler(st),
	}
	if m != nil {
		h.Metrics = m.Handler()
		h.MetricsPath = cfg.Metrics.Path
	}
	mux := routes.SetupRoutes(h, identity)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	// metrics wraps the mux directly so the matched pattern is visible
	handler := c.Handler(tracing.Handler(logger.Middleware(m.Middleware(mux)), "http.server"))

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("tracing shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}

// openStore selects the document store named by STORE_DRIVER
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.L().Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
