package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ascendo/trainboard/internal/background"
	"github.com/ascendo/trainboard/internal/config"
	"github.com/ascendo/trainboard/internal/handlers"
	middlewareCustom "github.com/ascendo/trainboard/internal/middleware"
	"github.com/ascendo/trainboard/internal/routes"
	"github.com/ascendo/trainboard/internal/sectors"
	"github.com/ascendo/trainboard/internal/services"
	"github.com/ascendo/trainboard/internal/store"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
	pkglogger "github.com/ascendo/trainboard/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Load durable state; missing or corrupt files start empty.
	st, err := store.Open(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("failed to open data directory", slog.Any("error", err))
		os.Exit(1)
	}

	settings := store.LoadSettings(cfg.Storage.DataDir, logger)

	sectorCatalog, err := sectors.Load(cfg.Storage.SectorsDir, logger)
	if err != nil {
		logger.Error("failed to load sector catalog", slog.Any("error", err))
		os.Exit(1)
	}

	// Memory-only state
	sessionStore := store.NewSessionStore()
	loginThrottle := store.NewLoginThrottle(cfg.Throttle)

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger)
	authService := services.NewAuthService(st.Users, sessionStore, loginThrottle, st, settings, logger, auditLogger)
	problemService := services.NewProblemService(st.Problems, sectorCatalog, st, settings, logger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	authHandler := handlers.NewAuthHandler(authService, ipConfig)
	problemHandler := handlers.NewProblemHandler(problemService)
	sectorHandler := handlers.NewSectorHandler(sectorCatalog)

	// Periodic flush of dirty state
	flushManager := background.NewFlushManager(st, logger, cfg.Storage.FlushInterval)

	// Setup router
	router := chi.NewRouter()
	// No RealIP middleware: it would rewrite RemoteAddr from forwarding
	// headers before any trust check, letting direct clients pick the
	// address the login throttle keys on. ExtractClientIP honors those
	// headers only from configured trusted proxies.
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middlewareCustom.RateLimitByIP(middlewareCustom.DefaultAPIRateLimit()))

	// Register routes
	router.Route("/api/v1", func(r chi.Router) {
		routes.RegisterRoutes(r, authHandler, problemHandler, sectorHandler, authService)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Static board page
	router.NotFound(http.FileServer(http.Dir(cfg.Storage.PageDir)).ServeHTTP)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start flush task
	flushCtx, flushCancel := context.WithCancel(context.Background())
	defer flushCancel()

	go flushManager.Start(flushCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Stop triggers a final flush, so nothing dirty is lost on exit.
	flushCancel()
	flushManager.Stop()

	logger.Info("server stopped gracefully")
}
