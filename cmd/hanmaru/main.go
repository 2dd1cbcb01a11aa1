// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/auth"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/config"
	"github.com/olegiv/hanmaru/internal/handler"
	"github.com/olegiv/hanmaru/internal/i18n"
	"github.com/olegiv/hanmaru/internal/imaging"
	"github.com/olegiv/hanmaru/internal/logging"
	"github.com/olegiv/hanmaru/internal/middleware"
	"github.com/olegiv/hanmaru/internal/render"
	"github.com/olegiv/hanmaru/internal/scheduler"
	"github.com/olegiv/hanmaru/internal/service"
	"github.com/olegiv/hanmaru/internal/session"
	"github.com/olegiv/hanmaru/internal/store"
	"github.com/olegiv/hanmaru/internal/version"
	"github.com/olegiv/hanmaru/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Upload normalization settings.
const (
	imageMaxDimension = 2048
	imageQuality      = 85
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Hanmaru - Korean language centre website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_API_BASE_URL      Content API base URL (default: http://localhost:5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_DB_PATH           SQLite database path (default: ./data/hanmaru.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HANMARU_REDIS_URL         Redis URL for shared caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("hanmaru %s\n", version.New(appVersion, appGitCommit, appBuildTime))
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.New(appVersion, appGitCommit, appBuildTime)

	logLevel := cfg.LogLevel
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(context.Background(), db); err != nil {
		return err
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	sessionManager := session.New(db, cfg.IsDevelopment())

	cacheConfig := cache.CacheConfig{
		Type:             cache.CacheBackendMemory,
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = cache.CacheBackendRedis
	}
	cacheResult, err := cache.NewCacheWithInfo(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	cacheManager := cache.NewManager(cacheResult.Cache, cacheResult.BackendType, cfg.CacheTTLDuration())
	defer func() { _ = cacheManager.Close() }()
	slog.Info("cache manager initialized", "backend", cacheResult.BackendType, "fallback", cacheResult.IsFallback)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)

	sealer, err := auth.NewSealer(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("initializing credential sealer: %w", err)
	}
	authStore := auth.NewStore(sessionManager, api, sealer, logger, auth.WithResendCooldown(cfg.ResendCooldown))

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Logger:         logger,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	eventService := service.NewEventService(db)
	catalog := service.NewCatalog(api, cacheManager)
	engagement := service.NewEngagement(api, service.NewInFlight(), logger)
	uploads := service.NewUploadService(api, imaging.NewProcessor(imageMaxDimension, imageQuality), cfg.MaxUploadBytes())

	sched := scheduler.New(logger)
	err = sched.RegisterDefaults(scheduler.Config{
		RefreshSchedule: cfg.CacheRefresh,
		EventRetention:  cfg.EventRetention(),
	}, catalog, eventService)
	if err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	formLimiter := middleware.NewFormRateLimiter(formRateLimit, formRateBurst)
	if err := sched.RegisterPruners(scheduler.DefaultPruneSchedule, loginProtection, formLimiter); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Warm the public cache so the first visitor does not wait on the API
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
		defer cancel()
		if err := catalog.Refresh(ctx); err != nil {
			slog.Warn("initial cache warm-up failed", "category", "cache", "error", err)
		}
	}()

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	frontend := handler.NewFrontendHandler(renderer, sessionManager, api, catalog)

	r := newRouter(routerDeps{
		cfg:             cfg,
		sessionManager:  sessionManager,
		authStore:       authStore,
		staticFS:        staticFS,
		loginProtection: loginProtection,
		formLimiter:     formLimiter,
		frontend:        frontend,
		auth:            handler.NewAuthHandler(renderer, authStore, loginProtection, eventService, cfg.VerifyRedirectSeconds),
		engagement:      handler.NewEngagementHandler(frontend, engagement),
		profile:         handler.NewProfileHandler(renderer, api, authStore, uploads, engagement),
		admin: handler.NewAdminHandler(handler.AdminDeps{
			Renderer:     renderer,
			API:          api,
			Catalog:      catalog,
			Uploads:      uploads,
			EventService: eventService,
			CacheManager: cacheManager,
			Jobs:         sched.Registry(),
		}),
		events: handler.NewEventsHandler(renderer, eventService),
		cache:  handler.NewCacheHandler(renderer, cacheManager, eventService),
		health: handler.NewHealthHandler(db, cacheManager, versionInfo.String()),
		seo:    handler.NewSEOHandler(catalog, cfg.IsDevelopment()),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for uploads and slow API calls
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "api", cfg.APIBaseURL, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
