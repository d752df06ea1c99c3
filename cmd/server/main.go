package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"klaxon/docs"
	"klaxon/internal/auth"
	"klaxon/internal/cache"
	"klaxon/internal/config"
	"klaxon/internal/db"
	"klaxon/internal/handler"
	"klaxon/internal/logging"
	"klaxon/internal/repository"
	"klaxon/internal/router"
	"klaxon/internal/service"
	"klaxon/internal/session"
	"klaxon/internal/view"
)

const shutdownTimeout = 10 * time.Second

// @title Klaxon API
// @version 1.0
// @description Read-only JSON API of the klaxon carpooling service. Requests use the browser session cookie.
// @BasePath /api
// @schemes http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(os.Stderr, "info").Error(ctx, "load config", "error", err)
		os.Exit(1)
	}
	log := logging.NewJSON(os.Stdout, cfg.LogLevel)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		fatal(ctx, log, "database init", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		fatal(ctx, log, "database handle", err)
	}
	defer sqlDB.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, sqlDB); err != nil {
			fatal(ctx, log, "migrate", err)
		}
		log.Info(ctx, "migrations applied")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn(ctx, "redis unavailable", "addr", cfg.RedisAddr, "error", err)
	}

	var store session.Store
	switch cfg.SessionStore {
	case "memory":
		store = session.NewMemoryStore()
	default:
		store = auth.NewRedisSessionStore(cacheClient)
	}
	sessions := auth.NewSessionManager(auth.NewJWTService(cfg.SessionSecret), store, cfg.SessionTTL, cfg.CookieSecure, log)

	// Initialize repositories
	agencyRepo := repository.NewAgencyRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	rideRepo := repository.NewRideRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	agencyService := service.NewAgencyService(agencyRepo, cacheClient)
	userService := service.NewUserService(userRepo, agencyRepo)
	rideService := service.NewRideService(rideRepo, agencyRepo)

	renderer, err := view.New()
	if err != nil {
		fatal(ctx, log, "templates", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	docs.SwaggerInfo.Host = cfg.SwaggerHost

	router.Register(e, log, sessions, router.Handlers{
		Home:     handler.NewHomeHandler(rideService, agencyService, userService),
		Auth:     handler.NewAuthHandler(authService, userService),
		Rides:    handler.NewRideHandler(rideService, agencyService),
		Users:    handler.NewUserHandler(userService, agencyService),
		Agencies: handler.NewAgencyHandler(agencyService),
		API:      handler.NewAPIHandler(rideService, agencyService),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info(ctx, "server starting", "addr", addr, "session_store", cfg.SessionStore)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(ctx, log, "server start", err)
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown", "error", err)
	}
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, "error", err)
	os.Exit(1)
}
