package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"eventplanner/docs"
	"eventplanner/internal/auth"
	"eventplanner/internal/cache"
	"eventplanner/internal/config"
	"eventplanner/internal/db"
	"eventplanner/internal/handler"
	"eventplanner/internal/logging"
	"eventplanner/internal/repository"
	"eventplanner/internal/router"
	"eventplanner/internal/service"
)

// @title Event Planner API
// @version 1.0
// @description Events, RSVPs with capacity limits, and session-based accounts.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	if cfg.ResetDB {
		logging.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logging.Warn().Err(err).Msg("drop tables")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := newCache(cfg)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	rsvpRepo := repository.NewRSVPRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret)
	sessionStore := auth.NewSessionStore(cacheClient)
	sessions := auth.NewManager(jwtService, sessionStore, cfg.SessionTTL)
	gate := auth.NewGate(sessions)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions)
	userService := service.NewUserService(userRepo, cacheClient)
	eventService := service.NewEventService(eventRepo, rsvpRepo, cacheClient)
	rsvpService := service.NewRSVPService(rsvpRepo, eventRepo, cacheClient)
	seedService := service.NewSeedService(eventRepo)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		admin, err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Str("username", cfg.AdminUsername).Msg("ensure admin")
		}
		logging.Info().Uint("user_id", admin.ID).Str("username", admin.Username).Msg("admin account ready")
	}

	// Initialize handlers
	handlers := router.Handlers{
		Auth:  handler.NewAuthHandler(authService, cfg.CookieSecure),
		User:  handler.NewUserHandler(userService),
		Event: handler.NewEventHandler(eventService),
		RSVP:  handler.NewRSVPHandler(rsvpService),
		Seed:  handler.NewSeedHandler(seedService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
			"cache":    cacheClient,
		}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, gate, handlers)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logging.Info().Str("url", swaggerURL(cfg)).Msg("swagger documentation available")

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("db", cfg.DBDriver).Msg("server listening")
		if err := e.StartServer(srv); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown")
	}
}

// newCache picks the session and listing cache. REDIS_ADDR=memory (or empty)
// keeps everything in process, which only suits a single server instance.
func newCache(cfg *config.Config) *cache.Client {
	if cfg.RedisAddr == "" || strings.EqualFold(cfg.RedisAddr, "memory") {
		logging.Warn().Msg("using in-memory cache; sessions are lost on restart")
		return cache.NewMemory()
	}
	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; continuing without cache")
	}
	return client
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
