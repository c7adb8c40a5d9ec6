package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"eventplanner/internal/auth"
	"eventplanner/internal/cache"
	"eventplanner/internal/config"
	"eventplanner/internal/db"
	"eventplanner/internal/logging"
	"eventplanner/internal/repository"
	"eventplanner/internal/service"
)

//go:embed events.json
var defaultEvents []byte

func main() {
	source := flag.String("events", "", "path or http(s) URL of a JSON array of demo events (defaults to the bundled set)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.Info().Msg("starting seed script")

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		logging.Fatal().Msg("ADMIN_USERNAME and ADMIN_PASSWORD must be set; demo events are owned by the admin")
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}
	logging.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	raw, err := loadEvents(*source)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load demo events")
	}
	var events []service.DemoEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		logging.Fatal().Err(err).Msg("failed to parse demo events")
	}
	logging.Info().Int("count", len(events)).Msg("demo events loaded")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	// The seed run never starts a session, so an in-process store is enough.
	sessions := auth.NewManager(auth.NewJWTService(cfg.SessionSecret), auth.NewSessionStore(cache.NewMemory()), cfg.SessionTTL)
	admin, err := service.NewAuthService(userRepo, sessions).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to ensure admin account")
	}

	res, err := service.NewSeedService(eventRepo).SeedEvents(ctx, service.Actor{UserID: admin.ID, Role: admin.Role}, events)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to seed events")
	}

	logging.Info().
		Str("owner", admin.Username).
		Int("created", res.Created).
		Int("existed", res.Existed).
		Int("skipped", res.Skipped).
		Msg("seed completed")
}

// loadEvents reads the demo data from a file, a URL, or the bundled default.
func loadEvents(source string) ([]byte, error) {
	switch {
	case source == "":
		return defaultEvents, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(source)
	default:
		return os.ReadFile(source)
	}
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
