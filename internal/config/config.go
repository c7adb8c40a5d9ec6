package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables
// and an optional YAML file.
type Config struct {
	ServerPort    string
	DBDriver      string
	DBDSN         string
	ResetDB       bool
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	CORSOrigins   []string
	StaticDir     string
	LogLevel      string
	LogFormat     string
	SwaggerHost   string
	AdminUsername string
	AdminPassword string
	AuthRateLimit float64
}

const defaultMySQLDSN = "user:password@tcp(localhost:3306)/events?charset=utf8mb4&parseTime=True&loc=UTC"

// Load builds Config from environment with sensible defaults. When CONFIG_FILE
// is set, the named YAML file is read first and environment variables still win.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AUTH_RATE_LIMIT", 10)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:    v.GetString("SERVER_PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:         firstNonEmpty(v.GetString("DB_DSN"), v.GetString("MYSQL_DSN")),
		ResetDB:       v.GetBool("RESET_DB"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPass:     v.GetString("REDIS_PASSWORD"),
		SessionSecret: firstNonEmpty(v.GetString("SESSION_SECRET"), v.GetString("JWT_SECRET")),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		StaticDir:     v.GetString("STATIC_DIR"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		SwaggerHost:   v.GetString("SWAGGER_HOST"),
		AdminUsername: v.GetString("ADMIN_USERNAME"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		AuthRateLimit: v.GetFloat64("AUTH_RATE_LIMIT"),
	}

	if cfg.DBDSN == "" {
		switch cfg.DBDriver {
		case "sqlite":
			cfg.DBDSN = "events.db?_foreign_keys=on"
		case "postgres":
			cfg.DBDSN = "host=localhost user=postgres password=postgres dbname=events port=5432 sslmode=disable"
		default:
			cfg.DBDSN = defaultMySQLDSN
		}
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "change-me"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
