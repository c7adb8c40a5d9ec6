package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"eventplanner/internal/auth"
	"eventplanner/internal/config"
	"eventplanner/internal/errors"
	"eventplanner/internal/handler"
	"eventplanner/internal/logging"
	"eventplanner/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Event  *handler.EventHandler
	RSVP   *handler.RSVPHandler
	Seed   *handler.SeedHandler
	Health *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, gate *auth.Gate, h Handlers) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logging.RequestContext())
	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
	}))
	e.Use(metrics.Middleware())

	// Add validator
	e.Validator = handler.NewValidator()

	e.GET("/healthz", h.Health.Health)
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth routes; credential endpoints are rate limited per client IP.
	limiter := authRateLimiter(cfg.AuthRateLimit)
	api.POST("/auth/register", h.Auth.Register, limiter)
	api.POST("/auth/login", h.Auth.Login, limiter)
	api.POST("/auth/logout", h.Auth.Logout, gate.Optional())
	api.GET("/auth/me", h.Auth.Me, gate.RequireAuth())

	// Event routes
	events := api.Group("/events")
	events.GET("", h.Event.List)
	events.GET("/mine", h.Event.ListMine, gate.RequireAuth())
	events.GET("/:id", h.Event.Get, gate.Optional())
	events.POST("", h.Event.Create, gate.RequireAuth())
	events.PUT("/:id", h.Event.Update, gate.RequireAuth())
	events.DELETE("/:id", h.Event.Delete, gate.RequireAuth())

	// RSVP routes
	rsvps := api.Group("/rsvps", gate.RequireAuth())
	rsvps.POST("", h.RSVP.Respond)
	rsvps.GET("/my-rsvps", h.RSVP.ListMine)
	rsvps.GET("/event/:eventId", h.RSVP.ListForEvent)
	rsvps.GET("/event/:eventId/mine", h.RSVP.GetMine)
	rsvps.DELETE("/:eventId", h.RSVP.Cancel)

	// User routes
	users := api.Group("/users")
	users.GET("/me", h.User.GetMe, gate.RequireAuth())
	users.PUT("/me", h.User.UpdateMe, gate.RequireAuth())
	users.PUT("/me/password", h.User.ChangePassword, gate.RequireAuth())
	users.GET("", h.User.ListUsers, gate.RequireAdmin())
	users.PUT("/:id/role", h.User.SetRole, gate.RequireAdmin())

	// Admin routes
	admin := api.Group("/admin", gate.RequireAdmin())
	admin.POST("/seed/events", h.Seed.SeedEvents)

	// Pages and assets
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}
}

func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond))
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
