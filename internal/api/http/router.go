package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/foundit/lostfound-service/internal/api/http/handlers"
	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	Claims         *handlers.ClaimsHandler
	Profile        *handlers.ProfileHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthLimiter    *RateLimiter
	Metrics        *observability.Metrics
	UploadDir      string
	UploadPrefix   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Banner)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	if cfg.UploadDir != "" {
		app.Static(cfg.UploadPrefix, cfg.UploadDir)
	}

	api := app.Group("/api")

	if cfg.AuthLimiter != nil {
		api.Post("/signup", cfg.AuthLimiter.Handle, cfg.Auth.Signup)
		api.Post("/login", cfg.AuthLimiter.Handle, cfg.Auth.Login)
	} else {
		api.Post("/signup", cfg.Auth.Signup)
		api.Post("/login", cfg.Auth.Login)
	}
	api.Get("/posts", cfg.Posts.ListPosts)
	api.Get("/posts/:id", cfg.Posts.GetPost)

	authed := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	api.Post("/posts", authed, cfg.Posts.CreatePost)
	api.Post("/posts/:id/claim", authed, cfg.Claims.CreateClaim)

	api.Get("/claims", authed, admin, cfg.Claims.ListClaims)
	api.Get("/claims/stats", authed, admin, cfg.Claims.Stats)
	api.Post("/claims/:id/approve", authed, admin, cfg.Claims.ApproveClaim)
	api.Post("/claims/:id/deny", authed, admin, cfg.Claims.DenyClaim)

	api.Post("/notifications/clear", authed, cfg.Profile.ClearNotifications)
	api.Get("/profile", authed, cfg.Profile.Profile)
	api.Get("/profile/posts", authed, cfg.Posts.ListOwnPosts)
}
