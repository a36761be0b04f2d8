package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/playback-token-service/internal/api/http/handlers"
	"github.com/spec-kit/playback-token-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Videos         *handlers.VideosHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// development seeding stays outside the authenticated group
	api.Post("/video/seed", cfg.Videos.Seed)

	video := api.Group("/video", cfg.AuthMiddleware.Handle)
	video.Get("/dashboard", cfg.Videos.Dashboard)
	video.Get("/play", cfg.Videos.Play)
	video.Post("/track", cfg.Videos.Track)
	video.Get("/:id/stream", cfg.Videos.Stream)
}
