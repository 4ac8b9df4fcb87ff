package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	User    *handlers.UserHandler
	Profile *handlers.ProfileHandler
	Address *handlers.AddressHandler
	Country *handlers.CountryHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/api/v1/", fiber.StatusFound)
	})

	api := app.Group("/api")

	// General API rate limiter per IP
	if cfg.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        cfg.RateLimitWindow,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	api.Get("/health", h.Health.Check)

	// Credential endpoints get a stricter limit
	authLimit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.AuthRateLimit > 0 {
		authLimit = limiter.New(limiter.Config{
			Max:               cfg.AuthRateLimit,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		})
	}
	api.Post("/auth/signup", authLimit, h.Auth.Signup)
	api.Post("/token", authLimit, h.Auth.Token)

	// Versioned resources: the version is checked before identity or store access
	v := api.Group("/:version", middleware.APIVersion(), middleware.Identify(cfg))

	v.Get("/user", h.User.List)
	v.Post("/user", h.User.Create)
	v.Get("/user/:id", h.User.Get)
	v.Put("/user/:id", h.User.Update)
	v.Patch("/user/:id", h.User.Patch)
	v.Delete("/user/:id", h.User.Delete)
	v.Put("/user/:id/avatar", h.User.UploadAvatar)

	v.Get("/profiles", h.Profile.List)
	v.Get("/profiles/:username", h.Profile.Get)

	v.Get("/addresses", h.Address.List)
	v.Post("/addresses", h.Address.Create)
	v.Get("/addresses/:id", h.Address.Get)
	v.Put("/addresses/:id", h.Address.Update)
	v.Patch("/addresses/:id", h.Address.Patch)
	v.Delete("/addresses/:id", h.Address.Delete)

	v.Get("/countries", h.Country.List)
}
