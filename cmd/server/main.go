package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/database"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/logging"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/routes"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Store
	var (
		users        repository.UserRepository
		addresses    repository.AddressRepository
		pinger       handlers.Pinger
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
	)
	cleanupDone := make(chan struct{})

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := repository.NewMemory()
		users, addresses = store.Users(), store.Addresses()
		slog.Warn("using in-memory store; data is lost on restart")
	default:
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		users, addresses = repository.NewGormUserRepository(db), repository.NewGormAddressRepository(db)
		pinger = database.NewHealth(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

		logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)
	}

	// Avatar storage is optional
	var avatars storage.AvatarStore
	if cfg.AvatarStorageEnabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			slog.Error("avatar storage init failed", "error", err)
			os.Exit(1)
		}
		avatars = s3Store
	} else {
		slog.Info("avatar storage not configured; uploads disabled")
	}

	// Services
	authService := services.NewAuthService(users, cfg)
	userService := services.NewUserService(users, addresses, avatars)
	profileService := services.NewProfileService(users)
	addressService := services.NewAddressService(addresses)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Health:  handlers.NewHealthHandler(cfg.StoreDriver, pinger),
		User:    handlers.NewUserHandler(userService, cfg),
		Profile: handlers.NewProfileHandler(profileService, cfg),
		Address: handlers.NewAddressHandler(addressService, cfg),
		Country: handlers.NewCountryHandler(),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
