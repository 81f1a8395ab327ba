// Package server assembles the Fiber application: middleware, error
// rendering and every route.
package server

import (
	"context"
	"errors"
	"time"

	"amethyst/internal/config"
	"amethyst/internal/handlers"
	"amethyst/internal/repositories"
	"amethyst/internal/services"
	"amethyst/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// minBodyLimit is Fiber's default request body limit.
const minBodyLimit = 4 * 1024 * 1024

// NewApp wires repositories, services and handlers on top of db and returns
// the Fiber app together with the AuthService it uses. publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *services.AuthService) {
	// Leave room above the upload limit so oversized pictures reach
	// validation and get a 400 instead of a transport-level 413.
	bodyLimit := int(cfg.UploadMaxBytes) * 2
	if bodyLimit < minBodyLimit {
		bodyLimit = minBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	bicycleRepo := repositories.NewGORMBicycleRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, publisher, services.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.JWTTTL,
		BcryptCost:     cfg.BcryptCost,
		MaxUploadBytes: cfg.UploadMaxBytes,
	})
	catalogService := services.NewCatalogService(bicycleRepo)

	// --- Routes ---
	handlers.NewAuthHandler(authService, cfg.EnforcePictureOwnership).RegisterRoutes(app)
	handlers.NewBicycleHandler(catalogService).RegisterRoutes(app)

	app.Get("/health", healthHandler(db))

	return app, authService
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logrus.WithError(err).Warn("health check: database unreachable")
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// errorHandler renders errors that escape handlers (unknown routes, body
// limits, recovered panics) as envelopes.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.Error(c, fiberErr.Message, fiberErr.Code)
	}

	logrus.WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals("requestid"),
		"error":      err.Error(),
	}).Error("unhandled error")
	return response.Error(c, "Internal server error", fiber.StatusInternalServerError)
}
