package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"amethyst/internal/config"
	"amethyst/internal/database"
	"amethyst/internal/models"
	"amethyst/internal/repositories"
	"amethyst/internal/server"
	"amethyst/internal/services"
	"amethyst/pkg/logger"
	"amethyst/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Setup(cfg.AppName, cfg.Env, cfg.LogLevel)

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if cfg.DBAutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	if cfg.SeedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := seedCatalog(ctx, repositories.NewGORMBicycleRepository(db))
		cancel()
		if err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// --- Initialize RabbitMQ Client ---
	// Events are optional; an unset interface keeps the services from publishing.
	var publisher services.EventPublisher
	if cfg.RabbitMQEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		// --- Start RabbitMQ Consumer ---
		err = mqClient.ConsumeUserEvents(func(event rabbitmq.Event) error {
			log.WithFields(logrus.Fields{
				"event_id":   event.ID,
				"event_type": event.Type,
				"occurred":   event.OccurredAt,
			}).Info("user event received")
			return nil
		})
		if err != nil {
			log.WithError(err).Warn("Failed to start RabbitMQ consumer")
		}
	}

	app, _ := server.NewApp(cfg, db, publisher)

	// --- Start HTTP Server ---
	log.Infof("Starting server on port %s", cfg.Port)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}

	log.Info("Server gracefully stopped")
}

// seedCatalog fills an empty catalog with a few bicycle types and bicycles.
// A catalog that already has bicycles is left alone.
func seedCatalog(ctx context.Context, repo repositories.BicycleRepository) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count bicycles: %w", err)
	}
	if n > 0 {
		logrus.WithField("bicycles", n).Info("catalog already seeded")
		return nil
	}

	types := []models.BicycleType{{Name: "Mountain"}, {Name: "Road"}, {Name: "City"}}
	for i := range types {
		if err := repo.CreateType(ctx, &types[i]); err != nil {
			return fmt.Errorf("failed to seed bicycle type %s: %w", types[i].Name, err)
		}
	}

	discount := 899.0
	bicycles := []models.Bicycle{
		{Name: "Summit 29", Description: "Hardtail trail bike", BicycleType: &types[0].ID, NormalPrice: 1049},
		{Name: "Aero SL", Description: "Carbon race frame", BicycleType: &types[1].ID, IsDiscount: 1, NormalPrice: 1299, DiscountPrice: &discount},
		{Name: "Commuter", Description: "Step-through city bike", BicycleType: &types[2].ID, NormalPrice: 549},
	}
	for i := range bicycles {
		if err := repo.Create(ctx, &bicycles[i]); err != nil {
			return fmt.Errorf("failed to seed bicycle %s: %w", bicycles[i].Name, err)
		}
		logrus.WithFields(logrus.Fields{"id": bicycles[i].ID, "name": bicycles[i].Name}).Info("seeded bicycle")
	}
	return nil
}
