package main

import (
	"context"
	"errors"
	"fmt"

	"tms/internal/config"
	"tms/internal/graph"
	"tms/internal/handlers"
	"tms/internal/middleware"
	"tms/internal/models"
	"tms/internal/repositories"
	"tms/internal/seed"
	"tms/internal/services"
	"tms/pkg/kafka"
	"tms/pkg/rabbitmq"
	"tms/pkg/redisstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// App is a fully wired server: stores seeded, routes registered.
type App struct {
	Fiber      *fiber.App
	DataSource string

	// Consume, when set, runs the audit consumer for published events
	// until its context is done.
	Consume func(ctx context.Context) error

	closers []func() error
}

// NewApp opens the stores, seeds them and builds the HTTP application.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (app *App, err error) {
	app = &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	shipmentRepo, userRepo, err := app.openStores(cfg, log)
	if err != nil {
		return nil, err
	}
	publisher, err := app.openPublisher(cfg, log)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log.Named("auth"))
	queryService := services.NewQueryService(shipmentRepo)
	shipmentService := services.NewShipmentService(shipmentRepo, publisher, log.Named("shipments"))

	external := seed.NewExternalCatalog(cfg.ProductsURL, cfg.SeedRetryBackoff, log.Named("catalog"))
	source, err := seed.SelectSource(cfg.SeedSource, cfg.AppEnv, external, seed.LocalCatalog{})
	if err != nil {
		return nil, err
	}
	seeder := seed.NewSeeder(shipmentRepo, userRepo, cfg.SeedRandomSeed, log.Named("seed"))
	if err := seeder.SeedUsers(ctx); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if app.DataSource, err = seeder.SeedShipments(ctx, source); err != nil {
		return nil, fmt.Errorf("seed shipments: %w", err)
	}

	exec, err := graph.NewExecutor(graph.NewResolver(authService, queryService, shipmentService, log.Named("graphql")))
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		storage, err := redisstore.New(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, storage.Close)
		limiterStorage = storage
	}

	f := fiber.New(fiber.Config{
		AppName:      "TMS GraphQL API",
		ErrorHandler: errorHandler(log),
	})
	f.Use(recover.New())
	f.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	f.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	f.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	f.Use(middleware.BearerToken())

	handlers.NewSystemHandler(queryService, external, app.DataSource, log.Named("system")).RegisterRoutes(f)
	handlers.NewAuthHandler(authService, log.Named("auth")).RegisterRoutes(f)

	api := f.Group("", middleware.RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, limiterStorage))
	handlers.NewGraphQLHandler(exec, log.Named("graphql")).RegisterRoutes(api)

	app.Fiber = f
	return app, nil
}

func (a *App) openStores(cfg *config.Config, log *zap.Logger) (repositories.ShipmentRepository, repositories.UserRepository, error) {
	if cfg.StoreDriver == repositories.DriverMemory {
		return repositories.NewMemoryShipmentRepository(), repositories.NewMemoryUserRepository(), nil
	}

	db, err := repositories.OpenDatabase(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, func() error { return repositories.CloseDatabase(db) })
	log.Info("database connected", zap.String("driver", cfg.StoreDriver))
	return repositories.NewGORMShipmentRepository(db), repositories.NewGORMUserRepository(db), nil
}

func (a *App) openPublisher(cfg *config.Config, log *zap.Logger) (services.EventPublisher, error) {
	switch cfg.EventsDriver {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitQueue}, log.Named("rabbitmq"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.Consume = func(ctx context.Context) error {
			return client.ConsumeShipmentEvents(ctx, auditEvent(log.Named("audit")))
		}
		return client, nil
	case "kafka":
		producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, log.Named("kafka"))
		a.closers = append(a.closers, producer.Close)
		return producer, nil
	default:
		return nil, nil
	}
}

// auditEvent logs every shipment event read back from the queue.
func auditEvent(log *zap.Logger) rabbitmq.Handler {
	return func(ctx context.Context, event models.ShipmentEvent) error {
		log.Info("shipment event",
			zap.String("event_id", event.EventID),
			zap.String("type", string(event.Type)),
			zap.String("shipment_id", event.ShipmentID),
			zap.String("tracking_number", event.TrackingNumber),
			zap.String("status", string(event.Status)),
			zap.String("actor", event.Actor),
			zap.Time("occurred_at", event.OccurredAt))
		return nil
	}
}

// Close releases everything NewApp opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		} else {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": statusMessage(code, err)})
	}
}

func statusMessage(code int, err error) string {
	if code == fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
