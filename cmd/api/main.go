package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/freshmart/inventory-backend/api/controllers"
	"github.com/freshmart/inventory-backend/api/routes"
	"github.com/freshmart/inventory-backend/internal/inventory"
	"github.com/freshmart/inventory-backend/internal/orders"
	"github.com/freshmart/inventory-backend/internal/reservation"
	"github.com/freshmart/inventory-backend/pkg/config"
	"github.com/freshmart/inventory-backend/pkg/db"
	"github.com/freshmart/inventory-backend/pkg/logger"
	"github.com/freshmart/inventory-backend/pkg/metrics"
	"github.com/freshmart/inventory-backend/pkg/migrate"
	"github.com/freshmart/inventory-backend/pkg/outbox"
	"github.com/freshmart/inventory-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry, err := inventory.NewRegistry(context.Background(), logg, inventory.NewFIFO(), inventory.NewLIFO())
	if err != nil {
		logg.Error(context.Background(), "failed to build strategy registry", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	locker, err := reservation.NewRedisLocker(redisClient, cfg.Reservation)
	if err != nil {
		logg.Error(context.Background(), "failed to create product locker", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.Deps{
		Repo:          orders.NewRepository(dbClient.DB()),
		InventoryRepo: inventoryRepo,
		Registry:      registry,
		Tx:            dbClient,
		Locker:        locker,
		Outbox:        outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Metrics:       metrics.NewReservationMetrics(prometheus.DefaultRegisterer),
		Logger:        logg,
		CommitRetries: cfg.Reservation.CommitRetries,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			InventoryService: inventoryService,
			OrderService:     orderService,
			IdempotencyStore: redisClient,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Metrics: prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
