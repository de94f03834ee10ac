package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshmart/inventory-backend/api/controllers"
	"github.com/freshmart/inventory-backend/api/middleware"
	inventorysvc "github.com/freshmart/inventory-backend/internal/inventory"
	ordersvc "github.com/freshmart/inventory-backend/internal/orders"
	"github.com/freshmart/inventory-backend/pkg/config"
	"github.com/freshmart/inventory-backend/pkg/logger"
	pkgredis "github.com/freshmart/inventory-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	InventoryService inventorysvc.Service
	OrderService     ordersvc.Service
	IdempotencyStore pkgredis.IdempotencyStore
	Pingers          map[string]controllers.Pinger
	Metrics          prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/inventory/{productId}", controllers.GetInventory(deps.InventoryService, logg))
		r.Get("/strategies", controllers.GetStrategies(deps.InventoryService, logg))

		r.With(middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/orders", controllers.CreateOrder(deps.OrderService, logg))
		r.Get("/orders", controllers.ListOrders(deps.OrderService, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(deps.OrderService, logg))
	})

	return r
}
