package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pricebookhq/pricebook-backend/api/controllers"
	"github.com/pricebookhq/pricebook-backend/api/middleware"
	customergroup "github.com/pricebookhq/pricebook-backend/internal/customergroups"
	pricelist "github.com/pricebookhq/pricebook-backend/internal/pricelists"
	"github.com/pricebookhq/pricebook-backend/pkg/config"
	"github.com/pricebookhq/pricebook-backend/pkg/db"
	"github.com/pricebookhq/pricebook-backend/pkg/logger"
	"github.com/pricebookhq/pricebook-backend/pkg/metrics"
	"github.com/pricebookhq/pricebook-backend/pkg/redis"
)

// NewRouter wires middleware, health checks, metrics, and the versioned API surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	priceListService pricelist.Service,
	groupDirectory *customergroup.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		var store redis.IdempotencyStore
		if redisClient != nil {
			store = redisClient
		}
		r.Use(middleware.Idempotency(store, cfg.Idempotency.TTL, logg))

		r.Route("/price-lists", func(r chi.Router) {
			r.Post("/", controllers.CreatePriceList(priceListService, logg))
			r.Get("/", controllers.ListPriceLists(priceListService, logg))
			r.Route("/{priceListId}", func(r chi.Router) {
				r.Get("/", controllers.GetPriceList(priceListService, logg))
				r.Patch("/", controllers.UpdatePriceList(priceListService, logg))
				r.Delete("/", controllers.DeletePriceList(priceListService, logg))
				r.Post("/prices", controllers.AddPriceListPrices(priceListService, logg))
				r.Delete("/prices", controllers.DeletePriceListPrices(priceListService, logg))
			})
		})

		r.Route("/customer-groups", func(r chi.Router) {
			r.Get("/", controllers.ListCustomerGroups(groupDirectory, logg))
			r.Get("/{customerGroupId}", controllers.GetCustomerGroup(groupDirectory, logg))
		})
	})

	return r
}
