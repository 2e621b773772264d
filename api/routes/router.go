package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercadoperto/mercadoperto-backend/api/controllers"
	"github.com/mercadoperto/mercadoperto-backend/api/middleware"
	"github.com/mercadoperto/mercadoperto-backend/internal/discovery"
	"github.com/mercadoperto/mercadoperto-backend/pkg/config"
	"github.com/mercadoperto/mercadoperto-backend/pkg/db"
	"github.com/mercadoperto/mercadoperto-backend/pkg/logger"
	"github.com/mercadoperto/mercadoperto-backend/pkg/metrics"
	"github.com/mercadoperto/mercadoperto-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	discoveryService discovery.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	discoveryPolicy := middleware.NewRateLimitPolicy(
		"discovery",
		cfg.RateLimit.Window,
		cfg.RateLimit.IPLimit,
	)
	// A nil *redis.Client must stay a nil interface so the limiter and the
	// readiness check treat redis as absent instead of panicking on it.
	var redisP db.Pinger
	limiter := middleware.RateLimit(discoveryPolicy, nil, logg)
	if redisClient != nil {
		redisP = redisClient
		limiter = middleware.RateLimit(discoveryPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/discovery", func(r chi.Router) {
		r.Use(limiter)
		r.Get("/feed", controllers.DiscoveryFeed(discoveryService, cfg.Discovery, logg))
		r.Get("/stores", controllers.DiscoveryStoreSearch(discoveryService, cfg.Discovery, logg))
		r.Get("/products", controllers.DiscoveryProductSearch(discoveryService, cfg.Discovery, logg))
	})

	return r
}
