package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/procurement-backend/api/controllers"
	"github.com/angelmondragon/procurement-backend/api/middleware"
	"github.com/angelmondragon/procurement-backend/internal/extraction"
	"github.com/angelmondragon/procurement-backend/internal/requests"
	"github.com/angelmondragon/procurement-backend/pkg/config"
	"github.com/angelmondragon/procurement-backend/pkg/db"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
	"github.com/angelmondragon/procurement-backend/pkg/metrics"
	"github.com/angelmondragon/procurement-backend/pkg/redis"
)

// Dependencies groups what the router wires into controllers. Redis fields
// may be nil, which disables readiness checks and idempotent replay for it.
type Dependencies struct {
	DB               db.Pinger
	Redis            redis.Pinger
	IdempotencyStore redis.IdempotencyStore
	Requests         requests.Service
	OfferParser      controllers.OfferParser
	TextExtractor    controllers.TextExtractor
	HTTPMetrics      *metrics.HTTPMetrics
	Gatherer         prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	extract := deps.TextExtractor
	if extract == nil {
		extract = extraction.ExtractText
	}

	r.Get("/", controllers.Info())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/commodity-groups", controllers.CommodityGroups())
		r.Get("/statistics", controllers.Statistics(deps.Requests, logg))
		r.Post("/upload-pdf", controllers.UploadPDF(cfg.Uploads, extract, deps.OfferParser, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))
			r.Post("/", controllers.RequestCreate(deps.Requests, logg))
			r.Get("/", controllers.RequestList(deps.Requests, logg))
			r.Get("/{id}", controllers.RequestGet(deps.Requests, logg))
			r.Patch("/{id}/status", controllers.RequestStatusUpdate(deps.Requests, logg))
		})
	})

	return r
}
