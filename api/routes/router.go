package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/partspoint/checkout-backend/api/controllers"
	"github.com/partspoint/checkout-backend/api/middleware"
	checkoutsvc "github.com/partspoint/checkout-backend/internal/checkout"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/logger"
	pkgredis "github.com/partspoint/checkout-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	checkoutService checkoutsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var pinger pkgredis.Pinger
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		pinger = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pinger, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg, cfg.Checkout.IdempotencyTTL))

		r.Post("/", controllers.StartCheckout(checkoutService, logg))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", controllers.GetCheckout(checkoutService, logg))
			r.Put("/address", controllers.UpdateAddress(checkoutService, logg))
			r.Put("/payment-method", controllers.SelectPaymentMethod(checkoutService, logg))
			r.Post("/advance", controllers.AdvanceCheckout(checkoutService, logg))
			r.Post("/back", controllers.BackCheckout(checkoutService, logg))
			r.Post("/submit", controllers.SubmitCheckout(checkoutService, logg))
			r.Route("/payment", func(r chi.Router) {
				r.Post("/callback", controllers.PaymentCallback(checkoutService, logg))
				r.Post("/failure", controllers.PaymentFailure(checkoutService, logg))
				r.Post("/dismiss", controllers.PaymentDismiss(checkoutService, logg))
			})
		})
	})

	return r
}
