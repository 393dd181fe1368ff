package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	httphandlers "spine/internal/interfaces/http"
	"spine/internal/shared/config"
	"spine/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(requestLogger(log)))
	r.Use(middleware.Tracing)
	r.Use(middleware.CORS(cfg.Server.AllowedHosts))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(rate.NewLimiter(rate.Every(cfg.RateLimit.Every), cfg.RateLimit.Burst)))
	}

	r.Get("/health", httphandlers.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Post("/submit", deps.HealthHandler.HandleSubmit)
			r.Get("/records", deps.HealthHandler.HandleListRecords)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Post("/calculate", deps.InsightHandler.HandleCalculate)
			r.Get("/latest", deps.InsightHandler.HandleLatest)
		})

		r.Route("/plaid", func(r chi.Router) {
			r.Post("/create-link-token", deps.BankingHandler.HandleCreateLinkToken)
			r.Post("/exchange-token", deps.BankingHandler.HandleExchangeToken)
			r.Post("/sync-transactions", deps.BankingHandler.HandleSyncTransactions)
			r.Get("/items", deps.BankingHandler.HandleListItems)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", deps.TransactionHandler.HandleListTransactions)
			r.Post("/manual", deps.TransactionHandler.HandleCreateManual)
			r.Patch("/{id}", deps.TransactionHandler.HandleUpdateTransaction)
			r.Delete("/{id}", deps.TransactionHandler.HandleDeleteTransaction)
		})
	})

	var handler http.Handler = r
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}

	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Info().Msg("TLS security middleware enabled (HSTS)")
	}

	return handler
}
