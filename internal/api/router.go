package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tallyhq/networth-backend/internal/api/handlers"
	custommiddleware "github.com/tallyhq/networth-backend/internal/api/middleware"
	"github.com/tallyhq/networth-backend/internal/config"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/service"
)

// Services bundles everything the router needs to build handlers.
type Services struct {
	System    *service.SystemService
	Holdings  *service.HoldingService
	Refresh   *service.RefreshService
	Backfill  *service.BackfillService
	Valuation *service.ValuationService
	Settings  *service.SettingsService
	PriceRepo *repository.PriceHistoryRepository
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(svcs.Holdings)
			r.Get("/", holdingHandler.List)
			r.Post("/", holdingHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", holdingHandler.Get)
				r.Put("/", holdingHandler.Update)
				r.Delete("/", holdingHandler.Delete)
			})
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svcs.Refresh, svcs.Backfill, svcs.PriceRepo)
			r.Post("/refresh", priceHandler.Refresh)
			r.Post("/backfill", priceHandler.Backfill)
			r.Post("/recalculate", priceHandler.Recalculate)
			r.Get("/history", priceHandler.HistorySummary)
			r.Get("/history/{ticker}", priceHandler.TickerHistory)
		})

		r.Route("/networth", func(r chi.Router) {
			netWorthHandler := handlers.NewNetWorthHandler(svcs.Valuation, svcs.Holdings)
			r.Get("/summary", netWorthHandler.Summary)
			r.Get("/series", netWorthHandler.Series)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svcs.Settings)
			r.Get("/", settingsHandler.Get)
			r.Put("/", settingsHandler.Update)
		})
	})

	return r
}
