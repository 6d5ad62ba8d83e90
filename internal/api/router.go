package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Realt-Assistant-Backend/internal/api/middleware"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
)

// Dependencies are the collaborators the HTTP routes are served by.
type Dependencies struct {
	System     *service.SystemService
	Properties *service.PropertyService
	Search     *service.SearchService
	Bot        handlers.UpdateHandler
	Tokens     custommiddleware.TokenVerifier
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// Telegram pushes updates here in webhook mode
	webhookHandler := handlers.NewWebhookHandler(deps.Bot, cfg.Telegram.WebhookSecret)
	r.Post("/webhook", webhookHandler.Receive)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(deps.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/status", systemHandler.Status)
		})

		// Lot picker mini app, called cross-origin from the Telegram client
		r.Route("/miniapp", func(r chi.Router) {
			r.Use(custommiddleware.NewCORS(cfg.CORS.AllowedOrigins).Handler)
			r.Use(custommiddleware.MiniAppAuth(deps.Tokens))

			miniAppHandler := handlers.NewMiniAppHandler(deps.Properties, deps.Search)
			r.Route("/properties/{propertyId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDParam("propertyId"))
				r.Get("/", miniAppHandler.Property)
				r.Get("/buildings/{building}/floors", miniAppHandler.Floors)
				r.Get("/units", miniAppHandler.Units)
			})
		})
	})

	return r
}
