/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend tooling

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Purchase order routes
		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", h.ListPurchaseOrders)
			r.Post("/", h.CreatePurchaseOrder)
			r.Get("/{poNumber}", h.GetPurchaseOrder)
			r.Get("/{poNumber}/training-status", h.GetTrainingStatus)
			r.Post("/{poNumber}/invoice", h.GenerateInvoice)
		})

		// Invoice routes
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Get("/{number}", h.GetInvoice)
			r.Post("/{number}/overdue-check", h.CheckOverdue)
			r.Post("/{number}/payment", h.RecordPayment)
		})

		// Notification routes
		r.Get("/notifications", h.ListNotifications)

		// Scenario routes
		r.Post("/scenarios/demo", h.LoadDemoScenario)
	})

	return r
}
