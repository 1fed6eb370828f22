/*
server.go - HTTP router and middleware configuration

ROUTER: chi

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/today         Current business date
  /api/days/*        Day ledgers, sales, lock
  /api/scenarios/*   Demo data

SECURITY NOTE:
  No authentication. The register is meant to run on the till itself.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins feeds the CORS policy.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/today", h.GetToday)

		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Route("/{date}", func(r chi.Router) {
				r.Get("/", h.GetDay)
				r.Put("/opening", h.SetOpeningBalances)
				r.Post("/lock", h.LockDay)
				r.Post("/sales", h.AddSale)
				r.Put("/sales/{id}", h.EditSale)
				r.Delete("/sales/{id}", h.DeleteSale)
			})
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
