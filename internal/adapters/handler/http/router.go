package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth    *AuthHandler
	Tally   *TallyHandler
	Table   *TableHandler
	Results *ResultsHandler
	Catalog *CatalogHandler
}

func NewHandler(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"OK","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
		})

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtSecret))

			r.Route("/tables", func(r chi.Router) {
				r.Get("/", h.Table.ListTables)
				r.Get("/pending", h.Table.ListPending)
				r.Get("/{number}", h.Table.GetTable)
				r.Get("/{number}/validate", h.Table.ValidateTable)

				r.With(RequireSubmitRole).Post("/acta", h.Tally.SubmitActa)
			})

			r.Get("/lists", h.Catalog.GetLists)

			r.Route("/results", func(r chi.Router) {
				r.Get("/", h.Results.GetResults)
				r.Get("/stats", h.Results.GetStats)
			})
		})
	})

	return r
}
