package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/httpserver/handlers"
)

func init() { Register(registerActive) }

func registerActive(r chi.Router, d deps.Deps) {
	r.Post("/api/active", handlers.SetActive(d))
	r.Get("/api/active", handlers.GetActive(d))
	r.Get("/api/resolve", handlers.Resolve(d))
}
