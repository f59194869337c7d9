package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/httpserver/handlers"
)

func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/events", handlers.Events(d))
}
