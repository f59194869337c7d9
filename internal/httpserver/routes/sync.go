package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/httpserver/handlers"
)

func init() { Register(registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	r.Post("/api/sync", handlers.SyncNow(d))
	r.Get("/api/status", handlers.Status(d))
}
