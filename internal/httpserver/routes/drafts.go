package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/httpserver/handlers"
)

func init() { Register(registerDrafts) }

func registerDrafts(r chi.Router, d deps.Deps) {
	r.Route("/api/drafts/{conversationID}", func(r chi.Router) {
		r.Get("/", handlers.GetDrafts(d))
		r.Get("/cached", handlers.CachedDrafts(d))
		r.Put("/", handlers.SaveDrafts(d))
		r.Delete("/", handlers.DeleteDrafts(d))
	})
}
