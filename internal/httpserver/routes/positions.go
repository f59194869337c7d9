package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/httpserver/handlers"
)

func init() { Register(registerPositions) }

func registerPositions(r chi.Router, d deps.Deps) {
	r.Get("/api/positions/{site}", handlers.GetPositions(d))
	r.Put("/api/positions/{site}/{target}", handlers.SavePosition(d))
}
