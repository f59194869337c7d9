package handlers

import (
	"net/http"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/hub"
)

// Events upgrades to a websocket carrying sync events to the overlay.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWs(d.Hub, w, r, d.Logger)
	}
}
