package handlers

import (
	"net/http"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
)

// Status reports whether sync is configured, when it last ran and
// whether a pass is in flight. The overlay's settings section renders
// this verbatim.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Engine.Status())
	}
}
