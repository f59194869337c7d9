package handlers

import (
	"net/http"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
)

// SyncNow runs both reconciliation checks immediately instead of waiting
// for the next poll tick.
func SyncNow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Engine.SyncNow(r.Context()))
	}
}
