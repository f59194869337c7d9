package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready      bool `json:"ready"`
	CacheOK    bool `json:"cache_ok"`
	Configured bool `json:"configured"`
}

// Readyz reports whether the daemon can serve. The mirror being down
// degrades but does not block, so only its status is surfaced; ready
// stays true as long as the process is up.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheOK := false
		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			cacheOK = d.RedisClient.Ping(ctx).Err() == nil
			cancel()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:      true,
			CacheOK:    cacheOK,
			Configured: d.Engine.Status().Configured,
		})
	}
}
