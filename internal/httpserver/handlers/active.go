package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/glitchdraft/draftsync/internal/engine"
	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/identity"
)

type activeRequest struct {
	URL string `json:"url"`
}

// SetActive tells the daemon which page the overlay is on; the polling
// loop follows that conversation and site from then on.
func SetActive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if req.URL == "" {
			badRequest(w, "url is required")
			return
		}
		writeJSON(w, http.StatusOK, d.Engine.SetActivePage(req.URL))
	}
}

// GetActive returns the conversation and site the daemon currently
// reconciles.
func GetActive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID, site := d.Engine.Active()
		writeJSON(w, http.StatusOK, engine.ActiveResult{
			Result:         engine.Result{Success: true},
			ConversationID: conversationID,
			Site:           site,
		})
	}
}

// Resolve maps a page URL to its conversation id and site without
// changing what the daemon reconciles. The overlay uses it to label
// saved messages before the page becomes active.
func Resolve(d deps.Deps) http.HandlerFunc {
	resolver := identity.NewURLResolver()
	return func(w http.ResponseWriter, r *http.Request) {
		pageURL := r.URL.Query().Get("url")
		if pageURL == "" {
			badRequest(w, "url is required")
			return
		}
		conversationID, err := resolver.Resolve(pageURL)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, engine.ActiveResult{
			Result:         engine.Result{Success: true},
			ConversationID: conversationID,
			Site:           identity.SiteOf(pageURL),
		})
	}
}
