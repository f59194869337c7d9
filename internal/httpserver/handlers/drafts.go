package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
)

type saveDraftsRequest struct {
	Drafts domain.DraftList `json:"drafts"`
}

// GetDrafts returns the remote draft list for a conversation, newest
// first. The envelope's success flag is what the overlay branches on; a
// remote failure still answers 200.
func GetDrafts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")
		writeJSON(w, http.StatusOK, d.Engine.GetDraft(r.Context(), conversationID))
	}
}

// CachedDrafts returns the local mirror without a remote round trip.
func CachedDrafts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")
		writeJSON(w, http.StatusOK, d.Engine.CachedDraft(r.Context(), conversationID))
	}
}

// SaveDrafts replaces the whole list for a conversation.
func SaveDrafts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")

		var req saveDraftsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
		if req.Drafts == nil {
			req.Drafts = domain.DraftList{}
		}
		writeJSON(w, http.StatusOK, d.Engine.SaveDraft(r.Context(), conversationID, req.Drafts))
	}
}

// DeleteDrafts removes a conversation's list everywhere.
func DeleteDrafts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")
		writeJSON(w, http.StatusOK, d.Engine.DeleteDraft(r.Context(), conversationID))
	}
}
