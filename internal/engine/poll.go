package engine

import (
	"context"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/hub"
	"github.com/glitchdraft/draftsync/internal/identity"
	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/remote"
)

// PollDrafts checks the active conversation's remote list against the
// last-observed fingerprint and, on change, refreshes the mirror and
// notifies the overlay. Called from the polling loop and from SyncNow.
func (e *Engine) PollDrafts(ctx context.Context) error {
	e.mu.Lock()
	conversationID := e.activeConversation
	e.mu.Unlock()
	if conversationID == "" {
		return nil
	}

	list, err := e.remote.FetchDraftList(ctx, conversationID)
	if err != nil {
		return err
	}
	e.markSynced()

	sorted := list.Sorted()
	fp := domain.DraftFingerprint(sorted)

	e.mu.Lock()
	changed := e.lastDraftFP[conversationID] != fp
	if changed {
		e.lastDraftFP[conversationID] = fp
	}
	e.mu.Unlock()
	if !changed {
		return nil
	}

	if err := e.cache.SetDraftList(ctx, conversationID, sorted); err != nil {
		e.logger.Warn("failed to mirror polled draft list",
			logger.String("conversation", conversationID),
			logger.Error(err))
	}

	// A change observed while our own save is settling is that save's
	// echo; the mirror took it, the overlay must not be told to reload.
	if e.draftsDirty.IsOpen() {
		return nil
	}

	e.publish(hub.Event{
		Type:           hub.DraftsSynced,
		ConversationID: conversationID,
		Message:        "Messages synced from another device",
	})
	return nil
}

// PollPositions checks the active site's remote position set. On
// change it advances the baseline; the mirror and the overlay are only
// touched when no local drag/resize is settling.
func (e *Engine) PollPositions(ctx context.Context) error {
	e.mu.Lock()
	site := e.activeSite
	e.mu.Unlock()
	if site == "" {
		return nil
	}

	doc, err := e.remote.FetchSettings(ctx)
	if err != nil {
		return err
	}
	e.markSynced()

	set := doc.Positions[identity.SiteKey(site)]
	if set == nil {
		return nil
	}
	e.applyRemotePositions(ctx, site, set, true)
	return nil
}

// ApplyStreamSnapshot feeds one change event from the streaming listener
// into the same reconciliation path the poller uses. Stream-applied
// changes are silent: the overlay re-places its elements but shows no
// notification.
func (e *Engine) ApplyStreamSnapshot(doc *remote.SettingsDoc) {
	e.mu.Lock()
	site := e.activeSite
	e.mu.Unlock()
	if site == "" {
		return
	}

	set := doc.Positions[identity.SiteKey(site)]
	if set == nil {
		return
	}
	e.applyRemotePositions(context.Background(), site, set, false)
}

// applyRemotePositions reconciles one observed remote position set.
// The baseline always advances so a later observation of the same value
// stays quiet; cache and overlay are skipped while the dirty window is
// open, preventing a stale echo from snapping an in-progress drag back.
func (e *Engine) applyRemotePositions(ctx context.Context, site string, set *domain.UIPositionSet, notify bool) {
	fp := domain.PositionFingerprint(set)

	e.mu.Lock()
	if e.lastPosFP[site] == fp {
		e.mu.Unlock()
		return
	}
	first := !e.posSeen[site]
	e.lastPosFP[site] = fp
	e.posSeen[site] = true
	e.mu.Unlock()

	if e.positionsDirty.IsOpen() {
		return
	}

	if err := e.cache.SetPositions(ctx, site, set); err != nil {
		e.logger.Warn("failed to mirror remote positions",
			logger.String("site", site),
			logger.Error(err))
	}

	evt := hub.Event{Type: hub.PositionsSynced, Site: site, Positions: set}
	// No notification on the very first observation after startup;
	// there is no prior baseline for it to differ from.
	if notify && !first {
		evt.Message = "UI position synced from another device"
	}
	e.publish(evt)
}
