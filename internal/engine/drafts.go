package engine

import (
	"context"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/logger"
)

// GetDraft reads a conversation's drafts from the remote store and
// refreshes the local mirror. A remote failure is reported as-is; the
// engine never silently substitutes the cached copy for a failed read,
// that would mask sync problems from the user.
func (e *Engine) GetDraft(ctx context.Context, conversationID string) DraftsResult {
	list, err := e.remote.FetchDraftList(ctx, conversationID)
	if err != nil {
		e.logger.Warn("failed to fetch draft list",
			logger.String("conversation", conversationID),
			logger.Error(err))
		return DraftsResult{Result: fail(err), ConversationID: conversationID}
	}
	sorted := list.Sorted()

	if err := e.cache.SetDraftList(ctx, conversationID, sorted); err != nil {
		e.logger.Warn("failed to mirror draft list",
			logger.String("conversation", conversationID),
			logger.Error(err))
	}
	e.markSynced()

	return DraftsResult{Result: ok(), ConversationID: conversationID, Drafts: sorted}
}

// CachedDraft returns the local mirror without touching the remote
// store. The overlay uses it to decide what to show next to an "Error
// loading" state.
func (e *Engine) CachedDraft(ctx context.Context, conversationID string) DraftsResult {
	list, found, err := e.cache.GetDraftList(ctx, conversationID)
	if err != nil {
		return DraftsResult{Result: fail(err), ConversationID: conversationID}
	}
	if !found {
		list = domain.DraftList{}
	}
	return DraftsResult{Result: ok(), ConversationID: conversationID, Drafts: list.Sorted()}
}

// SaveDraft replaces the whole list for a conversation: remote first,
// then the local mirror. Concurrent saves to the same conversation are
// last-writer-wins by completion time; there is no merge.
func (e *Engine) SaveDraft(ctx context.Context, conversationID string, list domain.DraftList) DraftsResult {
	e.draftsDirty.Open()

	if err := e.remote.ReplaceDraftList(ctx, conversationID, list); err != nil {
		e.draftsDirty.CloseNow()
		e.logger.Warn("failed to save draft list",
			logger.String("conversation", conversationID),
			logger.Error(err))
		// Local state stays untouched on failure; no partial apply.
		return DraftsResult{Result: fail(err), ConversationID: conversationID}
	}

	sorted := list.Sorted()
	if err := e.cache.SetDraftList(ctx, conversationID, sorted); err != nil {
		e.logger.Warn("failed to mirror draft list after save",
			logger.String("conversation", conversationID),
			logger.Error(err))
	}

	e.mu.Lock()
	e.lastDraftFP[conversationID] = domain.DraftFingerprint(sorted)
	e.mu.Unlock()
	e.markSynced()

	e.draftsDirty.CloseAfter(e.dirtyGrace)
	return DraftsResult{Result: ok(), ConversationID: conversationID, Drafts: sorted}
}

// DeleteDraft removes a conversation's list remotely and locally.
// Deleting an already-absent list succeeds.
func (e *Engine) DeleteDraft(ctx context.Context, conversationID string) Result {
	e.draftsDirty.Open()

	if err := e.remote.DeleteDraftList(ctx, conversationID); err != nil {
		e.draftsDirty.CloseNow()
		e.logger.Warn("failed to delete draft list",
			logger.String("conversation", conversationID),
			logger.Error(err))
		return fail(err)
	}

	if err := e.cache.RemoveDraftList(ctx, conversationID); err != nil {
		e.logger.Warn("failed to remove draft mirror",
			logger.String("conversation", conversationID),
			logger.Error(err))
	}

	e.mu.Lock()
	delete(e.lastDraftFP, conversationID)
	e.mu.Unlock()
	e.markSynced()

	e.draftsDirty.CloseAfter(e.dirtyGrace)
	return ok()
}
