package engine

import (
	"context"
	"fmt"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/hub"
	"github.com/glitchdraft/draftsync/internal/identity"
	"github.com/glitchdraft/draftsync/internal/logger"
)

// Position targets inside a UIPositionSet.
const (
	TargetPanel  = "panel"
	TargetToggle = "toggle"
)

// SavePosition stores one element's placement for a site. The settings
// document is shared by every site, so this is a read-modify-write of
// the whole position map. The dirty window opens before the read and
// stays open for a grace period after the write lands: drag and resize
// produce bursts of near-duplicate saves, and the grace period absorbs
// the remote echo of the value just sent.
func (e *Engine) SavePosition(ctx context.Context, site, target string, pos domain.EdgeAnchoredPosition) PositionsResult {
	if target != TargetPanel && target != TargetToggle {
		return PositionsResult{Result: fail(fmt.Errorf("unknown position target %q", target)), Site: site}
	}
	if pos.Unit == "" {
		pos.Unit = domain.UnitEdge
	}

	e.positionsDirty.Open()

	doc, err := e.remote.FetchSettings(ctx)
	if err != nil {
		e.positionsDirty.CloseNow()
		e.logger.Warn("failed to fetch settings for position save",
			logger.String("site", site),
			logger.Error(err))
		return PositionsResult{Result: fail(err), Site: site}
	}

	if doc.Positions == nil {
		doc.Positions = domain.UIPositionMap{}
	}
	key := identity.SiteKey(site)
	set := doc.Positions[key]
	if set == nil {
		set = &domain.UIPositionSet{}
		doc.Positions[key] = set
	}
	switch target {
	case TargetPanel:
		set.Panel = &pos
	case TargetToggle:
		set.Toggle = &pos
	}

	if err := e.remote.ReplaceSettings(ctx, doc); err != nil {
		e.positionsDirty.CloseNow()
		e.logger.Warn("failed to save position",
			logger.String("site", site),
			logger.Error(err))
		return PositionsResult{Result: fail(err), Site: site}
	}

	if err := e.cache.SetPositions(ctx, site, set); err != nil {
		e.logger.Warn("failed to mirror position after save",
			logger.String("site", site),
			logger.Error(err))
	}

	e.mu.Lock()
	e.lastPosFP[site] = domain.PositionFingerprint(set)
	e.posSeen[site] = true
	e.mu.Unlock()
	e.markSynced()

	e.positionsDirty.CloseAfter(e.dirtyGrace)
	return PositionsResult{Result: ok(), Site: site, Positions: set}
}

// LoadPositions is two-phase: the cached mirror comes back immediately
// so the overlay places itself without flicker, and a background fetch
// reconciles against the remote value. When nothing is cached the remote
// fetch happens inline.
func (e *Engine) LoadPositions(ctx context.Context, site string) PositionsResult {
	cached, found, err := e.cache.GetPositions(ctx, site)
	if err != nil {
		e.logger.Warn("failed to read position mirror",
			logger.String("site", site),
			logger.Error(err))
	}
	if found {
		e.mu.Lock()
		e.lastPosFP[site] = domain.PositionFingerprint(cached)
		e.posSeen[site] = true
		e.mu.Unlock()

		go e.refreshPositions(site)
		return PositionsResult{Result: ok(), Site: site, Positions: cached, FromCache: true}
	}

	doc, err := e.remote.FetchSettings(ctx)
	if err != nil {
		return PositionsResult{Result: fail(err), Site: site}
	}
	e.markSynced()

	set := doc.Positions[identity.SiteKey(site)]
	if set == nil {
		return PositionsResult{Result: ok(), Site: site}
	}

	if err := e.cache.SetPositions(ctx, site, set); err != nil {
		e.logger.Warn("failed to mirror positions",
			logger.String("site", site),
			logger.Error(err))
	}
	e.mu.Lock()
	e.lastPosFP[site] = domain.PositionFingerprint(set)
	e.posSeen[site] = true
	e.mu.Unlock()

	return PositionsResult{Result: ok(), Site: site, Positions: set}
}

// refreshPositions is the async second phase of LoadPositions.
func (e *Engine) refreshPositions(site string) {
	ctx := context.Background()

	doc, err := e.remote.FetchSettings(ctx)
	if err != nil {
		e.logger.Debug("position refresh skipped",
			logger.String("site", site),
			logger.Error(err))
		return
	}
	e.markSynced()

	set := doc.Positions[identity.SiteKey(site)]
	if set == nil {
		return
	}
	fp := domain.PositionFingerprint(set)

	e.mu.Lock()
	unchanged := e.lastPosFP[site] == fp
	e.mu.Unlock()
	if unchanged {
		return
	}

	// The remote value is newer than what the overlay applied. It is
	// always cached; it is only applied (and the baseline advanced)
	// when no local drag/resize is in flight.
	if err := e.cache.SetPositions(ctx, site, set); err != nil {
		e.logger.Warn("failed to mirror refreshed positions",
			logger.String("site", site),
			logger.Error(err))
	}
	if e.positionsDirty.IsOpen() {
		return
	}

	e.mu.Lock()
	e.lastPosFP[site] = fp
	e.posSeen[site] = true
	e.mu.Unlock()

	e.publish(hub.Event{Type: hub.PositionsSynced, Site: site, Positions: set})
}
