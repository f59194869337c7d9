package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/remote"
)

// DefaultPollInterval is how often the poller reconciles the active
// conversation and site against the remote store.
const DefaultPollInterval = 2 * time.Second

// Syncer is the reconciliation surface the poller drives.
type Syncer interface {
	PollDrafts(ctx context.Context) error
	PollPositions(ctx context.Context) error
}

// Poller runs the periodic reconciliation loop. Each tick checks drafts
// and positions independently; a failure in one never blocks the other,
// and no failure stops the loop.
type Poller struct {
	syncer        Syncer
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPoller creates a new poller. manualTrigger lets callers force an
// immediate tick (the sync-now endpoint uses it).
func NewPoller(
	syncer Syncer,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Poller {
	if interval == 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		syncer:        syncer,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reconciliation process
func (p *Poller) Start(ctx context.Context) error {
	// Reconcile immediately on start
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.tick(ctx)
			case <-p.manualTrigger:
				p.logger.Info("manual sync triggered")
				p.tick(ctx)
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the poller
func (p *Poller) Stop() {
	close(p.stopCh)
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.syncer.PollDrafts(ctx); err != nil {
		p.logPollError("draft poll failed", err)
	}
	if err := p.syncer.PollPositions(ctx); err != nil {
		p.logPollError("position poll failed", err)
	}
}

// logPollError keeps an unconfigured store from flooding the log; until
// credentials arrive every tick would fail the same way.
func (p *Poller) logPollError(msg string, err error) {
	if errors.Is(err, remote.ErrNotConfigured) {
		p.logger.Debug(msg, logger.Error(err))
		return
	}
	p.logger.Warn(msg, logger.Error(err))
}
