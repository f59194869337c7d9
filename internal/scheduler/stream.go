package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/remote"
)

// Stream reconnect delays. A failed stream waits longer than a cleanly
// closed one; servers end long polls routinely and that is not an error.
const (
	DefaultStreamErrorBackoff = 5 * time.Second
	DefaultStreamEndBackoff   = 3 * time.Second
)

// Listener is the streaming surface of the remote store.
type Listener interface {
	ListenSettings(ctx context.Context, onSnapshot func(*remote.SettingsDoc)) error
}

// SnapshotSink receives each settings snapshot the stream delivers.
type SnapshotSink interface {
	ApplyStreamSnapshot(doc *remote.SettingsDoc)
}

// StreamWatcher keeps exactly one settings listener alive, reconnecting
// with a backoff after every disconnect. Restart cancels the in-flight
// listen and reconnects immediately; the app triggers it when the sync
// configuration changes so the stream picks up new credentials.
type StreamWatcher struct {
	listener     Listener
	sink         SnapshotSink
	logger       logger.Logger
	errorBackoff time.Duration
	endBackoff   time.Duration
	stopCh       chan struct{}
	restartCh    chan struct{}
}

// NewStreamWatcher creates a new stream watcher
func NewStreamWatcher(
	listener Listener,
	sink SnapshotSink,
	log logger.Logger,
	errorBackoff time.Duration,
	endBackoff time.Duration,
) *StreamWatcher {
	if errorBackoff == 0 {
		errorBackoff = DefaultStreamErrorBackoff
	}
	if endBackoff == 0 {
		endBackoff = DefaultStreamEndBackoff
	}
	return &StreamWatcher{
		listener:     listener,
		sink:         sink,
		logger:       log,
		errorBackoff: errorBackoff,
		endBackoff:   endBackoff,
		stopCh:       make(chan struct{}),
		restartCh:    make(chan struct{}, 1),
	}
}

// Start begins the listen/reconnect loop
func (sw *StreamWatcher) Start(ctx context.Context) error {
	go sw.run(ctx)
	return nil
}

// Stop stops the watcher and cancels the in-flight listen
func (sw *StreamWatcher) Stop() {
	close(sw.stopCh)
}

// Restart tears down the current listen and reconnects without waiting
// out the backoff. Safe to call from any goroutine; coalesces bursts.
func (sw *StreamWatcher) Restart() {
	select {
	case sw.restartCh <- struct{}{}:
	default:
	}
}

func (sw *StreamWatcher) run(ctx context.Context) {
	for {
		select {
		case <-sw.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		delay := sw.listenOnce(ctx)
		if delay == 0 {
			continue
		}
		if !sw.wait(ctx, delay) {
			return
		}
	}
}

// listenOnce runs a single listen until it ends and returns how long to
// wait before reconnecting. Zero means reconnect immediately.
func (sw *StreamWatcher) listenOnce(ctx context.Context) time.Duration {
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sw.listener.ListenSettings(listenCtx, sw.sink.ApplyStreamSnapshot)
	}()

	select {
	case <-sw.stopCh:
		cancel()
		<-done
		return 0
	case <-sw.restartCh:
		sw.logger.Info("restarting settings stream")
		cancel()
		<-done
		return 0
	case err := <-done:
		switch {
		case err == nil:
			sw.logger.Debug("settings stream ended, reconnecting")
			return sw.endBackoff
		case errors.Is(err, context.Canceled):
			return 0
		case errors.Is(err, remote.ErrNotConfigured):
			// Nothing to listen to yet; Restart fires once the sync
			// configuration shows up.
			sw.logger.Debug("settings stream idle, sync not configured")
			return sw.errorBackoff
		default:
			sw.logger.Warn("settings stream failed", logger.Error(err))
			return sw.errorBackoff
		}
	}
}

// wait sleeps for d but wakes early on restart, stop or shutdown.
// Returns false when the watcher should exit.
func (sw *StreamWatcher) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-sw.restartCh:
		return true
	case <-sw.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}
