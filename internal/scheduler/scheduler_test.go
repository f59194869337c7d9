package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/remote"
)

type countingSyncer struct {
	drafts    atomic.Int64
	positions atomic.Int64
	draftErr  error
}

func (c *countingSyncer) PollDrafts(context.Context) error {
	c.drafts.Add(1)
	return c.draftErr
}

func (c *countingSyncer) PollPositions(context.Context) error {
	c.positions.Add(1)
	return nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPoller_Ticks(t *testing.T) {
	syncer := &countingSyncer{}
	poller := NewPoller(syncer, logger.Nop(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer poller.Stop()

	waitFor(t, time.Second, func() bool {
		return syncer.drafts.Load() >= 3 && syncer.positions.Load() >= 3
	})
}

func TestPoller_ErrorDoesNotStopLoop(t *testing.T) {
	syncer := &countingSyncer{draftErr: errors.New("store unreachable")}
	poller := NewPoller(syncer, logger.Nop(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer poller.Stop()

	waitFor(t, time.Second, func() bool {
		// Draft checks keep failing; position checks must still run.
		return syncer.positions.Load() >= 3
	})
}

func TestPoller_ManualTrigger(t *testing.T) {
	syncer := &countingSyncer{}
	trigger := make(chan struct{})
	// Interval long enough that only the startup tick and the manual
	// trigger fire within the test.
	poller := NewPoller(syncer, logger.Nop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer poller.Stop()

	waitFor(t, time.Second, func() bool { return syncer.drafts.Load() == 1 })

	trigger <- struct{}{}
	waitFor(t, time.Second, func() bool { return syncer.drafts.Load() == 2 })
}

// scriptedListener delivers one snapshot per connection, then ends the
// way its err field says. It counts connections.
type scriptedListener struct {
	connects atomic.Int64
	err      error
	block    bool
}

func (l *scriptedListener) ListenSettings(ctx context.Context, onSnapshot func(*remote.SettingsDoc)) error {
	l.connects.Add(1)
	onSnapshot(&remote.SettingsDoc{})
	if l.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return l.err
}

type countingSink struct {
	applied atomic.Int64
}

func (s *countingSink) ApplyStreamSnapshot(*remote.SettingsDoc) {
	s.applied.Add(1)
}

func TestStreamWatcher_ReconnectsAfterCleanEnd(t *testing.T) {
	listener := &scriptedListener{}
	sink := &countingSink{}
	watcher := NewStreamWatcher(listener, sink, logger.Nop(), 10*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	waitFor(t, time.Second, func() bool {
		return listener.connects.Load() >= 3 && sink.applied.Load() >= 3
	})
}

func TestStreamWatcher_ReconnectsAfterError(t *testing.T) {
	listener := &scriptedListener{err: errors.New("stream broke")}
	sink := &countingSink{}
	watcher := NewStreamWatcher(listener, sink, logger.Nop(), 10*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	waitFor(t, time.Second, func() bool { return listener.connects.Load() >= 3 })
}

func TestStreamWatcher_RestartCancelsInFlightListen(t *testing.T) {
	listener := &scriptedListener{block: true}
	sink := &countingSink{}
	watcher := NewStreamWatcher(listener, sink, logger.Nop(), time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	waitFor(t, time.Second, func() bool { return listener.connects.Load() == 1 })

	watcher.Restart()
	waitFor(t, time.Second, func() bool { return listener.connects.Load() == 2 })
}

func TestStreamWatcher_StopEndsLoop(t *testing.T) {
	listener := &scriptedListener{block: true}
	sink := &countingSink{}
	watcher := NewStreamWatcher(listener, sink, logger.Nop(), time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, time.Second, func() bool { return listener.connects.Load() == 1 })
	watcher.Stop()

	waitFor(t, time.Second, func() bool { return listener.connects.Load() == 1 })
}
