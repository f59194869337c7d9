package engine

import (
	"sync"
	"time"
)

// dirtyWindow suppresses remote echoes of a local write. Opened the
// instant a local write begins, closed on a grace timer after the write
// completes, or immediately when the write fails. While open, inbound
// remote updates for the target must not be applied to live UI state.
//
// Reopening while a close timer is pending invalidates that timer: a
// burst of saves keeps exactly one window alive.
type dirtyWindow struct {
	mu    sync.Mutex
	open  bool
	gen   uint64
	timer *time.Timer
}

func (w *dirtyWindow) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// CloseAfter schedules the window to close once the grace period passes,
// unless it is reopened first.
func (w *dirtyWindow) CloseAfter(grace time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return
	}
	gen := w.gen
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(grace, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.gen == gen {
			w.open = false
			w.timer = nil
		}
	})
}

func (w *dirtyWindow) CloseNow() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.open = false
}

func (w *dirtyWindow) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}
