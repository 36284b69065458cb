package workflow

import (
	"sync"
	"time"

	"github.com/BrandonDHaskell/loungegate/internal/clock"
)

// Task is a single pending delayed callback owned by one workflow. All
// methods must be called with the owner's lock held; the callback itself
// runs with that lock held.
//
// Every Schedule or Cancel bumps an epoch. A timer that fires after its
// epoch has moved on returns without calling f, so a callback racing a
// cancel never touches state.
type Task struct {
	mu    *sync.Mutex
	clk   clock.Clock
	epoch uint64
	timer clock.Timer
}

func NewTask(mu *sync.Mutex, clk clock.Clock) *Task {
	return &Task{mu: mu, clk: clk}
}

// Schedule replaces any pending callback with f, due after d.
func (t *Task) Schedule(d time.Duration, f func()) {
	t.Cancel()
	epoch := t.epoch
	t.timer = t.clk.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.epoch != epoch {
			return
		}
		t.timer = nil
		f()
	})
}

// Cancel drops the pending callback, if any.
func (t *Task) Cancel() {
	t.epoch++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a callback is scheduled and has not run.
func (t *Task) Pending() bool {
	return t.timer != nil
}
