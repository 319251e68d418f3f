package poll

import (
	"time"

	"github.com/muurk/ewcportal/internal/loop"
)

// TimerSlot holds at most one pending timer for one purpose. Arming a slot
// stops whatever it held before, so a superseded timer never fires.
type TimerSlot struct {
	runner loop.Runner
	name   string
	timer  loop.Timer
	gen    uint64
	arms   int
}

// NewTimerSlot creates an empty slot.
func NewTimerSlot(runner loop.Runner, name string) *TimerSlot {
	return &TimerSlot{runner: runner, name: name}
}

// Name returns the slot's purpose, e.g. "poll" or "fallback".
func (t *TimerSlot) Name() string {
	return t.name
}

// Arm replaces any pending timer with one that runs fn after d.
func (t *TimerSlot) Arm(d time.Duration, fn func()) {
	t.Stop()
	t.arms++
	gen := t.gen
	t.timer = t.runner.AfterFunc(d, func() {
		if gen != t.gen {
			return
		}
		t.timer = nil
		fn()
	})
}

// Stop cancels the pending timer. It reports whether one was pending.
func (t *TimerSlot) Stop() bool {
	t.gen++
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.timer = nil
	return stopped
}

// Armed reports whether a timer is pending.
func (t *TimerSlot) Armed() bool {
	return t.timer != nil
}

// Arms returns how many times the slot has been armed.
func (t *TimerSlot) Arms() int {
	return t.arms
}
