package loop

import (
	"sort"
	"time"
)

// Manual is a deterministic Runner driven by the caller.
// Spawned work runs inline; only its continuation is queued. Timers fire when
// the virtual clock is moved past their deadline with Advance.
type Manual struct {
	now    time.Duration
	tasks  []func()
	timers []*manualTimer
	seq    int
}

// NewManual creates a Manual runner with its clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Post queues fn.
func (m *Manual) Post(fn func()) {
	m.tasks = append(m.tasks, fn)
}

// Spawn runs work immediately and queues its continuation.
func (m *Manual) Spawn(work func() func()) {
	if cont := work(); cont != nil {
		m.Post(cont)
	}
}

// AfterFunc registers fn to fire at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{deadline: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the virtual clock.
func (m *Manual) Now() time.Duration {
	return m.now
}

// RunPending runs queued tasks, including tasks they queue, until none remain.
// It returns the number of tasks executed.
func (m *Manual) RunPending() int {
	n := 0
	for len(m.tasks) > 0 {
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		runTask(task)
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in deadline order and
// running the tasks they produce.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	m.RunPending()
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.deadline
		next.fired = true
		next.fn()
		m.RunPending()
	}
	m.now = target
}

// ActiveTimers returns the number of timers that are neither stopped nor fired.
func (m *Manual) ActiveTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Queued returns the number of tasks waiting to run.
func (m *Manual) Queued() int {
	return len(m.tasks)
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired && t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline == due[j].deadline {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline < due[j].deadline
	})
	return due[0]
}

type manualTimer struct {
	deadline time.Duration
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
