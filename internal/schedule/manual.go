package schedule

import (
	"slices"
	"time"
)

// Manual is a Scheduler on virtual time. Nothing runs until Advance is
// called. It is not safe for concurrent use.
type Manual struct {
	now    time.Duration
	nextID uint64
	tasks  []*task
}

var _ Scheduler = (*Manual)(nil)

// NewManual returns a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.nextID++
	t := &task{id: m.nextID, due: m.now + d, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.done && !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every task that falls due in
// order of due time, then scheduling order. Tasks scheduled by a running task
// run in the same call if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.due
		t.done = true
		t.fn()
	}
	m.now = target
	m.compact()
}

func (m *Manual) nextDue(limit time.Duration) *task {
	var next *task
	for _, t := range m.tasks {
		if t.done || t.cancelled || t.due > limit {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (m *Manual) compact() {
	m.tasks = slices.DeleteFunc(m.tasks, func(t *task) bool {
		return t.done || t.cancelled
	})
}
