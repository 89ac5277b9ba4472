package schedule

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FiredMsg is delivered to the Bubble Tea update loop when a queued task
// falls due. Pass it back to Queue.Fire.
type FiredMsg struct {
	queue *Queue
	id    uint64
}

// Queue is a Scheduler for Bubble Tea programs. Tasks are collected until
// Drain turns them into tea.Tick commands; the resulting FiredMsg runs the
// task on the update goroutine, so a controller driven by a Queue stays
// single-threaded.
type Queue struct {
	nextID  uint64
	pending map[uint64]*task
	unsent  []*task
}

var _ Scheduler = (*Queue)(nil)

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[uint64]*task)}
}

func (q *Queue) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	q.nextID++
	t := &task{id: q.nextID, due: d, fn: fn}
	q.pending[t.id] = t
	q.unsent = append(q.unsent, t)
	return t
}

// Drain returns a command that delivers a FiredMsg for every task scheduled
// since the last Drain, or nil if there are none.
func (q *Queue) Drain() tea.Cmd {
	if len(q.unsent) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(q.unsent))
	for _, t := range q.unsent {
		id := t.id
		cmds = append(cmds, tea.Tick(t.due, func(time.Time) tea.Msg {
			return FiredMsg{queue: q, id: id}
		}))
	}
	q.unsent = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// Fire runs the task named by msg. It reports false when msg belongs to
// another queue, or the task was cancelled or already ran.
func (q *Queue) Fire(msg FiredMsg) bool {
	if msg.queue != q {
		return false
	}
	t, ok := q.pending[msg.id]
	if !ok {
		return false
	}
	delete(q.pending, msg.id)
	if t.cancelled || t.done {
		return false
	}
	t.done = true
	t.fn()
	return true
}

// Pending returns the number of tasks waiting to fire.
func (q *Queue) Pending() int {
	n := 0
	for _, t := range q.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}
