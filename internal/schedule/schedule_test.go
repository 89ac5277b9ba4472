package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_RunsInDueOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(800*time.Millisecond, func() { got = append(got, "advance") })
	m.After(200*time.Millisecond, func() { got = append(got, "early") })
	m.After(800*time.Millisecond, func() { got = append(got, "second") })

	m.Advance(799 * time.Millisecond)
	assert.Equal(t, []string{"early"}, got)
	assert.Equal(t, 2, m.Pending())

	m.Advance(time.Millisecond)
	assert.Equal(t, []string{"early", "advance", "second"}, got)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 800*time.Millisecond, m.Now())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	ran := false
	h := m.After(time.Second, func() { ran = true })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())

	m.Advance(2 * time.Second)
	assert.False(t, ran)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CancelAfterRun(t *testing.T) {
	m := NewManual()
	h := m.After(time.Second, func() {})
	m.Advance(time.Second)
	assert.False(t, h.Cancel())
}

func TestManual_NestedScheduling(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	var tick func()
	tick = func() {
		at = append(at, m.Now())
		m.After(time.Second, tick)
	}
	m.After(time.Second, tick)

	m.Advance(3500 * time.Millisecond)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, at)
	assert.Equal(t, 1, m.Pending())
}

func TestStop_NilHandle(t *testing.T) {
	assert.NotPanics(t, func() { Stop(nil) })
}

func TestQueue_DrainAndFire(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Drain())

	ran := 0
	q.After(10*time.Millisecond, func() { ran++ })
	cmd := q.Drain()
	assert.NotNil(t, cmd)
	assert.Nil(t, q.Drain(), "tasks are drained once")

	id := q.nextID
	assert.True(t, q.Fire(FiredMsg{queue: q, id: id}))
	assert.False(t, q.Fire(FiredMsg{queue: q, id: id}), "a task fires once")
	assert.Equal(t, 1, ran)
}

func TestQueue_CancelledTaskDoesNotFire(t *testing.T) {
	q := NewQueue()
	ran := false
	h := q.After(time.Millisecond, func() { ran = true })
	q.Drain()

	assert.Equal(t, 1, q.Pending())
	h.Cancel()
	assert.Equal(t, 0, q.Pending())
	assert.False(t, q.Fire(FiredMsg{queue: q, id: q.nextID}))
	assert.False(t, ran)
}

func TestQueue_IgnoresForeignMessages(t *testing.T) {
	a, b := NewQueue(), NewQueue()
	ran := false
	a.After(time.Millisecond, func() { ran = true })

	assert.False(t, b.Fire(FiredMsg{queue: a, id: 1}))
	assert.False(t, ran)
}

func TestQueue_TickDeliversFiredMsg(t *testing.T) {
	single := NewQueue()
	single.After(time.Millisecond, func() {})
	msg := single.Drain()()
	fired, ok := msg.(FiredMsg)
	assert.True(t, ok)
	assert.True(t, single.Fire(fired))
}
