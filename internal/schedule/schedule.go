// Package schedule provides cancellable delayed tasks. Controllers take a
// Scheduler so tests can drive time by hand and the TUI can run tasks on its
// update loop.
package schedule

import "time"

// Scheduler runs fn once after d unless the returned Handle is cancelled first.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

// Handle cancels a scheduled task.
type Handle interface {
	// Cancel stops the task. It reports false if the task already ran or was
	// already cancelled.
	Cancel() bool
}

// Stop cancels h if it is non-nil.
func Stop(h Handle) {
	if h != nil {
		h.Cancel()
	}
}

type task struct {
	id        uint64
	due       time.Duration
	fn        func()
	done      bool
	cancelled bool
}

func (t *task) Cancel() bool {
	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}
