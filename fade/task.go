package fade

import "time"

// Task is the handle to a periodically scheduled function. It exists
// so callers own the schedule explicitly instead of registering a
// callback against ambient timer state.
type Task struct {
	cancel chan struct{}
	done   chan struct{}
}

// Schedule invokes fn once per interval until the returned Task is
// cancelled. Invocations do not overlap; if fn runs longer than
// interval the next tick is late, not concurrent.
func Schedule(interval time.Duration, fn func()) *Task {
	t := &Task{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.cancel:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

// Cancel stops the schedule and waits for any in-flight invocation to
// return. Cancel must be called at most once.
func (t *Task) Cancel() {
	close(t.cancel)
	<-t.done
}
