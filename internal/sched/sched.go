// Package sched provides the clock and timer abstractions the overlay runs on.
//
// Every callback scheduled through a Scheduler runs on the owner's single event
// context: real timers hand their callbacks to a Poster instead of running them on
// the timer goroutine, and the Manual scheduler runs them inline from Advance.
package sched

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler arms one-shot and periodic callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
	Every(period time.Duration, fn func()) Handle
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Stop cancels h when it is non-nil.
func Stop(h Handle) {
	if h != nil {
		h.Cancel()
	}
}
