package activity

import "time"

// DefaultThrottle is the minimum gap between accepted clicks.
const DefaultThrottle = 500 * time.Millisecond

// Throttle accepts an event only when at least interval has elapsed since the
// last accepted one. Rejected events are dropped, never queued.
type Throttle struct {
	interval time.Duration
	last     time.Time
	accepted bool
}

// NewThrottle returns a Throttle with the given interval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval < 0 {
		interval = 0
	}
	return &Throttle{interval: interval}
}

// Accept reports whether an event at now passes, recording it if so.
func (t *Throttle) Accept(now time.Time) bool {
	if t.accepted && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	t.accepted = true
	return true
}

// SetInterval changes the interval without forgetting the last accepted event.
func (t *Throttle) SetInterval(interval time.Duration) {
	if interval < 0 {
		interval = 0
	}
	t.interval = interval
}
