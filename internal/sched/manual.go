package sched

import (
	"sort"
	"time"
)

// Manual is a virtual clock and scheduler. Time only moves through Advance and
// AdvanceTo, which run due callbacks inline in deadline order.
type Manual struct {
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	m         *Manual
	seq       uint64
	at        time.Time
	period    time.Duration
	fn        func()
	cancelled bool
}

func (t *manualTimer) Cancel() {
	t.cancelled = true
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	return m.add(m.now.Add(d), 0, fn)
}

// Every implements Scheduler. A non-positive period never fires.
func (m *Manual) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		return &manualTimer{m: m, cancelled: true}
	}
	return m.add(m.now.Add(period), period, fn)
}

func (m *Manual) add(at time.Time, period time.Duration, fn func()) *manualTimer {
	m.seq++
	t := &manualTimer{m: m, seq: m.seq, at: at, period: period, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Pending reports the number of armed, uncancelled timers.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves the clock to target, firing every callback due on the way with
// the clock set to that callback's deadline.
func (m *Manual) AdvanceTo(target time.Time) {
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.cancelled = true
		}
		next.fn()
	}
	if target.After(m.now) {
		m.now = target
	}
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].at.Equal(live[j].at) {
			return live[i].seq < live[j].seq
		}
		return live[i].at.Before(live[j].at)
	})
	if live[0].at.After(target) {
		return nil
	}
	return live[0]
}
