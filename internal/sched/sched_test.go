package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_AfterFuncFiresAtDeadline(t *testing.T) {
	m := NewManual(epoch)
	var firedAt time.Time
	m.AfterFunc(time.Second, func() { firedAt = m.Now() })

	m.Advance(999 * time.Millisecond)
	assert.True(t, firedAt.IsZero())

	m.Advance(time.Millisecond)
	assert.Equal(t, epoch.Add(time.Second), firedAt)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CancelledTimerNeverFires(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	h := m.AfterFunc(time.Second, func() { fired = true })
	h.Cancel()
	h.Cancel()

	m.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManual_EveryRepeatsInOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string
	m.Every(time.Second, func() { got = append(got, "tick") })
	m.AfterFunc(1500*time.Millisecond, func() { got = append(got, "once") })

	m.Advance(3 * time.Second)
	assert.Equal(t, []string{"tick", "once", "tick", "tick"}, got)
	assert.Equal(t, epoch.Add(3*time.Second), m.Now())
}

func TestManual_CallbackCanRearm(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var arm func()
	arm = func() {
		m.AfterFunc(time.Second, func() {
			count++
			if count < 3 {
				arm()
			}
		})
	}
	arm()

	m.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestManual_NonPositivePeriodIsInert(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	m.Every(0, func() { fired = true })
	m.Advance(time.Hour)
	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

// chanPoster stands in for an event loop: callbacks queue up until the test
// drains them on its own goroutine.
func chanPoster(ch chan func()) Poster {
	return func(fn func()) { ch <- fn }
}

func TestTimers_AfterFuncPostsCallback(t *testing.T) {
	ch := make(chan func(), 4)
	timers := NewTimers(chanPoster(ch))
	fired := 0
	timers.AfterFunc(5*time.Millisecond, func() { fired++ })

	select {
	case fn := <-ch:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timer callback was not posted")
	}
	assert.Equal(t, 1, fired)
}

func TestTimers_CancelDropsRacingDelivery(t *testing.T) {
	ch := make(chan func(), 4)
	timers := NewTimers(chanPoster(ch))
	fired := false
	h := timers.AfterFunc(time.Millisecond, func() { fired = true })

	var fn func()
	select {
	case fn = <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timer callback was not posted")
	}
	// Cancelled after the timer fired but before the event loop ran it.
	h.Cancel()
	fn()
	assert.False(t, fired)
}

func TestTimers_EveryStopsAfterCancel(t *testing.T) {
	ch := make(chan func(), 64)
	timers := NewTimers(chanPoster(ch))
	count := 0
	h := timers.Every(2*time.Millisecond, func() { count++ })

	for count < 2 {
		select {
		case fn := <-ch:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatal("ticker callback was not posted")
		}
	}
	h.Cancel()
	require.Equal(t, 2, count)

	drain := time.After(20 * time.Millisecond)
	for {
		select {
		case fn := <-ch:
			fn()
		case <-drain:
			assert.Equal(t, 2, count)
			return
		}
	}
}
