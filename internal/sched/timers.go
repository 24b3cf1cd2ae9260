package sched

import (
	"sync"
	"time"
)

// Poster delivers fn to the owner's event context, e.g. by wrapping it in a
// message for tea.Program.Send.
type Poster func(fn func())

// Timers is a Scheduler backed by real timers. Callbacks never run on the timer
// goroutine; they are posted and then checked against the handle's cancel flag on
// the event context, so a delivery that raced a Cancel is dropped.
type Timers struct {
	post Poster
}

// NewTimers returns a Scheduler that delivers callbacks through post.
func NewTimers(post Poster) *Timers {
	return &Timers{post: post}
}

type timerHandle struct {
	// cancelled is only touched from the event context.
	cancelled bool
	timer     *time.Timer
	ticker    *time.Ticker
	done      chan struct{}
	once      sync.Once
}

func (h *timerHandle) Cancel() {
	h.cancelled = true
	h.once.Do(func() {
		if h.timer != nil {
			h.timer.Stop()
		}
		if h.ticker != nil {
			h.ticker.Stop()
		}
		if h.done != nil {
			close(h.done)
		}
	})
}

// AfterFunc implements Scheduler.
func (t *Timers) AfterFunc(d time.Duration, fn func()) Handle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(d, func() {
		t.post(func() {
			if h.cancelled {
				return
			}
			h.cancelled = true
			fn()
		})
	})
	return h
}

// Every implements Scheduler. A non-positive period never fires.
func (t *Timers) Every(period time.Duration, fn func()) Handle {
	h := &timerHandle{done: make(chan struct{})}
	if period <= 0 {
		return h
	}
	h.ticker = time.NewTicker(period)
	tickC := h.ticker.C
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-tickC:
				t.post(func() {
					if h.cancelled {
						return
					}
					fn()
				})
			}
		}
	}()
	return h
}
