package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typingcat/internal/model"
)

// callbackMsg carries a timer callback onto the program's event loop.
type callbackMsg struct {
	fn func()
}

// ReloadMsg replaces the settings of the running overlay, e.g. after the config
// file changed on disk.
type ReloadMsg struct {
	Settings model.Settings
}

// Dispatcher posts timer callbacks to a running program. Its Post method is a
// sched.Poster.
type Dispatcher struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach sets the program callbacks are sent to.
func (d *Dispatcher) Attach(p *tea.Program) {
	d.mu.Lock()
	d.p = p
	d.mu.Unlock()
}

// Post sends fn to the program. Callbacks posted before Attach are dropped.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	p := d.p
	d.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(callbackMsg{fn: fn})
}
