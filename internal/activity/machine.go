package activity

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/typingcat/internal/sched"
)

const (
	// DefaultDebounce is how long after the last edit the cat goes idle.
	DefaultDebounce = 1000 * time.Millisecond
	// DefaultEscalation is how long a burst lasts before the sweat cue shows.
	DefaultEscalation = 3000 * time.Millisecond
)

// Config holds the machine's timing.
type Config struct {
	Debounce   time.Duration
	Escalation time.Duration
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce, Escalation: DefaultEscalation}
}

// Machine classifies edit events into Idle/Typing with a single debounce timer.
// It is not safe for concurrent use; every method and every scheduled callback
// must run on the same event context.
type Machine struct {
	cfg   Config
	clock sched.Clock
	timer sched.Scheduler

	phase     Phase
	hand      Hand
	escalated bool
	startedAt time.Time
	deadline  time.Time
	debounce  sched.Handle
	closed    bool

	onChange func(State)
	log      zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// WithOnChange registers fn to run after every visible mutation.
func WithOnChange(fn func(State)) Option {
	return func(m *Machine) { m.onChange = fn }
}

// NewMachine returns an idle machine. The hand starts on Right so the first
// burst begins with Left.
func NewMachine(cfg Config, clock sched.Clock, timer sched.Scheduler, opts ...Option) *Machine {
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Escalation < 0 {
		cfg.Escalation = 0
	}
	m := &Machine{
		cfg:   cfg,
		clock: clock,
		timer: timer,
		phase: Idle,
		hand:  Right,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetConfig replaces the timings. A pending debounce keeps its deadline; the new
// delay applies from the next edit.
func (m *Machine) SetConfig(cfg Config) {
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Escalation < 0 {
		cfg.Escalation = 0
	}
	m.cfg = cfg
}

// OnEdit records an edit at the clock's current time.
func (m *Machine) OnEdit() {
	if m.closed {
		return
	}
	now := m.clock.Now()
	if m.phase == Idle {
		m.phase = Typing
		m.startedAt = now
		m.log.Debug().Str("hand", m.hand.Opposite().String()).Msg("Typing burst started")
	}
	m.hand = m.hand.Opposite()
	m.arm(now)
	m.checkEscalation(now)
	m.notify()
}

func (m *Machine) arm(now time.Time) {
	sched.Stop(m.debounce)
	m.deadline = now.Add(m.cfg.Debounce)
	m.debounce = m.timer.AfterFunc(m.cfg.Debounce, m.expire)
}

func (m *Machine) expire() {
	if m.closed || m.phase != Typing {
		return
	}
	burst := m.clock.Now().Sub(m.startedAt)
	m.phase = Idle
	m.startedAt = time.Time{}
	m.deadline = time.Time{}
	m.escalated = false
	m.debounce = nil
	m.log.Debug().Dur("burst", burst).Msg("Typing burst ended")
	m.notify()
}

// CheckEscalation escalates the current burst once it has lasted longer than
// the escalation threshold and reports whether it is escalated.
func (m *Machine) CheckEscalation(now time.Time) bool {
	if m.closed {
		return false
	}
	if m.checkEscalation(now) {
		m.notify()
	}
	return m.escalated
}

func (m *Machine) checkEscalation(now time.Time) bool {
	if m.phase != Typing || m.escalated {
		return false
	}
	if now.Sub(m.startedAt) <= m.cfg.Escalation {
		return false
	}
	m.escalated = true
	m.log.Debug().Msg("Typing burst escalated")
	return true
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Hand returns the last hand used.
func (m *Machine) Hand() Hand { return m.hand }

// Escalated reports whether the current burst is escalated.
func (m *Machine) Escalated() bool { return m.escalated }

// State returns a copy of the visible state.
func (m *Machine) State() State {
	return State{
		Phase:     m.phase,
		Hand:      m.hand,
		Escalated: m.escalated,
		StartedAt: m.startedAt,
		Deadline:  m.deadline,
	}
}

// Close cancels the pending debounce. Later calls and late callbacks are no-ops.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	sched.Stop(m.debounce)
	m.debounce = nil
}

func (m *Machine) notify() {
	if m.onChange != nil {
		m.onChange(m.State())
	}
}
