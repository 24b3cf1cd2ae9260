// Package overlay wires the activity machine, the speed estimator and the click
// throttle into one session driven by host events and a poll ticker.
package overlay

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typingcat/internal/activity"
	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/sched"
	"github.com/verte-zerg/typingcat/internal/speed"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("overlay session closed")

// Snapshot is everything the presentation layer needs for one frame.
type Snapshot struct {
	Phase     activity.Phase
	Hand      activity.Hand
	Escalated bool
	Heart     bool
	Rate      speed.Rate
	Samples   []int
	ShowSpeed bool
	Mirror    bool
	Clickable bool
	Faint     bool
	Left      float64
	Bottom    float64
}

// Session is one activation of the overlay. Every method and every scheduled
// callback must run on the same event context.
type Session struct {
	id       string
	settings model.Settings
	clock    sched.Clock
	timer    sched.Scheduler

	machine  *activity.Machine
	speed    *speed.Estimator
	like     *activity.Throttle
	poll     sched.Handle
	heart    sched.Handle
	heartEnd time.Time

	started bool
	closed  bool

	onChange func(Snapshot)
	log      zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger; the session id is added to every line.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithOnChange registers fn to run after every visible change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession builds a session. Settings are normalized before use. The poll
// ticker does not run until Start.
func NewSession(settings model.Settings, clock sched.Clock, timer sched.Scheduler, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		settings: settings.Normalize(),
		clock:    clock,
		timer:    timer,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session_id", s.id).Logger()

	s.machine = activity.NewMachine(activityConfig(s.settings), clock, timer,
		activity.WithLogger(s.log),
		activity.WithOnChange(func(activity.State) { s.notify() }),
	)
	s.speed = speed.NewEstimator(speedConfig(s.settings), s.log)
	s.like = activity.NewThrottle(s.settings.Throttle)
	return s
}

func activityConfig(s model.Settings) activity.Config {
	return activity.Config{Debounce: s.Debounce, Escalation: s.Escalation}
}

func speedConfig(s model.Settings) speed.Config {
	return speed.Config{
		Interval:  s.PollInterval,
		Window:    s.Window,
		StopTicks: s.StopTicks,
		Metric:    s.Metric,
	}
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// Settings returns the active settings.
func (s *Session) Settings() model.Settings { return s.settings }

// Start arms the poll ticker. Calling it twice is a no-op.
func (s *Session) Start() error {
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true
	s.armPoll()
	s.log.Info().
		Str("metric", string(s.settings.Metric)).
		Dur("poll", s.settings.PollInterval).
		Int("window", s.settings.Window).
		Msg("Overlay session started")
	return nil
}

func (s *Session) armPoll() {
	sched.Stop(s.poll)
	s.poll = s.timer.Every(s.settings.PollInterval, s.tick)
}

func (s *Session) tick() {
	if s.closed {
		return
	}
	now := s.clock.Now()
	s.speed.OnTick(now)
	s.machine.CheckEscalation(now)
	s.notify()
}

// OnEdit feeds an editor mutation to the activity machine.
func (s *Session) OnEdit() {
	if s.closed {
		return
	}
	s.machine.OnEdit()
}

// OnKey feeds a keydown to the speed estimator.
func (s *Session) OnKey(key string, mods speed.Modifiers) {
	if s.closed {
		return
	}
	s.speed.RecordKeystroke(speed.IsQualifying(key, mods))
}

// OnClick triggers the heart pulse when the overlay is clickable and the
// throttle lets the click through.
func (s *Session) OnClick() bool {
	if s.closed || !s.settings.Clickable {
		return false
	}
	now := s.clock.Now()
	if !s.like.Accept(now) {
		return false
	}
	s.heartEnd = now.Add(s.settings.HeartDuration)
	sched.Stop(s.heart)
	s.heart = s.timer.AfterFunc(s.settings.HeartDuration, s.notify)
	s.log.Debug().Msg("Heart pulse")
	s.notify()
	return true
}

// SetMetric switches the speed unit. The readout drops to zero at once.
func (s *Session) SetMetric(m speed.Metric) {
	if s.closed {
		return
	}
	next := s.settings
	next.Metric = m
	_ = s.Apply(next)
}

// Apply replaces the settings of a running session.
func (s *Session) Apply(settings model.Settings) error {
	if s.closed {
		return ErrClosed
	}
	settings = settings.Normalize()
	prev := s.settings
	s.settings = settings

	s.machine.SetConfig(activityConfig(settings))
	s.like.SetInterval(settings.Throttle)
	if settings.Metric != prev.Metric {
		s.speed.SetMetric(settings.Metric)
	}
	if settings.Window != prev.Window {
		s.speed.Resize(settings.Window)
	}
	if settings.StopTicks != prev.StopTicks {
		s.speed.SetStopTicks(settings.StopTicks)
	}
	if settings.PollInterval != prev.PollInterval {
		s.speed.SetInterval(settings.PollInterval)
		if s.started {
			s.armPoll()
		}
	}
	s.log.Info().Str("metric", string(settings.Metric)).Msg("Overlay settings applied")
	s.notify()
	return nil
}

// Snapshot returns the current frame. Escalation is re-checked lazily.
func (s *Session) Snapshot() Snapshot {
	now := s.clock.Now()
	if !s.closed {
		s.machine.CheckEscalation(now)
	}
	return s.snapshot(now)
}

func (s *Session) snapshot(now time.Time) Snapshot {
	st := s.machine.State()
	return Snapshot{
		Phase:     st.Phase,
		Hand:      st.Hand,
		Escalated: st.Escalated,
		Heart:     !s.heartEnd.IsZero() && now.Before(s.heartEnd),
		Rate:      s.speed.Rate(),
		Samples:   s.speed.Samples(),
		ShowSpeed: s.settings.ShowSpeed,
		Mirror:    s.settings.Mirror,
		Clickable: s.settings.Clickable,
		Faint:     s.settings.Faint(),
		Left:      s.settings.LeftPercent,
		Bottom:    s.settings.BottomPercent,
	}
}

// Close cancels every timer. It is idempotent and late callbacks are no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	sched.Stop(s.poll)
	sched.Stop(s.heart)
	s.poll, s.heart = nil, nil
	s.machine.Close()
	s.log.Info().Msg("Overlay session closed")
}

func (s *Session) notify() {
	if s.onChange == nil || s.closed {
		return
	}
	s.onChange(s.snapshot(s.clock.Now()))
}
