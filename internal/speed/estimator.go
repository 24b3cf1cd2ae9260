package speed

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultInterval is the polling cadence.
	DefaultInterval = 1000 * time.Millisecond
	// DefaultWindow is the sliding window capacity in ticks.
	DefaultWindow = 10
	// DefaultStopTicks is how many trailing empty ticks mean "stopped typing".
	DefaultStopTicks = 2
)

// Config holds the estimator's tuning.
type Config struct {
	Interval  time.Duration
	Window    int
	StopTicks int
	Metric    Metric
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Interval:  DefaultInterval,
		Window:    DefaultWindow,
		StopTicks: DefaultStopTicks,
		Metric:    WPM,
	}
}

func (c Config) normalized() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.StopTicks <= 0 {
		c.StopTicks = DefaultStopTicks
	}
	if _, ok := NormalizeMetric(string(c.Metric)); !ok {
		c.Metric = WPM
	}
	return c
}

// Rate is a displayed speed value with its unit.
type Rate struct {
	Value  int
	Metric Metric
}

func (r Rate) String() string {
	return fmt.Sprintf("%d %s", r.Value, r.Metric.Label())
}

// Estimator accumulates qualifying keystrokes per tick into a bounded window
// of raw character counts. It is not safe for concurrent use.
type Estimator struct {
	cfg       Config
	current   int
	samples   []int
	displayed int
	lastTick  time.Time
	log       zerolog.Logger
}

// NewEstimator returns an empty estimator. Out-of-range values fall back to
// the defaults.
func NewEstimator(cfg Config, log zerolog.Logger) *Estimator {
	cfg = cfg.normalized()
	return &Estimator{
		cfg:     cfg,
		samples: make([]int, 0, cfg.Window),
		log:     log,
	}
}

// RecordKeystroke counts a keystroke in the open tick when it qualifies.
func (e *Estimator) RecordKeystroke(qualifying bool) {
	if qualifying {
		e.current++
	}
}

// OnTick closes the open tick, updates the window and recomputes the rate.
func (e *Estimator) OnTick(now time.Time) {
	added := e.current
	e.current = 0
	e.lastTick = now

	if e.stopped() {
		if added == 0 {
			return
		}
		e.log.Debug().Int("added", added).Msg("Typing resumed, clearing speed window")
		e.samples = e.samples[:0]
	}
	e.push(added)
	e.displayed = e.compute()
}

// stopped reports whether the trailing StopTicks samples are all zero.
// Too little history is never stopped.
func (e *Estimator) stopped() bool {
	n := e.cfg.StopTicks
	if len(e.samples) < n {
		return false
	}
	for _, v := range e.samples[len(e.samples)-n:] {
		if v != 0 {
			return false
		}
	}
	return true
}

func (e *Estimator) push(v int) {
	if len(e.samples) >= e.cfg.Window {
		drop := len(e.samples) - e.cfg.Window + 1
		e.samples = append(e.samples[:0], e.samples[drop:]...)
	}
	e.samples = append(e.samples, v)
}

func (e *Estimator) compute() int {
	if len(e.samples) == 0 {
		return 0
	}
	sum := 0
	for _, v := range e.samples {
		sum += v
	}
	mean := float64(sum) / float64(len(e.samples))
	perSecond := mean / e.cfg.Interval.Seconds()
	return int(math.Round(perSecond / e.cfg.Metric.divisor() * e.cfg.Metric.unitFactor()))
}

// Rate returns the last displayed rate.
func (e *Estimator) Rate() Rate {
	return Rate{Value: e.displayed, Metric: e.cfg.Metric}
}

// Metric returns the active metric.
func (e *Estimator) Metric() Metric {
	return e.cfg.Metric
}

// SetMetric switches the unit. The displayed value resets to zero right away;
// the sample history is unit-independent and kept.
func (e *Estimator) SetMetric(m Metric) {
	if _, ok := NormalizeMetric(string(m)); !ok {
		return
	}
	if m == e.cfg.Metric {
		return
	}
	e.cfg.Metric = m
	e.displayed = 0
}

// SetInterval changes the tick length used to scale the rate. Samples counted
// over the old tick length are dropped; the displayed value holds until the
// next tick.
func (e *Estimator) SetInterval(d time.Duration) {
	if d <= 0 || d == e.cfg.Interval {
		return
	}
	e.cfg.Interval = d
	e.samples = e.samples[:0]
}

// SetStopTicks changes how many silent ticks freeze the readout.
func (e *Estimator) SetStopTicks(n int) {
	if n <= 0 {
		return
	}
	e.cfg.StopTicks = n
}

// Resize changes the window capacity, evicting the oldest samples if needed.
func (e *Estimator) Resize(window int) {
	if window <= 0 {
		return
	}
	e.cfg.Window = window
	if len(e.samples) > window {
		e.samples = append(e.samples[:0], e.samples[len(e.samples)-window:]...)
	}
}

// Samples returns a copy of the window, oldest first.
func (e *Estimator) Samples() []int {
	out := make([]int, len(e.samples))
	copy(out, e.samples)
	return out
}

// Pending returns the qualifying keystrokes counted in the open tick.
func (e *Estimator) Pending() int {
	return e.current
}

// LastTick returns the time of the last OnTick call.
func (e *Estimator) LastTick() time.Time {
	return e.lastTick
}

// Config returns the active configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}
