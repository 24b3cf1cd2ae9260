// Package model defines shared data structures.
package model

import (
	"math"
	"time"

	"github.com/verte-zerg/typingcat/internal/speed"
)

// Settings holds every tunable of the overlay.
type Settings struct {
	// Overlay placement and look.
	LeftPercent   float64
	BottomPercent float64
	Opacity       float64
	Clickable     bool
	Mirror        bool

	// Speed readout.
	ShowSpeed    bool
	Metric       speed.Metric
	PollInterval time.Duration
	Window       int
	StopTicks    int

	// Activity timings.
	Debounce      time.Duration
	Escalation    time.Duration
	Throttle      time.Duration
	HeartDuration time.Duration
}

// DefaultSettings mirrors the stock overlay.
func DefaultSettings() Settings {
	return Settings{
		LeftPercent:   2,
		BottomPercent: 2,
		Opacity:       1,
		Clickable:     false,
		Mirror:        false,
		ShowSpeed:     true,
		Metric:        speed.WPM,
		PollInterval:  speed.DefaultInterval,
		Window:        speed.DefaultWindow,
		StopTicks:     speed.DefaultStopTicks,
		Debounce:      1000 * time.Millisecond,
		Escalation:    3000 * time.Millisecond,
		Throttle:      500 * time.Millisecond,
		HeartDuration: 800 * time.Millisecond,
	}
}

// Normalize clamps out-of-range values so the core only ever sees numeric,
// non-negative durations and a known metric.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	s.LeftPercent = clamp(s.LeftPercent, 0, 100)
	s.BottomPercent = clamp(s.BottomPercent, 0, 100)
	s.Opacity = clamp(s.Opacity, 0, 1)
	if m, ok := speed.NormalizeMetric(string(s.Metric)); ok {
		s.Metric = m
	} else {
		s.Metric = def.Metric
	}
	if s.PollInterval <= 0 {
		s.PollInterval = def.PollInterval
	}
	if s.Window <= 0 {
		s.Window = def.Window
	}
	if s.StopTicks <= 0 {
		s.StopTicks = def.StopTicks
	}
	if s.Debounce < 0 {
		s.Debounce = def.Debounce
	}
	if s.Escalation < 0 {
		s.Escalation = def.Escalation
	}
	if s.Throttle < 0 {
		s.Throttle = def.Throttle
	}
	if s.HeartDuration < 0 {
		s.HeartDuration = def.HeartDuration
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Faint reports whether the overlay renders dimmed.
func (s Settings) Faint() bool {
	return s.Opacity < 0.5
}

// DisplayPrefs are the settings toggled at runtime and persisted between runs.
// Nil fields are unset.
type DisplayPrefs struct {
	Metric    *speed.Metric
	ShowSpeed *bool
	Mirror    *bool
	Clickable *bool
}

// Apply overlays the set preferences onto s.
func (p DisplayPrefs) Apply(s Settings) Settings {
	if p.Metric != nil {
		s.Metric = *p.Metric
	}
	if p.ShowSpeed != nil {
		s.ShowSpeed = *p.ShowSpeed
	}
	if p.Mirror != nil {
		s.Mirror = *p.Mirror
	}
	if p.Clickable != nil {
		s.Clickable = *p.Clickable
	}
	return s
}

// PrefsFrom captures the persisted subset of s.
func PrefsFrom(s Settings) DisplayPrefs {
	metric := s.Metric
	show := s.ShowSpeed
	mirror := s.Mirror
	clickable := s.Clickable
	return DisplayPrefs{
		Metric:    &metric,
		ShowSpeed: &show,
		Mirror:    &mirror,
		Clickable: &clickable,
	}
}

// SettingRow is a persisted setting as stored.
type SettingRow struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
