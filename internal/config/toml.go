// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/speed"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Overlay  OverlayConfig  `toml:"overlay"`
	Speed    SpeedConfig    `toml:"speed"`
	Activity ActivityConfig `toml:"activity"`
	Log      LogConfig      `toml:"log"`
}

// OverlayConfig maps placement and look settings.
type OverlayConfig struct {
	Left      *float64 `toml:"left"`
	Bottom    *float64 `toml:"bottom"`
	Opacity   *float64 `toml:"opacity"`
	Clickable *bool    `toml:"clickable"`
	Mirror    *bool    `toml:"mirror"`
}

// SpeedConfig maps speed readout settings.
type SpeedConfig struct {
	Show      *bool   `toml:"show"`
	Metric    *string `toml:"metric"`
	PollMs    *int    `toml:"poll-ms"`
	Window    *int    `toml:"window"`
	StopTicks *int    `toml:"stop-ticks"`
}

// ActivityConfig maps state machine timings.
type ActivityConfig struct {
	DebounceMs *int `toml:"debounce-ms"`
	EscalateMs *int `toml:"escalate-ms"`
	ThrottleMs *int `toml:"throttle-ms"`
	HeartMs    *int `toml:"heart-ms"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Debug *bool   `toml:"debug"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Speed.Metric != nil {
		if _, ok := speed.NormalizeMetric(*cfg.Speed.Metric); !ok {
			return FileConfig{}, fmt.Errorf("unknown speed metric %q (want wpm, cps or cpm)", *cfg.Speed.Metric)
		}
	}
	return cfg, nil
}

// Apply overlays the values set in the file onto s.
func (c FileConfig) Apply(s model.Settings) model.Settings {
	setFloat(&s.LeftPercent, c.Overlay.Left)
	setFloat(&s.BottomPercent, c.Overlay.Bottom)
	setFloat(&s.Opacity, c.Overlay.Opacity)
	setBool(&s.Clickable, c.Overlay.Clickable)
	setBool(&s.Mirror, c.Overlay.Mirror)

	setBool(&s.ShowSpeed, c.Speed.Show)
	if c.Speed.Metric != nil {
		if m, ok := speed.NormalizeMetric(*c.Speed.Metric); ok {
			s.Metric = m
		}
	}
	setMillis(&s.PollInterval, c.Speed.PollMs)
	setInt(&s.Window, c.Speed.Window)
	setInt(&s.StopTicks, c.Speed.StopTicks)

	setMillis(&s.Debounce, c.Activity.DebounceMs)
	setMillis(&s.Escalation, c.Activity.EscalateMs)
	setMillis(&s.Throttle, c.Activity.ThrottleMs)
	setMillis(&s.HeartDuration, c.Activity.HeartMs)
	return s
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setBool(target, value *bool) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setMillis(target *time.Duration, value *int) {
	if value != nil {
		*target = time.Duration(*value) * time.Millisecond
	}
}
