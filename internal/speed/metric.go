// Package speed estimates a live typing speed from per-tick keystroke counts.
package speed

import "strings"

// Metric selects the unit of the displayed rate.
type Metric string

const (
	WPM Metric = "wpm"
	CPS Metric = "cps"
	CPM Metric = "cpm"
)

// CharsPerWord is the conventional word length used for WPM.
const CharsPerWord = 5.0

// Metrics lists the metrics in settings-panel order.
var Metrics = []Metric{WPM, CPS, CPM}

// NormalizeMetric parses a raw string into a known Metric.
func NormalizeMetric(raw string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wpm":
		return WPM, true
	case "cps":
		return CPS, true
	case "cpm":
		return CPM, true
	default:
	}
	return "", false
}

// Next returns the metric after m in settings-panel order.
func (m Metric) Next() Metric {
	for i, candidate := range Metrics {
		if candidate == m {
			return Metrics[(i+1)%len(Metrics)]
		}
	}
	return WPM
}

// Label is the short unit shown next to the number.
func (m Metric) Label() string {
	switch m {
	case CPS:
		return "CPS"
	case CPM:
		return "CPM"
	default:
		return "WPM"
	}
}

// Description is the long name used by the settings panel.
func (m Metric) Description() string {
	switch m {
	case CPS:
		return "Characters per second"
	case CPM:
		return "Characters per minute"
	default:
		return "Words per minute"
	}
}

// unitFactor converts a per-tick mean into the metric's time unit.
func (m Metric) unitFactor() float64 {
	if m == CPS {
		return 1
	}
	return 60
}

// divisor converts raw characters into the metric's counting unit.
func (m Metric) divisor() float64 {
	if m == CPS || m == CPM {
		return 1
	}
	return CharsPerWord
}
