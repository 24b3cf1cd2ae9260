// Package stats renders the speed window and command-line tables.
package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// SampleSparkline renders per-tick keystroke counts scaled from zero, so an idle
// tick is always blank and a steady pace stays at full height.
func SampleSparkline(samples []int) string {
	if len(samples) == 0 {
		return ""
	}
	values := make([]float64, len(samples))
	maxVal := 0.0
	for i, v := range samples {
		values[i] = float64(v)
		if values[i] > maxVal {
			maxVal = values[i]
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(samples))
	}
	var b strings.Builder
	for _, v := range values {
		pos := v / maxVal
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
