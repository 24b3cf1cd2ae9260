package generator

import (
	"math"
	"time"
)

// Stroke is one keydown at an offset from the start of a run. Every stroke also
// edits the document.
type Stroke struct {
	At  time.Duration
	Key string
}

// PlanConfig describes a steady typist.
type PlanConfig struct {
	// CPS is the typing pace in characters per second.
	CPS float64
	// PauseAfter inserts Pause before the stroke with this index. Zero disables
	// the pause.
	PauseAfter int
	Pause      time.Duration
}

// Plan spaces the runes of text evenly at cfg.CPS, starting at zero.
func Plan(text string, cfg PlanConfig) []Stroke {
	if cfg.CPS <= 0 || math.IsInf(cfg.CPS, 0) || math.IsNaN(cfg.CPS) {
		return nil
	}
	step := time.Duration(float64(time.Second) / cfg.CPS)
	runes := []rune(text)
	out := make([]Stroke, 0, len(runes))
	var offset time.Duration
	for i, r := range runes {
		if cfg.PauseAfter > 0 && i == cfg.PauseAfter {
			offset += cfg.Pause
		}
		out = append(out, Stroke{At: time.Duration(i)*step + offset, Key: string(r)})
	}
	return out
}

// End returns the offset of the last stroke, or zero for an empty plan.
func End(strokes []Stroke) time.Duration {
	if len(strokes) == 0 {
		return 0
	}
	return strokes[len(strokes)-1].At
}
