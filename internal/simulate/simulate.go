// Package simulate replays a keystroke plan through an overlay session on a
// virtual clock and records what the overlay would show after every tick.
package simulate

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/typingcat/internal/activity"
	"github.com/verte-zerg/typingcat/internal/generator"
	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/overlay"
	"github.com/verte-zerg/typingcat/internal/sched"
	"github.com/verte-zerg/typingcat/internal/speed"
	"github.com/verte-zerg/typingcat/internal/stats"
)

// Epoch is the virtual start time of every run.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Frame is the overlay state right after one poll tick.
type Frame struct {
	At        time.Duration
	Phase     activity.Phase
	Hand      activity.Hand
	Escalated bool
	Rate      speed.Rate
	Samples   []int
}

// Run feeds strokes to a fresh session and advances the clock until the given
// offset. Frames are taken after each poll tick.
func Run(settings model.Settings, strokes []generator.Stroke, until time.Duration, log zerolog.Logger) ([]Frame, error) {
	clock := sched.NewManual(Epoch)
	session := overlay.NewSession(settings, clock, clock, overlay.WithLogger(log))
	defer session.Close()
	if err := session.Start(); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	// Armed after the session's own ticker, so at equal deadlines it runs second.
	var frames []Frame
	recorder := clock.Every(session.Settings().PollInterval, func() {
		snap := session.Snapshot()
		frames = append(frames, Frame{
			At:        clock.Now().Sub(Epoch),
			Phase:     snap.Phase,
			Hand:      snap.Hand,
			Escalated: snap.Escalated,
			Rate:      snap.Rate,
			Samples:   snap.Samples,
		})
	})
	defer recorder.Cancel()

	for _, s := range strokes {
		if s.At > until {
			break
		}
		clock.AdvanceTo(Epoch.Add(s.At))
		session.OnKey(s.Key, speed.Modifiers{})
		session.OnEdit()
	}
	clock.AdvanceTo(Epoch.Add(until))
	log.Debug().Int("frames", len(frames)).Dur("until", until).Msg("Simulation finished")
	return frames, nil
}

// Render prints frames as a table.
func Render(w io.Writer, frames []Frame) error {
	headers := []string{"Time", "Phase", "Paw", "Sweat", "Speed", "Window"}
	rows := make([][]string, 0, len(frames))
	for _, f := range frames {
		sweat := ""
		if f.Escalated {
			sweat = "yes"
		}
		paw := ""
		if f.Phase == activity.Typing {
			paw = f.Hand.String()
		}
		rows = append(rows, []string{
			strconv.FormatFloat(f.At.Seconds(), 'f', 1, 64) + "s",
			f.Phase.String(),
			paw,
			sweat,
			f.Rate.String(),
			"[" + stats.SampleSparkline(f.Samples) + "]",
		})
	}
	return stats.WriteTable(w, headers, rows, map[int]bool{0: true, 4: true})
}
