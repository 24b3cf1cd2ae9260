package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typingcat/internal/activity"
	"github.com/verte-zerg/typingcat/internal/overlay"
	"github.com/verte-zerg/typingcat/internal/speed"
)

func TestMirrorLine(t *testing.T) {
	cases := map[string]string{
		`(")( o.o )`: `( o.o )(")`,
		`/\_/\`:      `/\_/\`,
		`<]`:         `[>`,
	}
	for in, want := range cases {
		if got := mirrorLine(in); got != want {
			t.Fatalf("mirrorLine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRightPoseMirrorsLeft(t *testing.T) {
	if len(rightArt) != len(leftArt) {
		t.Fatalf("expected same height")
	}
	if strings.TrimSpace(rightArt[1]) != `( o.o )(")` {
		t.Fatalf("unexpected right pose: %q", rightArt[1])
	}
}

func TestCatArtPoses(t *testing.T) {
	if got := catArt(overlay.Snapshot{Phase: activity.Idle}); got[1] != idleArt[1] {
		t.Fatalf("expected idle pose")
	}
	if got := catArt(overlay.Snapshot{Phase: activity.Typing, Hand: activity.Left}); got[1] != leftArt[1] {
		t.Fatalf("expected left pose")
	}
	if got := catArt(overlay.Snapshot{Phase: activity.Typing, Hand: activity.Right}); got[1] != rightArt[1] {
		t.Fatalf("expected right pose")
	}
	sweaty := catArt(overlay.Snapshot{Phase: activity.Typing, Hand: activity.Left, Escalated: true})
	if !strings.Contains(sweaty[1], ">.<") {
		t.Fatalf("expected strained face, got %q", sweaty[1])
	}
	if leftArt[1] != `(")( o.o )` {
		t.Fatalf("pose table must not be modified")
	}
}

func TestRenderCatCues(t *testing.T) {
	snap := overlay.Snapshot{
		Phase:     activity.Typing,
		Hand:      activity.Left,
		Escalated: true,
		Heart:     true,
		ShowSpeed: true,
		Rate:      speed.Rate{Value: 60, Metric: speed.WPM},
		Samples:   []int{5, 0},
	}
	b := renderCat(snap)
	if len(b.lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(b.lines))
	}
	if !strings.Contains(b.lines[0], heartGlyph) || !strings.Contains(b.lines[0], sweatGlyph) {
		t.Fatalf("expected heart and sweat cues, got %q", b.lines[0])
	}
	if !strings.Contains(b.lines[4], "60 WPM") {
		t.Fatalf("expected readout, got %q", b.lines[4])
	}

	snap.ShowSpeed = false
	b = renderCat(snap)
	if strings.Contains(strings.Join(b.lines, "\n"), "WPM") {
		t.Fatalf("expected readout hidden")
	}
}

func TestPlaceBlock(t *testing.T) {
	b := block{lines: []string{"ab", "cd"}, width: 2}

	lines, r := placeBlock(b, 10, 4, 0, 0)
	if r != (rect{x: 0, y: 2, w: 2, h: 2}) {
		t.Fatalf("unexpected rect %+v", r)
	}
	if len(lines) != 4 || lines[2] != "ab" || lines[3] != "cd" {
		t.Fatalf("unexpected lines %q", lines)
	}

	lines, r = placeBlock(b, 10, 4, 100, 100)
	if r.x != 8 || r.y != 0 {
		t.Fatalf("unexpected rect %+v", r)
	}
	if lines[0] != "        ab" {
		t.Fatalf("unexpected first line %q", lines[0])
	}

	_, r = placeBlock(b, 10, 4, 50, 50)
	if r.x != 4 || r.y != 1 {
		t.Fatalf("unexpected rect %+v", r)
	}
	if !r.contains(5, 2) || r.contains(6, 2) || r.contains(4, 3) {
		t.Fatalf("unexpected hit test for %+v", r)
	}
}
