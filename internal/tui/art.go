package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typingcat/internal/activity"
	"github.com/verte-zerg/typingcat/internal/overlay"
	"github.com/verte-zerg/typingcat/internal/stats"
)

const (
	heartGlyph = "♥"
	sweatGlyph = "💦"
)

var (
	idleArt = []string{
		`  /\_/\  `,
		` ( -.- ) `,
		` (")_(") `,
	}
	// The left paw is raised; the right-paw frame is its mirror image.
	leftArt = []string{
		`   /\_/\  `,
		`(")( o.o )`,
		`    (")_  `,
	}
	rightArt = mirrorLines(leftArt)
)

var mirrorPairs = map[rune]rune{
	'(': ')', ')': '(',
	'/': '\\', '\\': '/',
	'<': '>', '>': '<',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

// mirrorLines flips art horizontally, padding every line to the widest one.
func mirrorLines(lines []string) []string {
	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = mirrorLine(runewidth.FillRight(line, width))
	}
	return out
}

func mirrorLine(line string) string {
	runes := []rune(line)
	out := make([]rune, len(runes))
	for i, r := range runes {
		if m, ok := mirrorPairs[r]; ok {
			r = m
		}
		out[len(runes)-1-i] = r
	}
	return string(out)
}

// catArt picks the pose for the snapshot, before mirroring.
func catArt(snap overlay.Snapshot) []string {
	var art []string
	switch {
	case snap.Phase == activity.Idle:
		art = idleArt
	case snap.Hand == activity.Left:
		art = leftArt
	default:
		art = rightArt
	}
	if snap.Escalated {
		out := make([]string, len(art))
		for i, line := range art {
			out[i] = strings.Replace(line, "o.o", ">.<", 1)
		}
		art = out
	}
	return art
}

type block struct {
	lines []string
	width int
}

// renderCat builds the styled cat: a cue line, the pose and the speed readout.
func renderCat(snap overlay.Snapshot) block {
	art := catArt(snap)
	if snap.Mirror {
		art = mirrorLines(art)
	}
	artWidth := 0
	for _, line := range art {
		if w := runewidth.StringWidth(line); w > artWidth {
			artWidth = w
		}
	}

	style := catStyle
	if snap.Faint {
		style = style.Faint(true)
	}

	lines := make([]string, 0, len(art)+2)
	lines = append(lines, cueLine(snap, artWidth))
	for _, line := range art {
		lines = append(lines, style.Render(runewidth.FillRight(line, artWidth)))
	}
	if snap.ShowSpeed {
		readout := readoutStyle.Render(snap.Rate.String())
		if spark := stats.SampleSparkline(snap.Samples); spark != "" {
			readout += " " + sparkStyle.Render(spark)
		}
		lines = append(lines, readout)
	} else {
		lines = append(lines, "")
	}

	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	for i, line := range lines {
		if pad := width - lipgloss.Width(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	return block{lines: lines, width: width}
}

func cueLine(snap overlay.Snapshot, artWidth int) string {
	var b strings.Builder
	col := 0
	if snap.Heart {
		pos := artWidth / 2
		b.WriteString(strings.Repeat(" ", pos))
		b.WriteString(heartStyle.Render(heartGlyph))
		col = pos + runewidth.StringWidth(heartGlyph)
	}
	if snap.Escalated {
		pos := artWidth - runewidth.StringWidth(sweatGlyph)
		if snap.Mirror {
			pos = 0
		}
		if pos < col {
			pos = col
		}
		b.WriteString(strings.Repeat(" ", pos-col))
		b.WriteString(sweatStyle.Render(sweatGlyph))
	}
	return b.String()
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// placeBlock positions b inside a width x height area. left is the percentage
// of free columns to the left of the block; bottom the percentage of free rows
// below it. It returns the area's lines and the block's rectangle.
func placeBlock(b block, width, height int, left, bottom float64) ([]string, rect) {
	freeX := width - b.width
	if freeX < 0 {
		freeX = 0
	}
	freeY := height - len(b.lines)
	if freeY < 0 {
		freeY = 0
	}
	x := int(math.Round(float64(freeX) * left / 100))
	y := freeY - int(math.Round(float64(freeY)*bottom/100))

	out := make([]string, 0, height)
	for row := 0; row < y; row++ {
		out = append(out, "")
	}
	indent := strings.Repeat(" ", x)
	for _, line := range b.lines {
		out = append(out, indent+line)
	}
	for len(out) < height {
		out = append(out, "")
	}
	return out, rect{x: x, y: y, w: b.width, h: len(b.lines)}
}
