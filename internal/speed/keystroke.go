package speed

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Modifiers are the modifier keys held during a keydown.
type Modifiers struct {
	Ctrl bool
	Alt  bool
	Meta bool
}

// Any reports whether any modifier is held.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Alt || m.Meta
}

// IsQualifying reports whether a keydown is a single visible character typed
// without modifiers. Named keys such as "enter" or "backspace" never qualify.
func IsQualifying(key string, mods Modifiers) bool {
	if mods.Any() {
		return false
	}
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return false
	}
	return runewidth.RuneWidth(r) > 0
}
