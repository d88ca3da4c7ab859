// Package keytrans translates a client's normalised key/mouse input into
// the pty byte sequence the target pane's application expects, per
// spec.md §4.6. Sequences and the xterm modifier-parameter arithmetic are
// grounded on tmux's input-keys.c (original_source), referenced directly
// by SPEC_FULL.md §4.
package keytrans

// Modifier is a bitset of the modifier keys held with a key press.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModMeta           // Alt/Option
	ModCtrl
)

// param is the xterm "modifier parameter" tmux's input-keys.c encodes as
// 1 + bits, e.g. shift alone is 2, ctrl alone is 5, shift+meta is 4.
func (m Modifier) param() int { return 1 + int(m) }

// Code identifies a non-printable key. Printable keys are carried as a
// rune on Key.Rune instead (Code == 0).
type Code int

const (
	_ Code = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyBackTab
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKeypad0
	KeyKeypad1
	KeyKeypad2
	KeyKeypad3
	KeyKeypad4
	KeyKeypad5
	KeyKeypad6
	KeyKeypad7
	KeyKeypad8
	KeyKeypad9
	KeyKeypadPeriod
	KeyKeypadEnter
	KeyKeypadPlus
	KeyKeypadMinus
	KeyKeypadStar
	KeyKeypadSlash
)

// MousePos is a zero-based cell position accompanying a mouse event key.
type MousePos struct {
	X, Y int
}

// Key is one normalised input event: either a printable rune or a special
// Code, plus held modifiers and, for mouse events, a cell position.
type Key struct {
	Rune  rune
	Code  Code
	Mods  Modifier
	Mouse *MousePos
}
