package keytrans

import "fmt"

// Modes is the subset of a pane's screen mode flags that affect key
// encoding (application-cursor, application-keypad): see grid.Mode.
type Modes struct {
	AppCursor bool
	AppKeypad bool
}

var arrowLetter = map[Code]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
}

// navTilde maps the fixed CSI-tilde keys (spec.md §4.6: "insert/delete/
// home/end/page-up/down... have fixed CSI sequences") to their numeric
// parameter, per input-keys.c's table.
var navTilde = map[Code]int{
	KeyHome: 1, KeyInsert: 2, KeyDelete: 3, KeyEnd: 4,
	KeyPageUp: 5, KeyPageDown: 6,
}

// fnLetter covers F1-F4, which use SS3 (ESC O) letters rather than a
// tilde sequence; F5 and up use navTilde-style numeric codes instead.
var fnLetter = map[Code]byte{KeyF1: 'P', KeyF2: 'Q', KeyF3: 'R', KeyF4: 'S'}

var fnTilde = map[Code]int{
	KeyF5: 15, KeyF6: 17, KeyF7: 18, KeyF8: 19, KeyF9: 20, KeyF10: 21,
	KeyF11: 23, KeyF12: 24,
}

// keypadLetter maps a keypad key to its SS3 letter under application
// keypad mode, from input-keys.c's table.
var keypadLetter = map[Code]byte{
	KeyKeypadSlash: 'o', KeyKeypadStar: 'j', KeyKeypadMinus: 'm',
	KeyKeypad7: 'w', KeyKeypad8: 'x', KeyKeypad9: 'y', KeyKeypadPlus: 'k',
	KeyKeypad4: 't', KeyKeypad5: 'u', KeyKeypad6: 'v',
	KeyKeypad1: 'q', KeyKeypad2: 'r', KeyKeypad3: 's', KeyKeypadEnter: 'M',
	KeyKeypad0: 'p', KeyKeypadPeriod: 'n',
}

var keypadDigit = map[Code]byte{
	KeyKeypad0: '0', KeyKeypad1: '1', KeyKeypad2: '2', KeyKeypad3: '3',
	KeyKeypad4: '4', KeyKeypad5: '5', KeyKeypad6: '6', KeyKeypad7: '7',
	KeyKeypad8: '8', KeyKeypad9: '9', KeyKeypadPeriod: '.',
	KeyKeypadPlus: '+', KeyKeypadMinus: '-', KeyKeypadStar: '*', KeyKeypadSlash: '/',
	KeyKeypadEnter: '\r',
}

// Encode translates k into the byte sequence its target pane should
// receive, given that pane's current mode flags.
func Encode(k Key, m Modes) []byte {
	if k.Code == 0 {
		return encodeRune(k)
	}
	if letter, ok := arrowLetter[k.Code]; ok {
		return encodeArrow(letter, k.Mods, m.AppCursor)
	}
	if num, ok := navTilde[k.Code]; ok {
		return encodeTilde(num, k.Mods)
	}
	if letter, ok := fnLetter[k.Code]; ok {
		return encodeSS3OrModified(letter, k.Mods)
	}
	if num, ok := fnTilde[k.Code]; ok {
		return encodeTilde(num, k.Mods)
	}
	if _, isKeypad := keypadLetter[k.Code]; isKeypad {
		return encodeKeypad(k.Code, m.AppKeypad)
	}
	switch k.Code {
	case KeyTab:
		return []byte("\t")
	case KeyBackTab:
		return []byte("\033[Z")
	}
	return nil
}

func encodeRune(k Key) []byte {
	if k.Mods&ModCtrl != 0 && ((k.Rune >= '?' && k.Rune < 0x60) || (k.Rune >= 'a' && k.Rune <= 'z')) {
		// Standard control-key folding: Ctrl-A..Ctrl-_ map to 0x01-0x1f,
		// and lowercase letters fold the same as their uppercase forms.
		return []byte{byte(k.Rune&0x1f)}
	}
	var out []byte
	if k.Mods&ModMeta != 0 {
		out = append(out, 0x1b)
	}
	return append(out, []byte(string(k.Rune))...)
}

func encodeArrow(letter byte, mods Modifier, appCursor bool) []byte {
	if mods == 0 {
		if appCursor {
			return []byte{0x1b, 'O', letter}
		}
		return []byte{0x1b, '[', letter}
	}
	return []byte(fmt.Sprintf("\033[1;%d%c", mods.param(), letter))
}

func encodeSS3OrModified(letter byte, mods Modifier) []byte {
	if mods == 0 {
		return []byte{0x1b, 'O', letter}
	}
	return []byte(fmt.Sprintf("\033[1;%d%c", mods.param(), letter))
}

func encodeTilde(num int, mods Modifier) []byte {
	if mods == 0 {
		return []byte(fmt.Sprintf("\033[%d~", num))
	}
	return []byte(fmt.Sprintf("\033[%d;%d~", num, mods.param()))
}

func encodeKeypad(code Code, appKeypad bool) []byte {
	if appKeypad {
		return []byte{0x1b, 'O', keypadLetter[code]}
	}
	return []byte{keypadDigit[code]}
}

// WrapPaste wraps data in the bracketed-paste start/end markers, per
// spec.md §4.6, for use when the target pane has bracketed-paste mode
// enabled.
func WrapPaste(data []byte) []byte {
	out := make([]byte, 0, len(data)+12)
	out = append(out, []byte("\033[200~")...)
	out = append(out, data...)
	out = append(out, []byte("\033[201~")...)
	return out
}
