package keytrans

import (
	"bytes"
	"testing"
)

func TestEncodeArrowPlainAndAppCursor(t *testing.T) {
	up := Key{Code: KeyUp}
	if got := Encode(up, Modes{}); !bytes.Equal(got, []byte("\033[A")) {
		t.Fatalf("plain up = %q", got)
	}
	if got := Encode(up, Modes{AppCursor: true}); !bytes.Equal(got, []byte("\033OA")) {
		t.Fatalf("app-cursor up = %q", got)
	}
}

func TestEncodeArrowWithModifier(t *testing.T) {
	k := Key{Code: KeyRight, Mods: ModShift}
	got := Encode(k, Modes{})
	if !bytes.Equal(got, []byte("\033[1;2C")) {
		t.Fatalf("shift-right = %q", got)
	}
}

func TestEncodeFunctionKeysSS3AndTilde(t *testing.T) {
	f1 := Encode(Key{Code: KeyF1}, Modes{})
	if !bytes.Equal(f1, []byte("\033OP")) {
		t.Fatalf("f1 = %q", f1)
	}
	f1Ctrl := Encode(Key{Code: KeyF1, Mods: ModCtrl}, Modes{})
	if !bytes.Equal(f1Ctrl, []byte("\033[1;5P")) {
		t.Fatalf("ctrl-f1 = %q", f1Ctrl)
	}
	f5 := Encode(Key{Code: KeyF5}, Modes{})
	if !bytes.Equal(f5, []byte("\033[15~")) {
		t.Fatalf("f5 = %q", f5)
	}
	f12Shift := Encode(Key{Code: KeyF12, Mods: ModShift}, Modes{})
	if !bytes.Equal(f12Shift, []byte("\033[24;2~")) {
		t.Fatalf("shift-f12 = %q", f12Shift)
	}
}

func TestEncodeNavTilde(t *testing.T) {
	del := Encode(Key{Code: KeyDelete}, Modes{})
	if !bytes.Equal(del, []byte("\033[3~")) {
		t.Fatalf("delete = %q", del)
	}
	home := Encode(Key{Code: KeyHome}, Modes{})
	if !bytes.Equal(home, []byte("\033[1~")) {
		t.Fatalf("home = %q", home)
	}
}

func TestEncodeKeypadDigitVsApplication(t *testing.T) {
	digit := Encode(Key{Code: KeyKeypad5}, Modes{})
	if !bytes.Equal(digit, []byte("5")) {
		t.Fatalf("keypad5 normal = %q", digit)
	}
	app := Encode(Key{Code: KeyKeypad5}, Modes{AppKeypad: true})
	if !bytes.Equal(app, []byte("\033Ou")) {
		t.Fatalf("keypad5 app = %q", app)
	}
	enter := Encode(Key{Code: KeyKeypadEnter}, Modes{})
	if !bytes.Equal(enter, []byte("\r")) {
		t.Fatalf("keypad enter normal = %q", enter)
	}
}

func TestEncodeRuneCtrlFolding(t *testing.T) {
	k := Key{Rune: 'a', Mods: ModCtrl}
	got := Encode(k, Modes{})
	if len(got) != 1 || got[0] != 0x01 {
		t.Fatalf("ctrl-a = %v, want [0x01]", got)
	}
}

func TestEncodeRuneMetaPrefix(t *testing.T) {
	k := Key{Rune: 'x', Mods: ModMeta}
	got := Encode(k, Modes{})
	if !bytes.Equal(got, []byte{0x1b, 'x'}) {
		t.Fatalf("meta-x = %v", got)
	}
}

func TestEncodeTabAndBackTab(t *testing.T) {
	if got := Encode(Key{Code: KeyTab}, Modes{}); !bytes.Equal(got, []byte("\t")) {
		t.Fatalf("tab = %q", got)
	}
	if got := Encode(Key{Code: KeyBackTab}, Modes{}); !bytes.Equal(got, []byte("\033[Z")) {
		t.Fatalf("backtab = %q", got)
	}
}

func TestWrapPaste(t *testing.T) {
	got := WrapPaste([]byte("hello"))
	want := "\033[200~hello\033[201~"
	if string(got) != want {
		t.Fatalf("wrapped = %q, want %q", got, want)
	}
}

func TestEncodeMouseSGRPressAndRelease(t *testing.T) {
	press := EncodeMouse(MouseSGR, MouseButton1, MousePos{X: 10, Y: 5}, 0)
	if string(press) != "\033[<0;11;6M" {
		t.Fatalf("sgr press = %q", press)
	}
	release := EncodeMouse(MouseSGR, MouseRelease, MousePos{X: 10, Y: 5}, 0)
	if string(release) != "\033[<0;11;6m" {
		t.Fatalf("sgr release = %q", release)
	}
}

func TestEncodeMouseSGRWithModifierAndWheel(t *testing.T) {
	got := EncodeMouse(MouseSGR, MouseWheelUp, MousePos{X: 0, Y: 0}, ModCtrl)
	if string(got) != "\033[<80;1;1M" {
		t.Fatalf("ctrl-wheelup = %q", got)
	}
}

func TestEncodeMouseLegacyX10(t *testing.T) {
	got := EncodeMouse(MouseX10, MouseButton1, MousePos{X: 0, Y: 0}, 0)
	want := []byte{0x1b, '[', 'M', 32, 33, 33}
	if !bytes.Equal(got, want) {
		t.Fatalf("x10 = %v, want %v", got, want)
	}
}
