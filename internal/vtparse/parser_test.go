package vtparse

import (
	"reflect"
	"testing"
)

// recorder is a Sink that records every Print/HandleEvent call it receives,
// for asserting the exact callback sequence a byte stream produces.
type recorder struct {
	prints []string
	events []Event
}

func (r *recorder) Print(cluster string, width int) {
	r.prints = append(r.prints, cluster)
}

func (r *recorder) HandleEvent(ev Event) {
	r.events = append(r.events, ev)
}

func feed(t *testing.T, chunks ...[]byte) *recorder {
	t.Helper()
	p := NewParser()
	rec := &recorder{}
	d := NewDispatcher(rec)
	for _, c := range chunks {
		p.Advance(c, d)
	}
	return rec
}

func chunksOf(data []byte, n int) [][]byte {
	var out [][]byte
	for len(data) > 0 {
		if n > len(data) {
			n = len(data)
		}
		out = append(out, data[:n])
		data = data[n:]
	}
	return out
}

// TestChunkSplitDeterminism checks that splitting the same byte sequence
// across an arbitrary number of chunks produces identical callbacks to
// feeding it all at once.
func TestChunkSplitDeterminism(t *testing.T) {
	seq := []byte("hello \x1b[31mworld\x1b[0m\x1b]0;title\x07 done\x1b[2;5Hmid\xe2\x98\x83ok")

	whole := feed(t, seq)

	for _, n := range []int{1, 2, 3, 7} {
		split := feed(t, chunksOf(seq, n)...)
		if !reflect.DeepEqual(whole.prints, split.prints) {
			t.Fatalf("chunk size %d: prints mismatch\nwhole: %q\nsplit: %q", n, whole.prints, split.prints)
		}
		if !reflect.DeepEqual(whole.events, split.events) {
			t.Fatalf("chunk size %d: events mismatch\nwhole: %+v\nsplit: %+v", n, whole.events, split.events)
		}
	}
}

// TestSGRTruecolour is Scenario C from the spec's testable-property list:
// a combined 38;2 foreground / 48;2 background truecolour SGR, immediately
// followed by one printable.
func TestSGRTruecolour(t *testing.T) {
	rec := feed(t, []byte("\x1b[38;2;255;128;0;48;2;0;0;0mX"))

	var sgr *Event
	for i := range rec.events {
		if rec.events[i].Op == OpSelectGraphicRendition {
			sgr = &rec.events[i]
		}
	}
	if sgr == nil {
		t.Fatalf("no SGR event, events: %+v", rec.events)
	}
	want := []int{38, 2, 255, 128, 0, 48, 2, 0, 0, 0}
	if !reflect.DeepEqual(sgr.N, want) {
		t.Errorf("SGR params = %v, want %v", sgr.N, want)
	}
	if len(rec.prints) != 1 || rec.prints[0] != "X" {
		t.Errorf("prints = %v, want [X]", rec.prints)
	}
}

func TestSGREmptyResetsToZero(t *testing.T) {
	rec := feed(t, []byte("\x1b[m"))
	if len(rec.events) != 1 || rec.events[0].Op != OpSelectGraphicRendition {
		t.Fatalf("events = %+v", rec.events)
	}
	if !reflect.DeepEqual(rec.events[0].N, []int{0}) {
		t.Errorf("N = %v, want [0]", rec.events[0].N)
	}
}

func TestCursorPositionDefaults(t *testing.T) {
	rec := feed(t, []byte("\x1b[H"))
	if len(rec.events) != 1 {
		t.Fatalf("events = %+v", rec.events)
	}
	ev := rec.events[0]
	if ev.Op != OpCursorPosition || !reflect.DeepEqual(ev.N, []int{1, 1}) {
		t.Errorf("got %+v, want CursorPosition [1 1]", ev)
	}
}

func TestCursorUpDefaultsToOne(t *testing.T) {
	rec := feed(t, []byte("\x1b[A"))
	if len(rec.events) != 1 || rec.events[0].Op != OpCursorUp {
		t.Fatalf("events = %+v", rec.events)
	}
	if rec.events[0].N[0] != 1 {
		t.Errorf("N = %v, want [1]", rec.events[0].N)
	}
}

func TestOSCTerminatedByST(t *testing.T) {
	rec := feed(t, []byte("\x1b]0;hello\x1b\\after"))
	if len(rec.events) != 1 || rec.events[0].Op != OpOperatingSystemCommand {
		t.Fatalf("events = %+v", rec.events)
	}
	if string(rec.events[0].Payload) != "0;hello" {
		t.Errorf("payload = %q", rec.events[0].Payload)
	}
	if rec.events[0].Truncated {
		t.Errorf("should not be truncated")
	}
	if got := joinPrints(rec.prints); got != "after" {
		t.Errorf("trailing prints = %q, want %q", got, "after")
	}
}

func TestOSCTerminatedByBEL(t *testing.T) {
	rec := feed(t, []byte("\x1b]0;hello\x07"))
	if len(rec.events) != 1 || rec.events[0].Op != OpOperatingSystemCommand {
		t.Fatalf("events = %+v", rec.events)
	}
	if string(rec.events[0].Payload) != "0;hello" {
		t.Errorf("payload = %q", rec.events[0].Payload)
	}
}

func TestOSCAbandonedByFreshEscape(t *testing.T) {
	// ESC not followed by backslash: the OSC is abandoned, and the new
	// escape sequence (here ESC c, RIS) still dispatches normally.
	rec := feed(t, []byte("\x1b]0;unterminated\x1bc"))
	if len(rec.events) != 2 {
		t.Fatalf("events = %+v", rec.events)
	}
	if rec.events[0].Op != OpOperatingSystemCommand || !rec.events[0].Truncated {
		t.Errorf("first event = %+v, want truncated OSC", rec.events[0])
	}
	if rec.events[1].Op != OpPrimaryDeviceAttributes {
		t.Errorf("second event = %+v, want PrimaryDeviceAttributes", rec.events[1])
	}
}

func TestUTF8SplitAcrossChunks(t *testing.T) {
	snowman := []byte("\xe2\x98\x83") // U+2603 SNOWMAN
	whole := feed(t, snowman)
	split := feed(t, snowman[:1], snowman[1:2], snowman[2:3])
	if !reflect.DeepEqual(whole.prints, split.prints) {
		t.Fatalf("whole=%q split=%q", whole.prints, split.prints)
	}
	if len(whole.prints) != 1 || whole.prints[0] != "☃" {
		t.Errorf("prints = %q", whole.prints)
	}
}

func TestMalformedUTF8YieldsReplacement(t *testing.T) {
	rec := feed(t, []byte{0xC2, 'A'}) // lead byte then a non-continuation byte
	if len(rec.prints) != 2 {
		t.Fatalf("prints = %q", rec.prints)
	}
	if rec.prints[0] != "�" {
		t.Errorf("prints[0] = %q, want replacement char", rec.prints[0])
	}
	if rec.prints[1] != "A" {
		t.Errorf("prints[1] = %q, want A", rec.prints[1])
	}
}

func TestC1CSIIntroducer(t *testing.T) {
	// 0x9B is the 8-bit CSI introducer; "\x9bA" should behave like "\x1b[A".
	rec := feed(t, []byte{0x9B, 'A'})
	if len(rec.events) != 1 || rec.events[0].Op != OpCursorUp {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestEraseModes(t *testing.T) {
	cases := []struct {
		seq  string
		want EraseMode
	}{
		{"\x1b[J", EraseToEnd},
		{"\x1b[0J", EraseToEnd},
		{"\x1b[1J", EraseFromStart},
		{"\x1b[2J", EraseAll},
		{"\x1b[3J", EraseScrollback},
	}
	for _, c := range cases {
		rec := feed(t, []byte(c.seq))
		if len(rec.events) != 1 || rec.events[0].Op != OpEraseDisplay {
			t.Fatalf("%q: events = %+v", c.seq, rec.events)
		}
		if EraseMode(rec.events[0].N[0]) != c.want {
			t.Errorf("%q: mode = %v, want %v", c.seq, rec.events[0].N[0], c.want)
		}
	}
}

func joinPrints(prints []string) string {
	out := ""
	for _, p := range prints {
		out += p
	}
	return out
}
