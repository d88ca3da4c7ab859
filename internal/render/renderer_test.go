package render

import (
	"bytes"
	"strings"
	"testing"

	"zmux/internal/grid"
	"zmux/internal/mux"
	"zmux/internal/proto"
	"zmux/internal/vtparse"
)

func newTestWindow(t *testing.T, sx, sy int) (*mux.Server, *mux.Window) {
	t.Helper()
	srv := mux.NewServer(2000)
	sess, err := srv.NewSession("main", sx, sy, "")
	if err != nil {
		t.Fatal(err)
	}
	wl := sess.Winlinks[sess.Current]
	win := srv.Windows[wl.Window]
	return srv, win
}

func feed(p *mux.Pane, data []byte) {
	disp := vtparse.NewDispatcher(p.Writer)
	parser := vtparse.NewParser()
	parser.Advance(data, disp)
}

func TestFullRedrawEmitsPaneContent(t *testing.T) {
	_, win := newTestWindow(t, 10, 3)
	var pane *mux.Pane
	for _, p := range win.Panes {
		pane = p
	}
	feed(pane, []byte("hi"))

	var out bytes.Buffer
	target := &Target{W: &out, Caps: proto.CapUTF8}
	r := New(target)
	r.FullRedraw(win)

	if !strings.Contains(out.String(), "hi") {
		t.Fatalf("redraw output missing printed text: %q", out.String())
	}
}

func TestCellSGRTruecolourVsDowngrade(t *testing.T) {
	c := grid.Cell{Fg: grid.RGBColor(255, 128, 0)}
	full := cellSGR(c, proto.CapTrueColor)
	if !strings.Contains(full, "38;2;255;128;0") {
		t.Fatalf("truecolour sgr = %q", full)
	}
	degraded := cellSGR(c, 0)
	if strings.Contains(degraded, "38;2") {
		t.Fatalf("degraded sgr should not carry truecolour params: %q", degraded)
	}
}

func TestCellSGREmptyForPlainCell(t *testing.T) {
	if got := cellSGR(grid.Blank, proto.CapTrueColor); got != "" {
		t.Fatalf("blank cell sgr = %q, want empty", got)
	}
}

func TestStatusRedrawPadsToWidth(t *testing.T) {
	var out bytes.Buffer
	r := New(&Target{W: &out})
	r.StatusRedraw(1, 20, "main")
	if !strings.Contains(out.String(), "main") {
		t.Fatalf("status redraw missing label: %q", out.String())
	}
	if !strings.Contains(out.String(), "main"+strings.Repeat(" ", 16)) {
		t.Fatalf("status redraw not padded to 20 columns: %q", out.String())
	}
}

func TestTargetCongestionThresholds(t *testing.T) {
	var out bytes.Buffer
	target := &Target{W: &out}
	target.NoteFlush(highWaterMark + 1)
	if !target.Congested {
		t.Fatalf("expected congested after exceeding high water mark")
	}
	target.pending = 0
	target.NoteFlush(lowWaterMark - 1)
	if target.Congested {
		t.Fatalf("expected uncongested once below low water mark")
	}
}

func TestSixelPlaceholderWhenUnsupported(t *testing.T) {
	_, win := newTestWindow(t, 10, 3)
	var pane *mux.Pane
	for _, p := range win.Panes {
		pane = p
	}
	pane.Writer.Screen().PlaceSixel([]byte("sixeldata"), 0)

	var out bytes.Buffer
	r := New(&Target{W: &out})
	r.FullRedraw(win)

	if !strings.Contains(out.String(), "#") {
		t.Fatalf("expected placeholder marker in output: %q", out.String())
	}
	if strings.Contains(out.String(), "sixeldata") {
		t.Fatalf("raw sixel payload should not be emitted without CapSixel: %q", out.String())
	}
}

func TestSixelPassthroughWhenSupported(t *testing.T) {
	_, win := newTestWindow(t, 10, 3)
	var pane *mux.Pane
	for _, p := range win.Panes {
		pane = p
	}
	pane.Writer.Screen().PlaceSixel([]byte("sixeldata"), 0)

	var out bytes.Buffer
	r := New(&Target{W: &out, Caps: proto.CapSixel})
	r.FullRedraw(win)

	if !strings.Contains(out.String(), "sixeldata") {
		t.Fatalf("expected raw sixel payload passthrough: %q", out.String())
	}
}
