package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"zmux/internal/grid"
	"zmux/internal/mux"
	"zmux/internal/proto"
)

// highWaterMark and lowWaterMark are the thresholds NoteFlush compares a
// client's recorded output against: Target.Congested is set above the high
// mark and cleared below the low mark. internal/server skips every redraw
// (full redraws, not only status-line ones) for a congested target.
const (
	highWaterMark = 4 << 20
	lowWaterMark  = 1 << 20
)

// Target is the per-client output sink the renderer writes escape
// sequences to, and the congestion signal that gates redraws.
type Target struct {
	W         io.Writer
	Caps      proto.CapFlags
	Congested bool
	pending   int
}

// NoteFlush records bytes handed to W and updates the congestion flag.
func (t *Target) NoteFlush(n int) {
	t.pending += n
	if t.pending > highWaterMark {
		t.Congested = true
	} else if t.pending < lowWaterMark {
		t.Congested = false
	}
}

// Renderer projects a window's tiled panes onto a Target, per spec.md
// §4.6. One Renderer instance serves one attached client.
type Renderer struct {
	Target *Target
}

// New returns a Renderer writing through t.
func New(t *Target) *Renderer {
	return &Renderer{Target: t}
}

// FullRedraw re-emits every cell of win's current layout, per spec.md
// §4.6's CLIENT_REDRAW mode.
func (r *Renderer) FullRedraw(win *mux.Window) {
	var buf bytes.Buffer
	buf.WriteString("\033[?25l\033[2J")
	for _, leaf := range win.Layout.Leaves() {
		r.writePane(&buf, leaf, win.Panes[leaf.Pane])
	}
	r.writeBorders(&buf, win.Layout)
	r.flush(&buf)
}

// PaneRedraw re-emits only the cells of one pane's region, per spec.md
// §4.6's PANE_REDRAW mode. internal/server does not call it; it redraws
// with FullRedraw after every pty read.
func (r *Renderer) PaneRedraw(leaf *mux.LayoutCell, pane *mux.Pane) {
	var buf bytes.Buffer
	buf.WriteString("\033[?25l")
	r.writePane(&buf, leaf, pane)
	r.flush(&buf)
}

// StatusRedraw re-emits only the status line, per spec.md §4.6's
// CLIENT_STATUS mode, padded or trimmed to cols. internal/server does not
// call it.
func (r *Renderer) StatusRedraw(row, cols int, text string) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\033[%d;1H\033[2K", row)
	style := termenv.String(padOrTrim(text, cols)).Reverse()
	buf.WriteString(style.String())
	r.flush(&buf)
}

func (r *Renderer) writePane(buf *bytes.Buffer, leaf *mux.LayoutCell, pane *mux.Pane) {
	if pane == nil {
		return
	}
	screen := pane.Writer.Screen()
	var lastStyle string
	for y := 0; y < leaf.Sy; y++ {
		fmt.Fprintf(buf, "\033[%d;%dH", leaf.Yoff+y+1, leaf.Xoff+1)
		line := screen.Grid.Get(y)
		for x := 0; x < leaf.Sx; x++ {
			var c grid.Cell
			if x < line.Size() {
				c = line.At(x)
			} else {
				c = grid.Blank
			}
			if c.Flags&grid.FlagPadding != 0 {
				continue
			}
			style := r.cellStyle(c, screen, leaf, x, y)
			if style != lastStyle {
				buf.WriteString(sgrReset)
				buf.WriteString(style)
				lastStyle = style
			}
			cluster := c.Cluster()
			if cluster == "" {
				cluster = " "
			}
			buf.WriteString(cluster)
		}
	}
	buf.WriteString(sgrReset)
	r.writeSixels(buf, leaf, screen)
	r.writeCursor(buf, leaf, screen)
}

// cellStyle computes a cell's SGR string, applying the selection overlay's
// attribute inversion (spec.md §4.3: "reads during rendering see cells
// as-is but with attributes masked by the selection style").
func (r *Renderer) cellStyle(c grid.Cell, screen *grid.Screen, leaf *mux.LayoutCell, x, y int) string {
	if screen.Selection.Contains(x, y) {
		c.Attrs ^= grid.AttrReverse
	}
	return cellSGR(c, r.Target.Caps)
}

func (r *Renderer) writeCursor(buf *bytes.Buffer, leaf *mux.LayoutCell, screen *grid.Screen) {
	if !screen.HasMode(grid.ModeCursorVisible) {
		return
	}
	fmt.Fprintf(buf, "\033[%d;%dH\033[?25h", leaf.Yoff+screen.CY+1, leaf.Xoff+screen.CX+1)
}

// writeBorders draws a single-line-drawing separator along every internal
// split boundary of the layout tree.
func (r *Renderer) writeBorders(buf *bytes.Buffer, c *mux.LayoutCell) {
	if c.IsLeaf() {
		return
	}
	for i, child := range c.Children {
		if i > 0 {
			r.writeSeparator(buf, c, child)
		}
		r.writeBorders(buf, child)
	}
}

func (r *Renderer) writeSeparator(buf *bytes.Buffer, parent, child *mux.LayoutCell) {
	if parent.Horizontal() {
		x := child.Xoff - 1
		for y := 0; y < child.Sy; y++ {
			fmt.Fprintf(buf, "\033[%d;%dH│", child.Yoff+y+1, x+1)
		}
		return
	}
	y := child.Yoff - 1
	fmt.Fprintf(buf, "\033[%d;%dH%s", y+1, child.Xoff+1, strings.Repeat("─", child.Sx))
}

// flush writes buf to the target and updates the congestion counter.
func (r *Renderer) flush(buf *bytes.Buffer) {
	n, _ := r.Target.W.Write(buf.Bytes())
	r.Target.NoteFlush(n)
}

func padOrTrim(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
