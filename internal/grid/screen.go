package grid

// Mode is a bitset of screen render/input modes, set and cleared by
// SetMode/ResetMode/DecPrivateSet/DecPrivateReset events.
type Mode uint32

const (
	ModeCursorVisible Mode = 1 << iota
	ModeInsert
	ModeApplicationKeypad
	ModeApplicationCursor
	ModeAutowrap
	ModeOriginMode
	ModeMouseX10
	ModeMouseButton
	ModeMouseAny
	ModeMouseSGR
	ModeBracketedPaste
	ModeReverseVideo
	ModeAltScreen
)

// Selection is a rectangular or linear overlay range of cells rendered
// with inverted attributes; it never affects underlying cell storage.
type Selection struct {
	Active      bool
	Rectangular bool
	SX, SY      int
	EX, EY      int
}

// Contains reports whether (x,y) falls inside the selection, honouring the
// rectangular vs. linear (reading-order range) shape.
func (s *Selection) Contains(x, y int) bool {
	if !s.Active {
		return false
	}
	if s.Rectangular {
		minX, maxX := s.SX, s.EX
		if minX > maxX {
			minX, maxX = maxX, minX
		}
		minY, maxY := s.SY, s.EY
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		return y >= minY && y <= maxY && x >= minX && x <= maxX
	}
	start, end := Position{s.SX, s.SY}, Position{s.EX, s.EY}
	if end.Before(start) {
		start, end = end, start
	}
	p := Position{x, y}
	return !p.Before(start) && !end.Before(p)
}

// Position identifies a cell location in reading order.
type Position struct{ X, Y int }

func (p Position) Before(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// charsets holds the four G-set designations and which is currently
// invoked into GL/GR.
type charsets struct {
	g       [4]int // Charset values from vtparse, stored as int to avoid import cycle
	gl, gr  int    // index 0-3 of the G-set currently shifted into GL/GR
	utf8    bool
}

// Screen is a grid plus render state: cursor, scroll region, modes,
// tab stops, pending rendition, title, and an optional selection overlay.
// A Pane owns a primary Screen and, once the application requests it, an
// alternate Screen with no history.
type Screen struct {
	Grid *Grid

	CX, CY int // cursor position, visible-region coordinates
	// DelayedWrap records that the last printable reached column Cols-1
	// with autowrap on; the next printable moves to a new line first.
	DelayedWrap bool

	RUpper, RLower int // scroll-region bounds, inclusive, visible coordinates

	Modes Mode

	TabStops []bool

	// Pending rendition state, applied to every subsequent printable cell
	// until changed by another SGR.
	Fg, Bg Color
	Attrs  Attr

	Title string

	charsets charsets

	Selection Selection

	// Sixels holds any DCS sixel images anchored on this screen, keyed by
	// the cell they were drawn from. Cleared wholesale by any full erase.
	Sixels map[Position]SixelImage
}

// NewScreen returns a screen over a freshly created grid of the given size,
// cursor-visible, autowrap on, full-height scroll region, tab stops every
// eight columns.
func NewScreen(rows, cols, hlimit int) *Screen {
	s := &Screen{
		Grid:   NewGrid(rows, cols, hlimit),
		RLower: rows - 1,
		Modes:  ModeCursorVisible | ModeAutowrap,
	}
	s.TabStops = make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		s.TabStops[i] = true
	}
	return s
}

func (s *Screen) HasMode(m Mode) bool { return s.Modes&m != 0 }

func (s *Screen) SetMode(m Mode)   { s.Modes |= m }
func (s *Screen) ResetMode(m Mode) { s.Modes &^= m }

// ScrollTop/ScrollBottom return the effective scroll region, defaulting to
// the full visible height when RLower has not been set.
func (s *Screen) ScrollTop() int    { return s.RUpper }
func (s *Screen) ScrollBottom() int { return s.RLower }

// ClampToRegion clamps y into the scroll region when origin mode is set,
// or into the full visible height otherwise. Used by absolute cursor
// addressing.
func (s *Screen) ClampToRegion(y int) int {
	lo, hi := 0, s.Grid.Rows-1
	if s.HasMode(ModeOriginMode) {
		lo, hi = s.RUpper, s.RLower
	}
	if y < lo {
		y = lo
	}
	if y > hi {
		y = hi
	}
	return y
}

// Resize propagates a terminal-size change to the grid and re-derives
// tab stops and scroll-region bounds that now fall outside the new size.
func (s *Screen) Resize(rows, cols int) {
	s.Grid.Resize(rows, cols)
	if s.RLower >= rows {
		s.RLower = rows - 1
	}
	if s.RUpper >= rows {
		s.RUpper = 0
	}
	if s.CY >= rows {
		s.CY = rows - 1
	}
	if s.CX >= cols {
		s.CX = cols - 1
	}
	stops := make([]bool, cols)
	copy(stops, s.TabStops)
	for i := len(s.TabStops); i < cols; i += 8 {
		stops[i] = true
	}
	s.TabStops = stops
}
