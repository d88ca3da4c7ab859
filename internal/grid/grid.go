package grid

// Grid is an ordered sequence of lines split into a bounded history region
// (scrollback, up to hlimit lines) and a fixed-size visible region of
// exactly Rows lines, width Cols. Coordinates are zero-based; the visible
// region begins at line index HSize. Invariant: HSize <= HLimit and
// len(lines) == HSize + Rows.
type Grid struct {
	Rows, Cols int
	HLimit     int

	lines []Line
	HSize int
}

// NewGrid returns a grid with the given visible dimensions and history
// cap, starting with an empty history and a blank visible region.
func NewGrid(rows, cols, hlimit int) *Grid {
	g := &Grid{Rows: rows, Cols: cols, HLimit: hlimit}
	g.lines = make([]Line, rows)
	return g
}

// line returns a pointer to the y'th line in absolute (history+visible)
// coordinates. It does not grow the slice; y must be a valid index.
func (g *Grid) line(y int) *Line {
	return &g.lines[y]
}

// visibleIndex converts a visible-region-relative y to an absolute index.
func (g *Grid) visibleIndex(y int) int { return g.HSize + y }

// Peek returns the cell at visible coordinates (x,y) without mutating
// storage.
func (g *Grid) Peek(x, y int) Cell {
	if y < 0 || y >= g.Rows {
		return Blank
	}
	return g.line(g.visibleIndex(y)).At(x)
}

// Get returns a pointer to the line backing visible row y, for callers
// that need direct mutable access (screen-write's hot path).
func (g *Grid) Get(y int) *Line {
	if y < 0 || y >= g.Rows {
		return nil
	}
	return g.line(g.visibleIndex(y))
}

// HistoryLine returns a pointer to a line in the history region, where 0 is
// the oldest stored line. Returns nil if out of range.
func (g *Grid) HistoryLine(i int) *Line {
	if i < 0 || i >= g.HSize {
		return nil
	}
	return &g.lines[i]
}

// SetCell writes a single cell at visible (x,y); no cursor effect.
func (g *Grid) SetCell(x, y int, c Cell) {
	if l := g.Get(y); l != nil {
		l.SetCell(x, c)
	}
}

// SetWide writes a two-column grapheme at visible (x,y).
func (g *Grid) SetWide(x, y int, c Cell) {
	if l := g.Get(y); l != nil {
		l.SetWide(x, c)
	}
}

// Clear fills the rectangle [x,x+nx) x [y,y+ny) in visible coordinates with
// the default cell, truncating line storage where the rectangle spans
// entire lines (i.e. when x==0 and nx reaches the line's right edge it is
// equivalent to ClearFrom(0)).
func (g *Grid) Clear(x, y, nx, ny int) {
	for row := y; row < y+ny && row < g.Rows; row++ {
		l := g.Get(row)
		if l == nil {
			continue
		}
		if x == 0 && nx >= g.Cols {
			l.ClearFrom(0)
			l.Wrapped = false
			continue
		}
		l.Clear(x, nx)
	}
}

// ClearLines frees the listed visible lines entirely (storage and wrapped
// flag reset), as used by full-display erase.
func (g *Grid) ClearLines(y, ny int) {
	for row := y; row < y+ny && row < g.Rows; row++ {
		l := g.Get(row)
		if l == nil {
			continue
		}
		*l = Line{}
	}
}

// MoveLines shifts a block of n visible lines from src to dst, as used by
// insert/delete line and scroll-region scrolling. Vacated lines are
// cleared. dst/src/n are in visible-region-relative coordinates.
func (g *Grid) MoveLines(dst, src, n int) {
	if dst == src || n <= 0 {
		return
	}
	buf := make([]Line, n)
	for i := 0; i < n; i++ {
		buf[i] = *g.Get(src + i)
	}
	// Blank the part of the old block's footprint that the moved-to range
	// doesn't cover, so no stale copy of the moved content is left behind.
	if dst > src {
		for i := src; i < dst; i++ {
			*g.Get(i) = Line{}
		}
	} else {
		for i := dst + n; i < src+n; i++ {
			*g.Get(i) = Line{}
		}
	}
	for i := 0; i < n; i++ {
		*g.Get(dst + i) = buf[i]
	}
}

// MoveCells shifts a block of cells on visible line y.
func (g *Grid) MoveCells(dst, src, y, n int) {
	if l := g.Get(y); l != nil {
		l.MoveCells(dst, src, n)
	}
}

// ScrollHistory pushes the top visible line into history and shifts the
// visible region up by one, appending a fresh blank line at the bottom.
// If history is already at its cap, the oldest 10% is discarded first in
// one amortised batch before the new line is appended - mirroring the
// grid's batched-trim behaviour rather than dropping one line per push.
func (g *Grid) ScrollHistory() {
	if g.HLimit == 0 {
		// No scrollback: the top visible line is simply dropped.
		g.shiftVisibleUp()
		return
	}
	// The line currently at lines[HSize] (the top of the visible region)
	// is already in the right storage slot to become the newest history
	// line - growing the visible region by one blank line at the tail and
	// bumping HSize reinterprets it as history without moving any data.
	g.lines = append(g.lines, Line{})
	g.HSize++
	if g.HSize > g.HLimit {
		g.trimHistory()
	}
}

// trimHistory discards the oldest 10% of history in one batch (minimum 1
// line), amortising the cost of enforcing HLimit over many scrolls rather
// than repacking on every single push.
func (g *Grid) trimHistory() {
	drop := g.HLimit / 10
	if drop < 1 {
		drop = 1
	}
	if drop > g.HSize {
		drop = g.HSize
	}
	g.lines = append([]Line{}, g.lines[drop:]...)
	g.HSize -= drop
}

// shiftVisibleUp moves the visible region's lines up by one and blanks the
// new bottom line, without touching history.
func (g *Grid) shiftVisibleUp() {
	base := g.HSize
	copy(g.lines[base:base+g.Rows-1], g.lines[base+1:base+g.Rows])
	g.lines[base+g.Rows-1] = Line{}
}

// ScrollHistoryRegion is used when the active scroll region does not cover
// the full screen: the line at visible row `top` is discarded outright
// (not archived to history) because it is not the logical top of the
// visible region, then lines top+1..bot shift up and a blank line is
// appended at bot.
func (g *Grid) ScrollHistoryRegion(top, bot int) {
	g.MoveLines(top, top+1, bot-top)
	*g.Get(bot) = Line{}
}

// ScrollHistoryRegionDown is the reverse-index counterpart: a blank line is
// inserted at top and lines top..bot-1 shift down, discarding the line
// previously at bot.
func (g *Grid) ScrollHistoryRegionDown(top, bot int) {
	g.MoveLines(top+1, top, bot-top)
	*g.Get(top) = Line{}
}

// ClearHistory discards the entire history region, keeping the visible
// region untouched.
func (g *Grid) ClearHistory() {
	g.lines = append([]Line{}, g.lines[g.HSize:]...)
	g.HSize = 0
}

// Resize changes the visible region's row/column counts. Shrinking rows
// removes lines from the top of the visible region: they become the newest
// history lines, or are dropped when there is no scrollback. Growing rows
// first pulls the newest history lines back into the top of the visible
// region (matching tmux's "regrow from scrollback" behaviour), then appends
// brand new blank lines at the bottom for any remainder. Column growth
// simply widens future writes (lines are physically trimmed already);
// column shrink truncates any line wider than the new width.
func (g *Grid) Resize(rows, cols int) {
	if rows > g.Rows {
		grow := rows - g.Rows
		fromHistory := grow
		if fromHistory > g.HSize {
			fromHistory = g.HSize
		}
		g.HSize -= fromHistory
		extra := grow - fromHistory
		if extra > 0 {
			tail := make([]Line, extra)
			g.lines = append(g.lines, tail...)
		}
	} else if rows < g.Rows {
		shrink := g.Rows - rows
		for i := 0; i < shrink; i++ {
			if g.HLimit > 0 {
				// The displaced top visible line is already correctly
				// positioned to become the newest history line - no data
				// movement needed, just reinterpret the boundary.
				g.HSize++
				if g.HSize > g.HLimit {
					g.trimHistory()
				}
			} else {
				g.lines = append(g.lines[:g.HSize], g.lines[g.HSize+1:]...)
			}
		}
		g.lines = g.lines[:g.HSize+rows]
	}
	g.Rows = rows

	if cols < g.Cols {
		for i := range g.lines {
			if g.lines[i].Size() > cols {
				g.lines[i].cells = g.lines[i].cells[:cols]
				g.lines[i].trim()
			}
		}
	}
	g.Cols = cols
}
