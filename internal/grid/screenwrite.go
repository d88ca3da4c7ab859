package grid

import (
	"encoding/base64"

	"github.com/mattn/go-runewidth"

	"zmux/internal/vtparse"
)

// Writer adapts vtparse.Event/Print callbacks into Screen/Grid mutations.
// It implements vtparse.Sink; one Writer is owned by exactly one pane and
// wraps that pane's primary and (once requested) alternate Screen.
type Writer struct {
	primary *Screen
	alt     *Screen
	active  *Screen

	saved struct {
		cx, cy int
		fg, bg Color
		attrs  Attr
	}

	pendingClipboard []byte
}

// NewWriter returns a Writer over a fresh primary screen of the given size
// and scrollback cap; the alternate screen is allocated lazily when first
// entered.
func NewWriter(rows, cols, hlimit int) *Writer {
	w := &Writer{}
	w.primary = NewScreen(rows, cols, hlimit)
	w.active = w.primary
	return w
}

// Screen returns the currently active screen (primary or alternate).
func (w *Writer) Screen() *Screen { return w.active }
func (w *Writer) Primary() *Screen { return w.primary }

func (w *Writer) Resize(rows, cols int) {
	w.primary.Resize(rows, cols)
	if w.alt != nil {
		w.alt.Resize(rows, cols)
	}
}

// Print implements vtparse.Sink. width is the cluster's column width as
// already computed by vtparse (0 for pure combining marks); Writer trusts
// that value rather than recomputing it, falling back to go-runewidth only
// when width wasn't resolvable upstream (width<0 is never produced today,
// kept defensive for a future vtparse change).
func (w *Writer) Print(cluster string, width int) {
	if width < 0 {
		width = runewidth.StringWidth(cluster)
	}
	if width == 0 {
		w.combine(cluster)
		return
	}
	if width >= 2 {
		w.printWide(cluster)
		return
	}
	w.printNarrow(cluster)
}

func (w *Writer) combine(mark string) {
	s := w.active
	x, y := s.CX-1, s.CY
	if s.DelayedWrap {
		x = s.Grid.Cols - 1
	}
	if x < 0 {
		return
	}
	l := s.Grid.Get(y)
	if l == nil {
		return
	}
	c := l.At(x)
	if c.Flags&FlagPadding != 0 {
		x--
		if x < 0 {
			return
		}
		c = l.At(x)
	}
	c.AppendCombining(mark)
	l.SetCell(x, c)
}

// resolvePaddingLanding redirects the write column back to the left half of
// a wide pair when the cursor sits on its padding cell: writing over either
// half of a wide character releases both, and the new content lands at the
// pair's original (left) column rather than the padding slot itself.
func (w *Writer) resolvePaddingLanding() {
	s := w.active
	l := s.Grid.Get(s.CY)
	if l == nil {
		return
	}
	if l.At(s.CX).Flags&FlagPadding != 0 && s.CX > 0 {
		s.CX--
	}
}

func (w *Writer) printNarrow(cluster string) {
	s := w.active
	w.wrapIfNeeded(1)
	w.resolvePaddingLanding()
	c := NewCell(cluster)
	c.Fg, c.Bg, c.Attrs = s.Fg, s.Bg, s.Attrs
	if s.HasMode(ModeInsert) {
		s.Grid.MoveCells(s.CX+1, s.CX, s.CY, s.Grid.Cols-s.CX-1)
	}
	s.Grid.SetCell(s.CX, s.CY, c)
	w.advanceCursor(1)
}

func (w *Writer) printWide(cluster string) {
	s := w.active
	w.wrapIfNeeded(2)
	w.resolvePaddingLanding()
	c := NewCell(cluster)
	c.Fg, c.Bg, c.Attrs = s.Fg, s.Bg, s.Attrs
	if s.HasMode(ModeInsert) {
		s.Grid.MoveCells(s.CX+2, s.CX, s.CY, s.Grid.Cols-s.CX-2)
	}
	s.Grid.SetWide(s.CX, s.CY, c)
	w.advanceCursor(2)
}

// wrapIfNeeded executes delayed-wrap (from the previous printable landing
// on the last column) and, failing that, wraps now if the upcoming
// printable of the given width would not fit.
func (w *Writer) wrapIfNeeded(width int) {
	s := w.active
	if s.DelayedWrap {
		s.DelayedWrap = false
		if s.HasMode(ModeAutowrap) {
			w.markWrapped()
			w.lineFeed()
			s.CX = 0
		}
	}
	if s.CX+width > s.Grid.Cols && s.HasMode(ModeAutowrap) {
		w.markWrapped()
		w.lineFeed()
		s.CX = 0
	}
}

func (w *Writer) markWrapped() {
	s := w.active
	if l := s.Grid.Get(s.CY); l != nil {
		l.Wrapped = true
	}
}

// advanceCursor moves the cursor right by n columns after a printable
// write, setting DelayedWrap instead of moving past the last column when
// autowrap is enabled - the wrap itself happens lazily on the next
// printable, matching real terminal behaviour (a cursor sitting exactly on
// the last column is not yet "wrapped").
func (w *Writer) advanceCursor(n int) {
	s := w.active
	s.CX += n
	if s.CX >= s.Grid.Cols {
		if s.HasMode(ModeAutowrap) {
			s.CX = s.Grid.Cols - 1
			s.DelayedWrap = true
		} else {
			s.CX = s.Grid.Cols - 1
		}
	}
}

// lineFeed moves the cursor down one line, scrolling the active region if
// already at its bottom.
func (w *Writer) lineFeed() {
	s := w.active
	if s.CY == s.ScrollBottom() {
		w.scrollUp(s.ScrollTop(), s.ScrollBottom(), 1)
		return
	}
	if s.CY < s.Grid.Rows-1 {
		s.CY++
	}
}

func (w *Writer) reverseIndex() {
	s := w.active
	if s.CY == s.ScrollTop() {
		w.scrollDown(s.ScrollTop(), s.ScrollBottom(), 1)
		return
	}
	if s.CY > 0 {
		s.CY--
	}
}

// scrollUp scrolls the region [top,bot] up by n, archiving to history only
// when the region is the screen's full height (top==0 and alt screen does
// not keep history at all).
func (w *Writer) scrollUp(top, bot, n int) {
	s := w.active
	full := top == 0 && bot == s.Grid.Rows-1
	for i := 0; i < n; i++ {
		if full {
			s.Grid.ScrollHistory()
		} else {
			s.Grid.ScrollHistoryRegion(top, bot)
		}
	}
}

func (w *Writer) scrollDown(top, bot, n int) {
	s := w.active
	for i := 0; i < n; i++ {
		s.Grid.ScrollHistoryRegionDown(top, bot)
	}
}

// HandleEvent implements vtparse.Sink, translating a normalized terminal
// operation into Screen/Grid mutations.
func (w *Writer) HandleEvent(ev vtparse.Event) {
	s := w.active
	n0 := func(def int) int {
		if len(ev.N) == 0 {
			return def
		}
		return ev.N[0]
	}

	switch ev.Op {
	case vtparse.OpCursorUp:
		w.moveCursor(0, -n0(1))
	case vtparse.OpCursorDown:
		w.moveCursor(0, n0(1))
	case vtparse.OpCursorForward:
		w.moveCursor(n0(1), 0)
	case vtparse.OpCursorBackward:
		w.moveCursor(-n0(1), 0)
	case vtparse.OpNextLine:
		w.moveCursor(0, n0(1))
		s.CX = 0
	case vtparse.OpPreviousLine:
		w.moveCursor(0, -n0(1))
		s.CX = 0
	case vtparse.OpHorizontalAbsolute:
		s.CX = clamp(n0(1)-1, 0, s.Grid.Cols-1)
	case vtparse.OpVerticalAbsolute:
		s.CY = s.ClampToRegion(n0(1) - 1)
	case vtparse.OpCursorPosition:
		row, col := 1, 1
		if len(ev.N) > 0 {
			row = ev.N[0]
		}
		if len(ev.N) > 1 {
			col = ev.N[1]
		}
		s.CY = s.ClampToRegion(row - 1)
		s.CX = clamp(col-1, 0, s.Grid.Cols-1)
		s.DelayedWrap = false

	case vtparse.OpHorizontalTabulation:
		w.tab(n0(1))
	case vtparse.OpBackspace:
		if s.CX > 0 {
			s.CX--
		}
		s.DelayedWrap = false
	case vtparse.OpCarriageReturn:
		s.CX = 0
		s.DelayedWrap = false
	case vtparse.OpLineFeed:
		w.lineFeed()
		s.DelayedWrap = false
	case vtparse.OpReverseIndex:
		w.reverseIndex()
	case vtparse.OpIndex:
		w.lineFeed()

	case vtparse.OpEraseDisplay:
		w.eraseDisplay(vtparse.EraseMode(n0(0)))
	case vtparse.OpEraseLine:
		w.eraseLine(vtparse.EraseMode(n0(0)))
	case vtparse.OpEraseCharacter:
		n := n0(1)
		s.Grid.Clear(s.CX, s.CY, n, 1)

	case vtparse.OpInsertLine:
		w.insertLines(n0(1))
	case vtparse.OpDeleteLine:
		w.deleteLines(n0(1))
	case vtparse.OpInsertCharacter:
		n := n0(1)
		s.Grid.MoveCells(s.CX+n, s.CX, s.CY, s.Grid.Cols-s.CX-n)
	case vtparse.OpDeleteCharacter:
		n := n0(1)
		s.Grid.MoveCells(s.CX, s.CX+n, s.CY, s.Grid.Cols-s.CX-n)
	case vtparse.OpScrollUp:
		w.scrollUp(s.ScrollTop(), s.ScrollBottom(), n0(1))
	case vtparse.OpScrollDown:
		w.scrollDown(s.ScrollTop(), s.ScrollBottom(), n0(1))

	case vtparse.OpSelectGraphicRendition:
		w.applySGR(ev.N)

	case vtparse.OpSetMode, vtparse.OpResetMode:
		for _, code := range ev.N {
			w.applyAnsiMode(code, ev.Op == vtparse.OpSetMode)
		}
	case vtparse.OpDecPrivateSet, vtparse.OpDecPrivateReset:
		for _, code := range ev.N {
			w.applyDecMode(code, ev.Op == vtparse.OpDecPrivateSet)
		}

	case vtparse.OpSaveCursor:
		w.saveCursor()
	case vtparse.OpRestoreCursor:
		w.restoreCursor()
	case vtparse.OpTabSet:
		if s.CX < len(s.TabStops) {
			s.TabStops[s.CX] = true
		}
	case vtparse.OpTabClear:
		switch n0(0) {
		case 3:
			for i := range s.TabStops {
				s.TabStops[i] = false
			}
		default:
			if s.CX < len(s.TabStops) {
				s.TabStops[s.CX] = false
			}
		}

	case vtparse.OpOperatingSystemCommand:
		w.handleOSC(ev.Payload)

	case vtparse.OpSixel:
		background := 0
		if len(ev.N) > 0 {
			background = ev.N[0]
		}
		s.PlaceSixel(ev.Payload, background)

	case vtparse.OpBell, vtparse.OpEnquiry, vtparse.OpShiftOut, vtparse.OpShiftIn,
		vtparse.OpDeviceControlString, vtparse.OpApplicationProgramCommand,
		vtparse.OpPrivacyMessage, vtparse.OpStartOfString,
		vtparse.OpDesignateG0, vtparse.OpDesignateG1, vtparse.OpDesignateG2,
		vtparse.OpDesignateG3, vtparse.OpLockingShiftN, vtparse.OpSingleShift2,
		vtparse.OpSingleShift3, vtparse.OpDeviceAttributes, vtparse.OpDeviceStatusReport,
		vtparse.OpCursorPositionReport, vtparse.OpPrimaryDeviceAttributes,
		vtparse.OpSecondaryDeviceAttributes, vtparse.OpRequestMode, vtparse.OpReportMode:
		// Handled by higher layers (renderer for replies, client for bell/
		// clipboard/title wiring); screen-write has no state to update.
	}
}

func (w *Writer) moveCursor(dx, dy int) {
	s := w.active
	s.CX = clamp(s.CX+dx, 0, s.Grid.Cols-1)
	s.CY = clamp(s.CY+dy, 0, s.Grid.Rows-1)
	s.DelayedWrap = false
}

func (w *Writer) tab(n int) {
	s := w.active
	for ; n > 0; n-- {
		next := -1
		for x := s.CX + 1; x < len(s.TabStops); x++ {
			if s.TabStops[x] {
				next = x
				break
			}
		}
		if next < 0 {
			s.CX = s.Grid.Cols - 1
			return
		}
		s.CX = next
	}
}

func (w *Writer) eraseDisplay(mode vtparse.EraseMode) {
	s := w.active
	switch mode {
	case vtparse.EraseToEnd:
		s.Grid.Clear(s.CX, s.CY, s.Grid.Cols-s.CX, 1)
		s.Grid.ClearLines(s.CY+1, s.Grid.Rows-s.CY-1)
	case vtparse.EraseFromStart:
		s.Grid.Clear(0, s.CY, s.CX+1, 1)
		s.Grid.ClearLines(0, s.CY)
	case vtparse.EraseAll:
		s.Grid.ClearLines(0, s.Grid.Rows)
		s.Sixels = nil
	case vtparse.EraseScrollback:
		s.Grid.ClearHistory()
	}
}

func (w *Writer) eraseLine(mode vtparse.EraseMode) {
	s := w.active
	switch mode {
	case vtparse.EraseToEnd:
		s.Grid.Clear(s.CX, s.CY, s.Grid.Cols-s.CX, 1)
	case vtparse.EraseFromStart:
		s.Grid.Clear(0, s.CY, s.CX+1, 1)
	case vtparse.EraseAll, vtparse.EraseScrollback:
		s.Grid.Clear(0, s.CY, s.Grid.Cols, 1)
	}
}

func (w *Writer) insertLines(n int) {
	s := w.active
	if s.CY < s.ScrollTop() || s.CY > s.ScrollBottom() {
		return
	}
	s.Grid.MoveLines(s.CY+n, s.CY, s.ScrollBottom()-s.CY-n+1)
	s.Grid.ClearLines(s.CY, n)
}

func (w *Writer) deleteLines(n int) {
	s := w.active
	if s.CY < s.ScrollTop() || s.CY > s.ScrollBottom() {
		return
	}
	s.Grid.MoveLines(s.CY, s.CY+n, s.ScrollBottom()-s.CY-n+1)
	s.Grid.ClearLines(s.ScrollBottom()-n+1, n)
}

func (w *Writer) saveCursor() {
	s := w.active
	w.saved.cx, w.saved.cy = s.CX, s.CY
	w.saved.fg, w.saved.bg, w.saved.attrs = s.Fg, s.Bg, s.Attrs
}

func (w *Writer) restoreCursor() {
	s := w.active
	s.CX, s.CY = w.saved.cx, w.saved.cy
	s.Fg, s.Bg, s.Attrs = w.saved.fg, w.saved.bg, w.saved.attrs
	s.DelayedWrap = false
}

// EnterAltScreen switches the active screen to the alternate buffer,
// allocating it on first use. The alternate screen has no scrollback.
func (w *Writer) EnterAltScreen() {
	if w.alt == nil {
		w.alt = NewScreen(w.primary.Grid.Rows, w.primary.Grid.Cols, 0)
	}
	w.active = w.alt
}

// LeaveAltScreen switches back to the primary screen.
func (w *Writer) LeaveAltScreen() {
	w.active = w.primary
}

func (w *Writer) applyAnsiMode(code int, set bool) {
	switch code {
	case 4:
		setMode(w.active, ModeInsert, set)
	case 20:
		// LNM, line feed / new line mode: out of scope beyond accepting it.
	}
}

func (w *Writer) applyDecMode(code int, set bool) {
	s := w.active
	switch code {
	case 1:
		setMode(s, ModeApplicationCursor, set)
	case 5:
		setMode(s, ModeReverseVideo, set)
	case 6:
		setMode(s, ModeOriginMode, set)
	case 7:
		setMode(s, ModeAutowrap, set)
	case 25:
		setMode(s, ModeCursorVisible, set)
	case 1000:
		setMode(s, ModeMouseX10, set)
	case 1002:
		setMode(s, ModeMouseButton, set)
	case 1003:
		setMode(s, ModeMouseAny, set)
	case 1006:
		setMode(s, ModeMouseSGR, set)
	case 1049:
		if set {
			w.EnterAltScreen()
			setMode(w.active, ModeAltScreen, true)
		} else {
			setMode(w.active, ModeAltScreen, false)
			w.LeaveAltScreen()
		}
	case 2004:
		setMode(s, ModeBracketedPaste, set)
	}
}

func setMode(s *Screen, m Mode, set bool) {
	if set {
		s.SetMode(m)
	} else {
		s.ResetMode(m)
	}
}

// handleOSC interprets the OSC payloads screen-write itself cares about:
// window/icon title (0, 2) and the OSC-52 clipboard set form
// ("52;<selection>;<base64>"); everything else (hyperlinks, colour
// queries) is unresolved here and left to whichever component owns the
// pane's Dispatcher subscription.
func (w *Writer) handleOSC(payload []byte) {
	s := payload
	i := 0
	for i < len(s) && s[i] != ';' {
		i++
	}
	if i >= len(s) {
		return
	}
	code := string(s[:i])
	rest := string(s[i+1:])
	switch code {
	case "0", "2":
		w.active.Title = rest
	case "52":
		w.handleOSC52(rest)
	}
}

// handleOSC52 decodes the data field of an OSC-52 clipboard-set request
// ("<selection>;<base64-data>"); a query form ("<selection>;?") has no
// data to relay and is dropped. The decoded bytes sit in pendingClipboard
// until TakeClipboard drains them to whatever component relays a pane's
// clipboard writes to its attached clients' real terminals.
func (w *Writer) handleOSC52(rest string) {
	i := 0
	for i < len(rest) && rest[i] != ';' {
		i++
	}
	if i >= len(rest) {
		return
	}
	field := rest[i+1:]
	if field == "?" || field == "" {
		return
	}
	data, err := base64.StdEncoding.DecodeString(field)
	if err != nil {
		return
	}
	w.pendingClipboard = data
}

// TakeClipboard returns and clears any clipboard payload an OSC-52
// sequence deposited since the last call.
func (w *Writer) TakeClipboard() ([]byte, bool) {
	if w.pendingClipboard == nil {
		return nil, false
	}
	data := w.pendingClipboard
	w.pendingClipboard = nil
	return data, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
