package grid

import "testing"

func TestLineTrimsTrailingBlanks(t *testing.T) {
	var l Line
	l.SetCell(3, NewCell("x"))
	if l.Size() != 4 {
		t.Fatalf("size = %d, want 4", l.Size())
	}
	l.SetCell(3, Blank)
	if l.Size() != 0 {
		t.Fatalf("size after clearing = %d, want 0", l.Size())
	}
}

func TestWideCellPaddingInvariant(t *testing.T) {
	g := NewGrid(3, 5, 0)
	g.SetWide(0, 0, NewCell("あ"))

	left := g.Peek(0, 0)
	right := g.Peek(1, 0)
	if left.Flags&FlagWide == 0 {
		t.Fatalf("left half missing wide flag")
	}
	if right.Flags&FlagPadding == 0 {
		t.Fatalf("right half missing padding flag")
	}
}

// TestWideCellOverwrite is Scenario E.
func TestWideCellOverwrite(t *testing.T) {
	w := NewWriter(3, 5, 0)
	w.Print("あ", 2)
	w.Screen().CX = 1 // land squarely on the wide cell's padding half
	w.Print("!", 1)

	g := w.Screen().Grid
	if g.Peek(0, 0).Cluster() != "!" {
		t.Errorf("col0 = %q, want !", g.Peek(0, 0).Cluster())
	}
	if g.Peek(1, 0).Cluster() != " " {
		t.Errorf("col1 = %q, want space", g.Peek(1, 0).Cluster())
	}
	for x := 2; x <= 4; x++ {
		c := g.Peek(x, 0)
		if c.Cluster() != "" && c.Cluster() != " " {
			t.Errorf("col%d = %q, want untouched blank", x, c.Cluster())
		}
	}
}

func TestGridLineCountInvariant(t *testing.T) {
	g := NewGrid(5, 10, 100)
	for i := 0; i < 20; i++ {
		g.ScrollHistory()
		if len(g.lines) != g.HSize+g.Rows {
			t.Fatalf("iter %d: len(lines)=%d, HSize=%d, Rows=%d", i, len(g.lines), g.HSize, g.Rows)
		}
		if g.HSize > g.HLimit {
			t.Fatalf("iter %d: HSize %d exceeds HLimit %d", i, g.HSize, g.HLimit)
		}
	}
}

func TestHistoryTrimBatch(t *testing.T) {
	g := NewGrid(2, 10, 10)
	for i := 0; i < 15; i++ {
		g.ScrollHistory()
	}
	if g.HSize > g.HLimit {
		t.Fatalf("HSize %d exceeds HLimit %d", g.HSize, g.HLimit)
	}
	if len(g.lines) != g.HSize+g.Rows {
		t.Fatalf("len(lines)=%d != HSize+Rows=%d", len(g.lines), g.HSize+g.Rows)
	}
}

// TestBasicPrintAndWrap is Scenario A.
func TestBasicPrintAndWrap(t *testing.T) {
	w := NewWriter(3, 10, 0)
	for _, ch := range "hello world!" {
		w.Print(string(ch), 1)
	}

	g := w.Screen().Grid
	line0 := lineText(g, 0, 10)
	line1 := lineText(g, 1, 10)
	if line0 != "hello worl" {
		t.Errorf("line0 = %q, want %q", line0, "hello worl")
	}
	if line1 != "d!" {
		t.Errorf("line1 = %q, want %q", line1, "d!")
	}
	if w.Screen().CX != 2 || w.Screen().CY != 1 {
		t.Errorf("cursor = (%d,%d), want (2,1)", w.Screen().CX, w.Screen().CY)
	}
	if !g.Get(0).Wrapped {
		t.Errorf("line 0 wrapped flag not set")
	}
}

// TestScrollRegion is Scenario B.
func TestScrollRegion(t *testing.T) {
	w := NewWriter(5, 10, 0)
	s := w.Screen()
	// seed: each line y holds a single letter at col 0 identifying it
	for y := 0; y < 5; y++ {
		s.CX, s.CY = 0, y
		w.printNarrow(string(rune('A' + y)))
	}

	s.RUpper, s.RLower = 1, 3
	s.CX, s.CY = 0, 3
	w.lineFeed()

	if g := s.Grid; lineText(g, 1, 1) != "C" {
		t.Errorf("line1 = %q, want C (former line2)", lineText(g, 1, 1))
	} else if lineText(g, 2, 1) != "D" {
		t.Errorf("line2 = %q, want D (former line3)", lineText(g, 2, 1))
	} else if lineText(g, 3, 1) != "" {
		t.Errorf("line3 = %q, want blank", lineText(g, 3, 1))
	} else if lineText(g, 0, 1) != "A" || lineText(g, 4, 1) != "E" {
		t.Errorf("line0/4 disturbed: %q / %q", lineText(g, 0, 1), lineText(g, 4, 1))
	}
}

func lineText(g *Grid, y, cols int) string {
	out := ""
	for x := 0; x < cols; x++ {
		c := g.Peek(x, y)
		if c.Flags&FlagPadding != 0 {
			continue
		}
		cl := c.Cluster()
		if cl == "" {
			cl = " "
		}
		out += cl
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return out
}
