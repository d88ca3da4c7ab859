package mux

// Window holds a layout tree and the panes it positions. Windows are
// arena entries, not pointers reachable from a Winlink: multiple winlinks
// across sessions can reference the same window (link_window), so the
// window tracks how many winlinks currently point at it and is destroyed
// by the arena only when that count reaches zero.
type Window struct {
	ID   ID
	Name string

	Sx, Sy int
	Layout *LayoutCell
	Panes  map[ID]*Pane

	Current ID // currently selected pane

	RefCount int
}

func newWindow(id ID, name string, sx, sy int) *Window {
	return &Window{
		ID:    id,
		Name:  name,
		Sx:    sx,
		Sy:    sy,
		Panes: make(map[ID]*Pane),
	}
}

func (w *Window) leafForPane(pane ID) *LayoutCell {
	for _, l := range w.Layout.Leaves() {
		if l.Pane == pane {
			return l
		}
	}
	return nil
}

// Area is the window's total cell area: the sum of its leaf panes' areas
// plus the separator cells contributed by every split (spec.md §8 item 5).
func (w *Window) Area() int {
	if w.Layout == nil {
		return 0
	}
	return w.Layout.Sx * w.Layout.Sy
}
