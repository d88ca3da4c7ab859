package mux

import "fmt"

// IndexCollision controls what new_window does when the requested index
// is already occupied.
type IndexCollision int

const (
	CollisionFail IndexCollision = iota
	CollisionReplace
	CollisionShift
)

const baseIndex = 0

// NewSession creates a session with a first window running initialCommand
// (the command itself is launched by the caller; this only reserves the
// pane and its screen state).
func (srv *Server) NewSession(name string, sx, sy int, initialCommand string) (*Session, error) {
	if srv.findSessionByName(name) != nil {
		return nil, fmt.Errorf("mux: session %q already exists", name)
	}
	sess := newSession(newID(), name, sx, sy)
	srv.Sessions[sess.ID] = sess

	win, err := srv.newWindowEntry("", sx, sy)
	if err != nil {
		return nil, err
	}
	wl := &Winlink{ID: newID(), Session: sess.ID, Window: win.ID, Index: 0}
	sess.Winlinks[0] = wl
	sess.Current = 0
	win.RefCount++

	_ = initialCommand // launching the child process is internal/ptyio's concern
	return sess, nil
}

func (srv *Server) newWindowEntry(name string, sx, sy int) (*Window, error) {
	pane := newPane(newID(), NilID, sx, sy, srv.HistoryLimit)
	win := newWindow(newID(), name, sx, sy)
	pane.Window = win.ID
	win.Panes[pane.ID] = pane
	win.Current = pane.ID
	win.Layout = newLeaf(pane.ID, sx, sy)
	win.Layout.Sx, win.Layout.Sy = sx, sy
	srv.Windows[win.ID] = win
	return win, nil
}

// NewWindow creates a window in session, linking it at the lowest free
// index >= afterIndex+1 (or handling a collision at an explicit index per
// how).
func (srv *Server) NewWindow(sess *Session, afterIndex int, command string, explicitIndex int, how IndexCollision) (*Winlink, error) {
	index := afterIndex + 1
	if explicitIndex >= 0 {
		index = explicitIndex
		if _, occupied := sess.Winlinks[index]; occupied {
			switch how {
			case CollisionFail:
				return nil, fmt.Errorf("mux: window index %d already in use", index)
			case CollisionReplace:
				if err := srv.killWinlinkAt(sess, index); err != nil {
					return nil, err
				}
			case CollisionShift:
				srv.shiftWinlinksUp(sess, index)
			}
		}
	} else {
		index = sess.nextIndex(index)
	}

	win, err := srv.newWindowEntry("", sess.Sx, sess.Sy)
	if err != nil {
		return nil, err
	}
	wl := &Winlink{ID: newID(), Session: sess.ID, Window: win.ID, Index: index}
	sess.Winlinks[index] = wl
	win.RefCount++
	_ = command
	return wl, nil
}

// shiftWinlinksUp makes room at `from` by moving every winlink at index
// >= from up by one, starting from the highest occupied index so no slot
// is overwritten before it is read.
func (srv *Server) shiftWinlinksUp(sess *Session, from int) {
	max := from - 1
	for i := range sess.Winlinks {
		if i > max {
			max = i
		}
	}
	for i := max; i >= from; i-- {
		if wl, ok := sess.Winlinks[i]; ok {
			wl.Index = i + 1
			sess.Winlinks[i+1] = wl
			delete(sess.Winlinks, i)
		}
	}
}

func (srv *Server) killWinlinkAt(sess *Session, index int) error {
	wl, ok := sess.Winlinks[index]
	if !ok {
		return nil
	}
	return srv.KillWindow(sess, wl)
}

// LinkWindow shares src's window by reference at dstIndex in dstSession,
// bumping the window's reference count. The new winlink starts with no
// alert flags, regardless of src's.
func (srv *Server) LinkWindow(src *Winlink, dstSession *Session, dstIndex int) (*Winlink, error) {
	win, ok := srv.Windows[src.Window]
	if !ok {
		return nil, fmt.Errorf("mux: window %s not found", src.Window)
	}
	if _, occupied := dstSession.Winlinks[dstIndex]; occupied {
		return nil, fmt.Errorf("mux: window index %d already in use", dstIndex)
	}
	wl := &Winlink{ID: newID(), Session: dstSession.ID, Window: win.ID, Index: dstIndex}
	dstSession.Winlinks[dstIndex] = wl
	win.RefCount++
	return wl, nil
}

// UnlinkWindow removes winlink wl from its session without touching the
// window's other winlinks; if the refcount reaches zero the window and
// all its panes are destroyed.
func (srv *Server) UnlinkWindow(wl *Winlink) error {
	sess, ok := srv.Sessions[wl.Session]
	if !ok {
		return fmt.Errorf("mux: session %s not found", wl.Session)
	}
	delete(sess.Winlinks, wl.Index)
	return srv.dropWindowRef(wl.Window)
}

func (srv *Server) dropWindowRef(winID ID) error {
	win, ok := srv.Windows[winID]
	if !ok {
		return nil
	}
	win.RefCount--
	if win.RefCount <= 0 {
		delete(srv.Windows, winID)
	}
	return nil
}

// KillWindow is UnlinkWindow plus removing the winlink's own session
// bookkeeping (current index, MRU stack) consistently; spec.md's
// kill_window is "remove winlink; destroy window when refcount hits 0".
func (srv *Server) KillWindow(sess *Session, wl *Winlink) error {
	if err := srv.UnlinkWindow(wl); err != nil {
		return err
	}
	if sess.Current == wl.Index {
		sess.Current = sess.popLastUsed()
	}
	return nil
}

// SplitPane inserts a new pane adjacent to `pane` along direction, with
// the given size spec, and returns it. Rejects splits that would leave
// either side below PaneMin along the split axis.
func (srv *Server) SplitPane(win *Window, pane ID, dir Direction, spec SizeSpec) (*Pane, error) {
	leaf := win.leafForPane(pane)
	if leaf == nil {
		return nil, fmt.Errorf("mux: pane %s not in window %s", pane, win.ID)
	}
	paneID := newID()
	newLeaf, err := leaf.split(dir, spec, paneID)
	if err != nil {
		return nil, err
	}
	p := newPane(paneID, win.ID, newLeaf.Sx, newLeaf.Sy, srv.HistoryLimit)
	win.Panes[paneID] = p
	win.Current = paneID

	applyLayoutSizes(win)
	return p, nil
}

// KillPane closes pane's pty (the caller does the actual close/wait),
// collapses its layout leaf into the parent split, and redistributes the
// freed extent to the remaining siblings. Always succeeds; if it empties
// the window, the window itself is destroyed.
func (srv *Server) KillPane(win *Window, pane ID) error {
	leaf := win.leafForPane(pane)
	if leaf == nil {
		return fmt.Errorf("mux: pane %s not in window %s", pane, win.ID)
	}
	delete(win.Panes, pane)

	if leaf == win.Layout {
		// Last pane in the window: nothing left to collapse into.
		win.Layout = nil
	} else {
		leaf.collapse()
	}

	if win.Current == pane {
		for id := range win.Panes {
			win.Current = id
			break
		}
	}
	applyLayoutSizes(win)

	if len(win.Panes) == 0 {
		delete(srv.Windows, win.ID)
	}
	return nil
}

// applyLayoutSizes pushes each leaf's recomputed Sx/Sy into its pane.
func applyLayoutSizes(win *Window) {
	if win.Layout == nil {
		return
	}
	for _, leaf := range win.Layout.Leaves() {
		if p, ok := win.Panes[leaf.Pane]; ok {
			p.Resize(leaf.Sx, leaf.Sy)
		}
	}
}

// ResizeWindow recomputes the layout tree for the new size, clamped at
// per-pane minima. Best-effort: on failure the window keeps its previous
// layout and an error is returned.
func (srv *Server) ResizeWindow(win *Window, sx, sy int) error {
	if win.Layout == nil {
		win.Sx, win.Sy = sx, sy
		return nil
	}
	if err := win.Layout.Resize(sx, sy); err != nil {
		return err
	}
	win.Sx, win.Sy = sx, sy
	applyLayoutSizes(win)
	return nil
}

// SelectWindow updates sess's current window index, pushing the previous
// selection onto the MRU stack.
func (srv *Server) SelectWindow(sess *Session, index int) error {
	if _, ok := sess.Winlinks[index]; !ok {
		return fmt.Errorf("mux: no window at index %d", index)
	}
	sess.pushCurrent()
	sess.Current = index
	return nil
}

// SelectPane updates win's current pane.
func (srv *Server) SelectPane(win *Window, pane ID) error {
	if _, ok := win.Panes[pane]; !ok {
		return fmt.Errorf("mux: pane %s not in window %s", pane, win.ID)
	}
	win.Current = pane
	return nil
}
