package mux

import "zmux/internal/grid"

// PaneMin is the minimum extent of a pane along the axis a split divides;
// splits that would leave either side below this are rejected.
const PaneMin = 2

// Pane is one pty-backed cell of the layout tree. It owns a grid.Writer
// (the screen-write state described in SPEC_FULL.md §4.2) and the layout
// leaf that positions it; pty plumbing itself lives in internal/ptyio and
// is attached by the caller that spawns the child process.
type Pane struct {
	ID     ID
	Window ID

	Writer *grid.Writer

	// Sx, Sy mirror Writer's active screen size; kept here so layout code
	// can read/update pane geometry without reaching into grid internals.
	Sx, Sy int

	Title string

	// Dead is set once the child has exited and the pty has been closed;
	// the pane stays in the arena until its parent split collapses it.
	Dead     bool
	ExitCode int
}

func newPane(id ID, window ID, sx, sy, hlimit int) *Pane {
	return &Pane{
		ID:     id,
		Window: window,
		Writer: grid.NewWriter(sy, sx, hlimit),
		Sx:     sx,
		Sy:     sy,
	}
}

// Resize updates the pane's screen dimensions. The caller is responsible
// for sending the new winsize to the pty.
func (p *Pane) Resize(sx, sy int) {
	if sx == p.Sx && sy == p.Sy {
		return
	}
	p.Sx, p.Sy = sx, sy
	p.Writer.Resize(sy, sx)
}
