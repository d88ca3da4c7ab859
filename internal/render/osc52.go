package render

import (
	"github.com/aymanbagabas/go-osc52/v2"
)

// CopyToClipboard relays a pane's OSC-52 clipboard-set request through to
// the attached client's physical terminal (internal/grid's Writer decodes
// the incoming sequence; internal/server calls this once per pty read that
// produced one). Screen() wraps the outgoing sequence for safe delivery
// through an outer terminal multiplexer, which describes exactly how a
// zmux client's own escape sequences reach the real terminal underneath.
func (r *Renderer) CopyToClipboard(data []byte) {
	seq := osc52.New(string(data)).Clipboard().Screen()
	seq.WriteTo(r.Target.W)
}
