package server

import (
	"net"

	"zmux/internal/events"
	"zmux/internal/keytrans"
	"zmux/internal/mux"
	"zmux/internal/proto"
	"zmux/internal/render"
	"zmux/internal/vtparse"
)

// vtParserPair owns one pane's parser/dispatcher, sitting between the
// pty's raw bytes and the pane's grid.Writer. One pair per pane, grounded
// on internal/render's test helper and spec.md §4.1's "one parser
// instance per pty source" rule.
type vtParserPair struct {
	parser     *vtparse.Parser
	dispatcher *vtparse.Dispatcher
}

func newVTParserPair(sink vtparse.Sink) *vtParserPair {
	return &vtParserPair{parser: vtparse.NewParser(), dispatcher: vtparse.NewDispatcher(sink)}
}

// client is one attached terminal's server-side state: its connection,
// the window it is currently viewing, and the renderer/keytrans state
// needed to turn its input/output into the right wire messages.
type client struct {
	conn *net.UnixConn
	fd   int

	session *mux.Session
	window  *mux.Window

	target   *render.Target
	renderer *render.Renderer

	modes    keytrans.Modes
	mouseEnc keytrans.MouseEncoding
}

func (s *Server) currentPane(c *client) *mux.Pane {
	return c.window.Panes[c.window.Current]
}

// onClientReady reads exactly one framed message per readiness event,
// the same one-read-per-callback discipline onPtyReady uses: looping
// ReadMessage until it errors would park the reactor goroutine waiting
// for a message that may never come the moment the socket's current
// buffered bytes run out. A client that errors or explicitly detaches is
// torn down and unregistered from the loop.
func (s *Server) onClientReady(c *client, _ events.Interest) {
	msg, err := proto.ReadMessage(c.conn)
	if err != nil {
		s.dropClient(c)
		return
	}
	if s.handleClientMessage(c, msg) {
		s.dropClient(c)
	}
}

func (s *Server) handleClientMessage(c *client, msg *proto.Message) (done bool) {
	switch msg.Header.Type {
	case proto.TypeStdin:
		var p proto.StreamPayload
		if msg.Decode(&p) == nil {
			s.forwardStdin(c, p.Data)
		}
	case proto.TypeResize:
		var p proto.ResizePayload
		if msg.Decode(&p) == nil {
			s.resizeClientWindow(c, p.Rows, p.Cols)
		}
	case proto.TypeCommand:
		var p proto.CommandPayload
		if msg.Decode(&p) == nil {
			s.runCommand(c, p)
		} else {
			proto.WriteMessage(c.conn, proto.TypeCommandExit, proto.CommandExitPayload{ExitCode: 1, Error: "malformed command"}, 0)
		}
	case proto.TypeDetach:
		return true
	}
	return false
}

// runCommand replies to a Command message. The registered command actions
// themselves (new-session, kill-server, list-sessions, ...) are out of
// scope per spec.md's Non-goals; this still owes the client the
// CommandExit round trip sendCommand blocks on, so an unregistered argv[0]
// gets an explicit "action not found" exit rather than silence.
func (s *Server) runCommand(c *client, p proto.CommandPayload) {
	if len(p.Argv) == 0 {
		proto.WriteMessage(c.conn, proto.TypeCommandExit, proto.CommandExitPayload{ExitCode: 1, Error: "empty command"}, 0)
		return
	}
	proto.WriteMessage(c.conn, proto.TypeCommandExit, proto.CommandExitPayload{
		ExitCode: 1,
		Error:    "action not found: " + p.Argv[0],
	}, 0)
}

// forwardStdin writes raw client bytes straight to the current pane's
// pty. internal/attachcli sends the real terminal's bytes unchanged, so
// the pane receives whatever escape sequences that terminal produced;
// internal/keytrans is not invoked anywhere on this path.
func (s *Server) forwardStdin(c *client, data []byte) {
	pane := s.currentPane(c)
	if pane == nil {
		return
	}
	pp := s.panes[pane.ID]
	if pp == nil {
		return
	}
	pp.pty.Write(data)
}

func (s *Server) resizeClientWindow(c *client, rows, cols int) {
	if err := s.Mux.ResizeWindow(c.window, cols, rows); err != nil {
		return
	}
	for _, leaf := range c.window.Layout.Leaves() {
		pp := s.panes[leaf.Pane]
		if pp == nil {
			continue
		}
		pp.pty.Resize(leaf.Sy, leaf.Sx)
	}
	c.renderer.FullRedraw(c.window)
}

func (s *Server) dropClient(c *client) {
	s.Loop.Unregister(c.fd)
	delete(s.clients, c.fd)
	c.conn.Close()
}
