// Package server is the daemon's core: it owns the events.Loop reactor,
// the mux.Server arena, every pane's pty, and every attached client's
// connection, and is the one place that wires those four packages
// together. Grounded on the teacher's internal/session/listener.go
// (accept -> dispatch by request) and internal/session/attach.go
// (per-client read/write pumping), restructured from a goroutine per
// connection onto the single reactor SPEC_FULL.md §4.4 requires: every
// callback registered here runs on the loop's own goroutine, so nothing
// in this package takes a lock.
package server

import (
	"fmt"
	"log"
	"net"

	"golang.org/x/sys/unix"

	"zmux/internal/config"
	"zmux/internal/events"
	"zmux/internal/keytrans"
	"zmux/internal/mux"
	"zmux/internal/proto"
	"zmux/internal/ptyio"
	"zmux/internal/render"
)

// Server is the daemon process's single top-level value.
type Server struct {
	Loop   *events.Loop
	Mux    *mux.Server
	Config *config.Config

	listener *net.UnixListener
	listenFd int

	panes   map[mux.ID]*paneProc
	clients map[int]*client
}

// paneProc binds a mux.Pane to the pty process driving it and the parser
// state that feeds the pane's grid.Writer.
type paneProc struct {
	pane   *mux.Pane
	window mux.ID
	pty    *ptyio.Pty
	parser *vtParserPair
}

// New builds a Server around an already-bound listener. The caller (a
// cmd/zmuxd main) owns the listener's lifecycle and socketdir bookkeeping.
func New(ln *net.UnixListener, cfg *config.Config) (*Server, error) {
	loop, err := events.NewLoop()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s := &Server{
		Loop:     loop,
		Mux:      mux.NewServer(cfg.HistoryLimit),
		Config:   cfg,
		listener: ln,
		panes:    make(map[mux.ID]*paneProc),
		clients:  make(map[int]*client),
	}

	f, err := ln.File()
	if err != nil {
		return nil, fmt.Errorf("server: listener fd: %w", err)
	}
	// ln.File() dup's the fd and switches it back to blocking; flip it
	// back so Accept inside onListenerReady never blocks the reactor.
	s.listenFd = int(f.Fd())
	if err := unix.SetNonblock(s.listenFd, true); err != nil {
		return nil, fmt.Errorf("server: nonblock listener: %w", err)
	}
	s.Loop.Register(s.listenFd, events.Readable, s.onListenerReady)

	s.Loop.NotifySignal(s.onSignal)
	return s, nil
}

// Run drives the reactor until Loop.Stop is called, which onSignal does
// on SIGTERM or SIGINT.
func (s *Server) Run() error {
	return s.Loop.Run()
}

func (s *Server) onSignal(sig int) {
	switch unix.Signal(sig) {
	case unix.SIGTERM, unix.SIGINT:
		s.Loop.Stop()
	case unix.SIGCHLD:
		s.reapPanes()
	}
}

// onListenerReady accepts exactly one connection per readiness event and
// performs its handshake inline. Poll is level triggered, so a burst of
// simultaneous dials still drains fully: each leaves the listener
// readable again and the reactor's next turn calls back in immediately,
// rather than this handler looping Accept until it would block - a loop
// here would park the one reactor goroutine the instant the backlog is
// empty, exactly the stall spec.md's single-threaded reactor forbids.
//
// The handshake itself still blocks briefly on the new connection's fd:
// doing it out-of-band would mean tracking yet another partial-read
// state machine for a one-time exchange, and a just-accepted socket's
// first few hundred bytes arrive essentially instantly on a local Unix
// socket. Documented in DESIGN.md as a scoped simplification rather than
// silently dropped.
func (s *Server) onListenerReady(events.Interest) {
	conn, err := s.listener.AcceptUnix()
	if err != nil {
		return
	}
	s.acceptOne(conn)
}

func (s *Server) acceptOne(conn *net.UnixConn) {
	id, err := proto.ServerHandshake(conn)
	if err != nil {
		log.Printf("server: handshake: %v", err)
		conn.Close()
		return
	}

	c, err := s.attachClient(conn, id)
	if err != nil {
		log.Printf("server: attach: %v", err)
		proto.WriteMessage(conn, proto.TypeShutdown, proto.ShutdownPayload{Reason: err.Error()}, 0)
		conn.Close()
		return
	}

	cf, err := conn.File()
	if err != nil {
		log.Printf("server: client fd: %v", err)
		conn.Close()
		return
	}
	fd := int(cf.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		conn.Close()
		return
	}
	c.fd = fd
	s.clients[fd] = c
	s.Loop.Register(fd, events.Readable, func(ev events.Interest) { s.onClientReady(c, ev) })

	c.renderer.FullRedraw(c.window)
}

// attachClient resolves which session an Identify payload wants (an
// existing session by name, or a brand new one with a single pane
// running the configured default shell) and builds the client's
// render.Target around the connection's negotiated capabilities.
func (s *Server) attachClient(conn *net.UnixConn, id *proto.IdentifyPayload) (*client, error) {
	name := id.AttachTo
	if name == "" {
		name = "main"
	}
	sess := s.findSession(name)
	if sess == nil {
		var err error
		sess, err = s.Mux.NewSession(name, id.Cols, id.Rows, s.Config.DefaultShell)
		if err != nil {
			return nil, err
		}
		wl := sess.Winlinks[sess.Current]
		win := s.Mux.Windows[wl.Window]
		for _, p := range win.Panes {
			if err := s.spawnPane(win.ID, p); err != nil {
				return nil, err
			}
		}
	}

	wl := sess.Winlinks[sess.Current]
	win := s.Mux.Windows[wl.Window]

	target := &render.Target{W: conn, Caps: id.Caps}
	c := &client{
		conn:     conn,
		session:  sess,
		window:   win,
		target:   target,
		renderer: render.New(target),
		modes:    keytrans.Modes{},
		mouseEnc: keytrans.MouseSGR,
	}
	return c, nil
}

func (s *Server) findSession(name string) *mux.Session {
	for _, sess := range s.Mux.Sessions {
		if sess.Name == name {
			return sess
		}
	}
	return nil
}

// spawnPane starts the pty behind a freshly created pane and registers
// its master fd with the reactor.
func (s *Server) spawnPane(winID mux.ID, pane *mux.Pane) error {
	shell := s.Config.DefaultShell
	pty, err := ptyio.Start(shell, nil, pane.Sy, pane.Sx, nil)
	if err != nil {
		return err
	}
	pp := &paneProc{pane: pane, window: winID, pty: pty, parser: newVTParserPair(pane.Writer)}
	s.panes[pane.ID] = pp
	s.Loop.Register(pty.Fd(), events.Readable, func(ev events.Interest) { s.onPtyReady(pp, ev) })
	return nil
}

func (s *Server) onPtyReady(pp *paneProc, _ events.Interest) {
	buf := make([]byte, 16*1024)
	n, err := pp.pty.Read(buf)
	if n > 0 {
		pp.parser.parser.Advance(buf[:n], pp.parser.dispatcher)
		if data, ok := pp.pane.Writer.TakeClipboard(); ok {
			s.relayClipboard(pp.window, data)
		}
		s.redrawClientsOf(pp.window)
	}
	if err != nil {
		s.killPane(pp)
	}
}

// relayClipboard passes an OSC-52 clipboard-set payload emitted by a pane
// through to every client currently viewing that pane's window, so a
// program's own "copy to system clipboard" request reaches the real
// terminal the same way it would with nothing in between.
func (s *Server) relayClipboard(winID mux.ID, data []byte) {
	for _, c := range s.clients {
		if c.window.ID == winID {
			c.renderer.CopyToClipboard(data)
		}
	}
}

func (s *Server) killPane(pp *paneProc) {
	s.Loop.Unregister(pp.pty.Fd())
	pp.pty.Close()
	pp.pane.Dead = true
	delete(s.panes, pp.pane.ID)
}

func (s *Server) reapPanes() {
	for _, pp := range s.panes {
		if exited, code, _ := pp.pty.TryWait(); exited {
			pp.pane.ExitCode = code
			s.killPane(pp)
		}
	}
}

// redrawClientsOf issues a full redraw to every client attached to winID.
// spec.md §4.6 also names an incremental per-op journal mode (see
// internal/render's DESIGN.md entry) that would send far fewer bytes per
// pty read; not implemented here for the same reason it isn't in
// internal/render.
func (s *Server) redrawClientsOf(winID mux.ID) {
	win := s.Mux.Windows[winID]
	if win == nil {
		return
	}
	for _, c := range s.clients {
		if c.window.ID != winID {
			continue
		}
		if c.target.Congested {
			continue
		}
		c.renderer.FullRedraw(win)
	}
}
