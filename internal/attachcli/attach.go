// Package attachcli is the client half of an attach session: it puts the
// real terminal into raw mode, performs the identify/ready handshake, and
// pumps bytes between the terminal and the server connection until
// detach. Grounded on the teacher's internal/cmd/attach.go (doAttach),
// generalized from its hand-rolled framing to internal/proto and from a
// single detach byte to spec.md §4.5's full client protocol.
package attachcli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"zmux/internal/proto"
)

// DetachByte is the client-side detach key, ctrl-\ (0x1C), matching the
// teacher's own choice.
const DetachByte = 0x1c

// Session manages one attached terminal's raw-mode lifecycle and I/O pump.
type Session struct {
	conn     io.ReadWriteCloser
	oldState *term.State
	fd       int

	out io.Writer
	in  io.Reader
}

// Options carries the identify fields the caller already knows (terminal
// name, negotiated capabilities) so Attach doesn't have to re-derive them.
type Options struct {
	Term     string
	Caps     proto.CapFlags
	AttachTo string
	Cwd      string
	Env      map[string]string
}

// Attach dials nothing itself - it drives the handshake and I/O pump over
// an already-connected conn (typically a *net.UnixConn from socketdir) -
// blocking until the server detaches the client or the connection breaks.
func Attach(conn io.ReadWriteCloser, opts Options) error {
	s := &Session{conn: conn, fd: int(os.Stdin.Fd()), out: os.Stdout, in: os.Stdin}

	cols, rows, err := term.GetSize(s.fd)
	if err != nil {
		return fmt.Errorf("get terminal size (is this a terminal?): %w", err)
	}

	identify := proto.IdentifyPayload{
		Term: opts.Term, Rows: rows, Cols: cols,
		Env: opts.Env, Cwd: opts.Cwd, Caps: opts.Caps, AttachTo: opts.AttachTo,
	}
	if _, err := proto.ClientHandshake(conn, identify); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	s.oldState, err = term.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	defer s.restore()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go s.watchResize(sigCh)

	return s.pump()
}

// restore disables mouse reporting and puts the terminal back to cooked
// mode, matching the teacher's defer block in doAttach.
func (s *Session) restore() {
	s.out.Write([]byte("\033[?1000l\033[?1006l"))
	term.Restore(s.fd, s.oldState)
	s.out.Write([]byte("\033[?25h\033[0m\r\n"))
}

func (s *Session) watchResize(sigCh chan os.Signal) {
	for range sigCh {
		cols, rows, err := term.GetSize(s.fd)
		if err != nil {
			continue
		}
		proto.WriteMessage(s.conn, proto.TypeResize, proto.ResizePayload{Rows: rows, Cols: cols}, 0)
	}
}

// pump runs the stdin->server and server->stdout goroutines until either
// side closes or the user presses the detach key.
func (s *Session) pump() error {
	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		defer stop()
		buf := make([]byte, 4096)
		for {
			n, err := s.in.Read(buf)
			if n > 0 {
				for _, b := range buf[:n] {
					if b == DetachByte {
						return
					}
				}
				if err := proto.WriteMessage(s.conn, proto.TypeStdin, proto.StreamPayload{Data: append([]byte(nil), buf[:n]...)}, 0); err != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	var readErr error
	go func() {
		defer stop()
		for {
			msg, err := proto.ReadMessage(s.conn)
			if err != nil {
				readErr = err
				return
			}
			switch msg.Header.Type {
			case proto.TypeStdout, proto.TypeStderr:
				var stream proto.StreamPayload
				if msg.Decode(&stream) == nil {
					s.out.Write(stream.Data)
				}
			case proto.TypeDetach:
				return
			case proto.TypeShutdown:
				return
			}
		}
	}()

	<-done
	s.conn.Close()
	return readErr
}
