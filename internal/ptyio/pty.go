// Package ptyio allocates ptys for panes and performs the non-blocking
// read/write/resize operations the event loop (internal/events) drives.
// It deliberately exposes raw file descriptors rather than blocking
// io.Reader/io.Writer semantics, since SPEC_FULL.md §4.4 (spec.md §4.4)
// requires every pty source to be read and written without blocking the
// single-threaded reactor.
package ptyio

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Pty owns one pty master/child process pair.
type Pty struct {
	Master *os.File
	Cmd    *exec.Cmd

	rows, cols int
}

// Start allocates a pty of the given size and starts command in it, with
// env layered over the current process environment (entries in env
// override any identically-named inherited variable, matching the
// teacher's StartPTY override rule).
func Start(command string, args []string, rows, cols int, env map[string]string) (*Pty, error) {
	cmd := exec.Command(command, args...)
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("ptyio: start %s: %w", command, err)
	}
	if err := unix.SetNonblock(int(master.Fd()), true); err != nil {
		master.Close()
		cmd.Process.Kill()
		return nil, fmt.Errorf("ptyio: set nonblocking: %w", err)
	}
	return &Pty{Master: master, Cmd: cmd, rows: rows, cols: cols}, nil
}

func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := kv
		for i, c := range kv {
			if c == '=' {
				key = kv[:i]
				break
			}
		}
		if _, override := overrides[key]; !override {
			out = append(out, kv)
		}
	}
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}

// Fd returns the master file descriptor, for registering with the event
// loop's readiness poller.
func (p *Pty) Fd() int { return int(p.Master.Fd()) }

// Read performs one non-blocking read into buf. A return of (0, nil) from
// the underlying fd when nothing is ready surfaces as (0, unix.EAGAIN);
// callers only call Read after the poller reports readiness, so this is
// not a busy-wait.
func (p *Pty) Read(buf []byte) (int, error) {
	return p.Master.Read(buf)
}

// Write performs one non-blocking write; a short write (or EAGAIN) means
// the caller must buffer the remainder and retry once the descriptor is
// next reported writable.
func (p *Pty) Write(buf []byte) (int, error) {
	return p.Master.Write(buf)
}

// Resize updates the pty's winsize. The caller is responsible for driving
// the corresponding grid.Screen resize.
func (p *Pty) Resize(rows, cols int) error {
	if rows == p.rows && cols == p.cols {
		return nil
	}
	p.rows, p.cols = rows, cols
	return pty.Setsize(p.Master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Close closes the pty master. It does not wait for or signal the child;
// callers that need to reap the child call Signal/TryWait separately so the
// event loop can do so without blocking.
func (p *Pty) Close() error {
	return p.Master.Close()
}

// Signal sends sig to the child process (not to its process group).
func (p *Pty) Signal(sig os.Signal) error {
	if p.Cmd.Process == nil {
		return nil
	}
	return p.Cmd.Process.Signal(sig)
}

// TryWait performs a non-blocking reap of the child via WNOHANG, returning
// (exited=false, nil) while it is still running.
func (p *Pty) TryWait() (exited bool, code int, err error) {
	if p.Cmd.Process == nil {
		return false, 0, nil
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(p.Cmd.Process.Pid, &ws, unix.WNOHANG, nil)
	if err != nil {
		return false, 0, fmt.Errorf("ptyio: wait4: %w", err)
	}
	if pid == 0 {
		return false, 0, nil
	}
	return true, ws.ExitStatus(), nil
}
