// Package events implements the single-threaded, cooperatively scheduled
// reactor described in SPEC_FULL.md §1 / spec.md §4.4: one goroutine polls
// every registered descriptor for readiness, runs all ready callbacks for
// that turn, fires due timers, then polls again. Nothing here blocks; the
// reactor owns the entire session/window/pane tree (internal/mux) and no
// other goroutine touches it, so mux.Server needs no locking.
package events

import (
	"container/heap"
	"fmt"

	"golang.org/x/sys/unix"
)

// Interest is the set of readiness conditions a source is registered for.
type Interest int16

const (
	Readable Interest = unix.POLLIN
	Writable Interest = unix.POLLOUT
)

// Handler is invoked with the readiness bits that fired for a descriptor.
type Handler func(ready Interest)

type source struct {
	fd       int
	interest Interest
	handler  Handler
}

// Loop is the reactor. It is not safe for concurrent use: every method
// (including Register/timer scheduling made from within a callback) runs
// on the same goroutine that calls Run.
type Loop struct {
	sources map[int]*source
	order   []int // fd registration order, for deterministic iteration

	timers timerHeap
	nextID int

	selfPipe  [2]int
	onSignal  func(sig int)
	stop      bool
}

func NewLoop() (*Loop, error) {
	l := &Loop{sources: make(map[int]*source)}
	r, w, err := newPipe()
	if err != nil {
		return nil, fmt.Errorf("events: self-pipe: %w", err)
	}
	l.selfPipe = [2]int{r, w}
	if err := unix.SetNonblock(r, true); err != nil {
		return nil, fmt.Errorf("events: self-pipe nonblock: %w", err)
	}
	l.Register(r, Readable, l.drainSelfPipe)
	return l, nil
}

func newPipe() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

// Register adds fd to the poll set. Registering an already-registered fd
// replaces its interest and handler.
func (l *Loop) Register(fd int, interest Interest, h Handler) {
	if _, exists := l.sources[fd]; !exists {
		l.order = append(l.order, fd)
	}
	l.sources[fd] = &source{fd: fd, interest: interest, handler: h}
}

// Unregister removes fd from the poll set. Safe to call for an fd that
// was never registered.
func (l *Loop) Unregister(fd int) {
	if _, ok := l.sources[fd]; !ok {
		return
	}
	delete(l.sources, fd)
	for i, f := range l.order {
		if f == fd {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// SetInterest changes which readiness conditions fd is polled for (e.g. a
// write buffer going from empty to non-empty adds Writable).
func (l *Loop) SetInterest(fd int, interest Interest) {
	if s, ok := l.sources[fd]; ok {
		s.interest = interest
	}
}

// NotifySignal arranges for sig (an os/signal-delivered signal number) to
// invoke h on the loop's own goroutine via the self-pipe, turning
// asynchronous signal delivery into an ordinary readiness event rather
// than the jmp_buf-style re-entry spec.md §9 calls out for replacement.
func (l *Loop) NotifySignal(h func(sig int)) {
	l.onSignal = h
}

// raiseSignal is called from a signal handler goroutine (see cmd/zmuxd)
// to wake the loop; it only writes one byte to the pipe, which is
// async-signal-safe-equivalent in Go (no allocation, no locks beyond the
// pipe's own kernel buffering).
func (l *Loop) raiseSignal(sig int) {
	b := byte(sig)
	unix.Write(l.selfPipe[1], []byte{b})
}

// SignalWriter returns the write end of the self-pipe for wiring into a
// signal.Notify consumer goroutine.
func (l *Loop) SignalWriter() func(sig int) { return l.raiseSignal }

func (l *Loop) drainSelfPipe(Interest) {
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(l.selfPipe[0], buf)
		if n <= 0 || err != nil {
			return
		}
		if l.onSignal != nil {
			for _, b := range buf[:n] {
				l.onSignal(int(b))
			}
		}
	}
}

// Stop requests the loop exit after the current turn.
func (l *Loop) Stop() { l.stop = true }

// Run polls until Stop is called. Each turn: poll with a timeout bounded
// by the next due timer, run every ready handler (pty reads ahead of
// writes within the turn isn't ordered here - callers needing the
// "parse before render" guarantee from spec.md §4.4 do that ordering
// inside their own handlers, since the reactor only knows about fds), then
// fire due timers.
func (l *Loop) Run() error {
	for !l.stop {
		if err := l.runOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) runOnce() error {
	timeout := l.nextTimeout()

	pfds := make([]unix.PollFd, 0, len(l.order))
	for _, fd := range l.order {
		s := l.sources[fd]
		pfds = append(pfds, unix.PollFd{Fd: int32(s.fd), Events: int16(s.interest)})
	}

	n, err := unix.Poll(pfds, timeout)
	if err != nil && err != unix.EINTR {
		return fmt.Errorf("events: poll: %w", err)
	}

	if n > 0 {
		for _, pfd := range pfds {
			if pfd.Revents == 0 {
				continue
			}
			if s, ok := l.sources[int(pfd.Fd)]; ok {
				s.handler(Interest(pfd.Revents))
			}
		}
	}

	l.fireDueTimers()
	return nil
}

// nextTimeout returns the poll timeout in milliseconds: -1 (block
// indefinitely) if there are no timers, else the time until the earliest
// one, clamped to 0.
func (l *Loop) nextTimeout() int {
	if len(l.timers) == 0 {
		return -1
	}
	ms := l.timers[0].deadline - nowMillis()
	if ms < 0 {
		ms = 0
	}
	return int(ms)
}

func (l *Loop) fireDueTimers() {
	now := nowMillis()
	for len(l.timers) > 0 && l.timers[0].deadline <= now {
		t := heap.Pop(&l.timers).(*timer)
		if t.canceled {
			continue
		}
		t.fn()
		if t.every > 0 && !t.canceled {
			t.deadline = now + t.every
			heap.Push(&l.timers, t)
		}
	}
}
