// Command zmuxd is the multiplexer server daemon: it binds the named
// instance's Unix socket and runs the single-threaded reactor
// (internal/server) until killed. Grounded on the teacher's
// internal/daemon/daemon.go (Run): socket directory creation, a
// stale-socket check via a zero-timeout dial, then listen.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zmux/internal/config"
	"zmux/internal/server"
	"zmux/internal/socketdir"
)

func main() {
	name := flag.String("socket-name", "default", "server instance name")
	flag.Parse()

	if err := run(*name); err != nil {
		fmt.Fprintf(os.Stderr, "zmuxd: %v\n", err)
		os.Exit(1)
	}
}

func run(name string) error {
	lock, err := socketdir.Acquire(name)
	if err != nil {
		return err
	}
	defer lock.Release()

	sockPath := socketdir.Path(name)
	if _, err := os.Stat(sockPath); err == nil {
		if conn, dialErr := net.DialTimeout("unix", sockPath, 500*time.Millisecond); dialErr == nil {
			conn.Close()
			return fmt.Errorf("server %q is already running", name)
		}
		os.Remove(sockPath)
	}

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", sockPath, err)
	}
	unixLn := ln.(*net.UnixListener)
	defer func() {
		unixLn.Close()
		os.Remove(sockPath)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("zmuxd: config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	srv, err := server.New(unixLn, cfg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	// Relay signals onto the reactor's self-pipe; Server.onSignal then
	// handles them on the loop goroutine.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGCHLD)
	raise := srv.Loop.SignalWriter()
	go func() {
		for sig := range sigCh {
			raise(int(sig.(syscall.Signal)))
		}
	}()
	return srv.Run()
}
