package server

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zmux/internal/config"
	"zmux/internal/proto"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "test.sock")

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	unixLn := ln.(*net.UnixListener)

	cfg := config.Default()
	cfg.DefaultShell = "/bin/cat"

	srv, err := New(unixLn, cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		unixLn.Close()
		os.Remove(sockPath)
	})
	return srv, sockPath
}

func runLoopFor(t *testing.T, srv *Server, d time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	time.AfterFunc(d, srv.Loop.Stop)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("loop: %v", err)
		}
	case <-time.After(d + time.Second):
		t.Errorf("loop did not stop")
	}
}

func TestAttachSpawnsSessionAndRendersGreeting(t *testing.T) {
	srv, sockPath := newTestServer(t)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	identify := proto.IdentifyPayload{Term: "xterm-256color", Rows: 24, Cols: 80}
	go runLoopFor(t, srv, 200*time.Millisecond)

	if _, err := proto.ClientHandshake(conn, identify); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if len(srv.Mux.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(srv.Mux.Sessions))
	}
	if len(srv.panes) != 1 {
		t.Fatalf("panes = %d, want 1", len(srv.panes))
	}
}

func TestSecondClientAttachesExistingSession(t *testing.T) {
	srv, sockPath := newTestServer(t)
	go runLoopFor(t, srv, 300*time.Millisecond)

	dial := func() net.Conn {
		conn, err := net.Dial("unix", sockPath)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := proto.ClientHandshake(conn, proto.IdentifyPayload{Term: "xterm", Rows: 24, Cols: 80}); err != nil {
			t.Fatalf("handshake: %v", err)
		}
		return conn
	}

	c1 := dial()
	defer c1.Close()
	time.Sleep(30 * time.Millisecond)

	c2 := dial()
	defer c2.Close()
	time.Sleep(30 * time.Millisecond)

	if len(srv.Mux.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1 (both clients share the default session)", len(srv.Mux.Sessions))
	}
	if len(srv.clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(srv.clients))
	}
}

func TestCommandMessageGetsCommandExitReply(t *testing.T) {
	srv, sockPath := newTestServer(t)
	go runLoopFor(t, srv, 200*time.Millisecond)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := proto.ClientHandshake(conn, proto.IdentifyPayload{Term: "xterm", Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	if err := proto.WriteMessage(conn, proto.TypeCommand, proto.CommandPayload{Argv: []string{"new-session"}}, 0); err != nil {
		t.Fatalf("send command: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msg, err := proto.ReadMessage(conn)
	if err != nil {
		t.Fatalf("read command result: %v", err)
	}
	if msg.Header.Type != proto.TypeCommandExit {
		t.Fatalf("reply type = %v, want TypeCommandExit", msg.Header.Type)
	}
	var exit proto.CommandExitPayload
	if err := msg.Decode(&exit); err != nil {
		t.Fatal(err)
	}
	if exit.Error == "" {
		t.Error("expected a non-empty Error for an unregistered action")
	}
}
