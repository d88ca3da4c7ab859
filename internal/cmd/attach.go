package cmd

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zmux/internal/attachcli"
	"zmux/internal/proto"
	"zmux/internal/socketdir"
)

func newAttachSessionCmd() *cobra.Command {
	var server, sessionName string
	c := &cobra.Command{
		Use:   "attach-session",
		Short: "Attach the current terminal to a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doAttachSession(server, sessionName)
		},
	}
	c.Flags().StringVarP(&server, "socket-name", "L", "default", "server instance name")
	c.Flags().StringVarP(&sessionName, "target-session", "t", "", "session to attach to (defaults to the server's \"main\" session)")
	return c
}

// doAttachSession dials the named server and hands the connection to
// internal/attachcli, grounded on the teacher's cmd/attach.go (doAttach),
// generalized to internal/proto's richer handshake/framing.
func doAttachSession(server, sessionName string) error {
	path, err := socketdir.Find(server)
	if err != nil {
		return fmt.Errorf("no server named %q: %w", server, err)
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("connect to %q: %w", server, err)
	}

	termName := os.Getenv("TERM")
	if termName == "" {
		termName = "xterm-256color"
	}
	caps := proto.CapUTF8 | proto.Cap256Color | proto.CapBracketedPaste
	if term.IsTerminal(int(os.Stdout.Fd())) {
		caps |= proto.CapTrueColor
	}

	return attachcli.Attach(conn, attachcli.Options{
		Term:     termName,
		Caps:     caps,
		AttachTo: sessionName,
		Cwd:      os.Getenv("PWD"),
	})
}
