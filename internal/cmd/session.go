package cmd

import (
	"fmt"
	"io"
	"net"

	"github.com/spf13/cobra"

	"zmux/internal/proto"
	"zmux/internal/socketdir"
	"zmux/internal/termstyle"
)

// dialServer connects to the named server instance's socket, starting
// the daemon is explicitly out of scope here: "zmux new-session" expects
// a server to already be listening, same as the teacher's "send"/"attach"
// expected an already-running agent daemon.
func dialServer(name string) (net.Conn, error) {
	path, err := socketdir.Find(name)
	if err != nil {
		return nil, fmt.Errorf("no server named %q: %w", name, err)
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to %q: %w", name, err)
	}
	return conn, nil
}

// sendCommand performs the identify/ready handshake on a fresh connection
// to server, then sends argv as a single Command message and reports its
// CommandExit result to out. Per SPEC_FULL.md §2, the subcommand's only
// job is this argv -> Command marshalling; the registered command's own
// behaviour is out of scope.
func sendCommand(out io.Writer, server string, argv []string) error {
	conn, err := dialServer(server)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := proto.ClientHandshake(conn, proto.IdentifyPayload{Term: "dumb"}); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	if err := proto.WriteMessage(conn, proto.TypeCommand, proto.CommandPayload{Argv: argv}, 0); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	msg, err := proto.ReadMessage(conn)
	if err != nil {
		return fmt.Errorf("read command result: %w", err)
	}
	if msg.Header.Type != proto.TypeCommandExit {
		return fmt.Errorf("unexpected reply type %d", msg.Header.Type)
	}
	var exit proto.CommandExitPayload
	if err := msg.Decode(&exit); err != nil {
		return err
	}
	if exit.Error != "" {
		return fmt.Errorf("%s", exit.Error)
	}
	fmt.Fprintf(out, "%s %s\n", termstyle.GreenDot(), argv[0])
	return nil
}

func newNewSessionCmd() *cobra.Command {
	var server, sessionName string
	c := &cobra.Command{
		Use:   "new-session",
		Short: "Create a new session on a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := append([]string{"new-session"}, args...)
			if sessionName != "" {
				argv = append(argv, "-s", sessionName)
			}
			return sendCommand(cmd.OutOrStdout(), server, argv)
		},
	}
	c.Flags().StringVarP(&server, "socket-name", "L", "default", "server instance name")
	c.Flags().StringVarP(&sessionName, "session-name", "s", "", "name for the new session")
	return c
}

func newKillServerCmd() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "kill-server",
		Short: "Terminate a running server and every session it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd.OutOrStdout(), server, []string{"kill-server"})
		},
	}
	c.Flags().StringVarP(&server, "socket-name", "L", "default", "server instance name")
	return c
}

func newListSessionsCmd() *cobra.Command {
	var server, format string
	c := &cobra.Command{
		Use:   "list-sessions",
		Short: "List the sessions a running server holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := []string{"list-sessions"}
			if format != "" {
				argv = append(argv, "-o", format)
			}
			return sendCommand(cmd.OutOrStdout(), server, argv)
		},
	}
	c.Flags().StringVarP(&server, "socket-name", "L", "default", "server instance name")
	c.Flags().StringVarP(&format, "output", "o", "", "output format (text|yaml)")
	return c
}
