package proto

// CapFlags is the terminal-capability bitset an Identify message carries,
// per spec.md §6: "256-colour support, truecolour, UTF-8, focus
// reporting, bracketed paste, mouse encodings (X10, 1005, 1006),
// title-setting, alt-buffer, and sixel."
type CapFlags uint32

const (
	Cap256Color CapFlags = 1 << iota
	CapTrueColor
	CapUTF8
	CapFocusReporting
	CapBracketedPaste
	CapMouseX10
	CapMouse1005
	CapMouse1006
	CapTitleSetting
	CapAltScreen
	CapSixel
)

// IdentifyPayload is the client -> server Identify message.
type IdentifyPayload struct {
	Term     string            `json:"term"`
	Rows     int               `json:"rows"`
	Cols     int               `json:"cols"`
	Env      map[string]string `json:"env,omitempty"`
	Cwd      string            `json:"cwd"`
	Caps     CapFlags          `json:"caps"`
	AttachTo string            `json:"attach_to,omitempty"` // session name, if attaching
}

// ReadyPayload acknowledges a completed handshake.
type ReadyPayload struct {
	SessionName string `json:"session_name,omitempty"`
}

// CommandPayload is the client -> server Command message: argv of a
// registered command. Implementations of individual commands are out of
// scope (per spec.md's Non-goals); this only carries the name+args.
type CommandPayload struct {
	Argv []string `json:"argv"`
}

// CommandExitPayload reports a command's completion.
type CommandExitPayload struct {
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
}

// StreamPayload carries a raw byte block for Stdin/Stdout/Stderr
// messages; Data is JSON-encoded as a base64 string by encoding/json's
// default []byte handling.
type StreamPayload struct {
	Data []byte `json:"data"`
}

// ResizePayload is the client -> server new physical size in cells.
// PixelWidth/PixelHeight follow spec.md §6's winsize rule: the cell count
// multiplied by the client's advertised cell-pixel metric, or zero.
type ResizePayload struct {
	Rows        int `json:"rows"`
	Cols        int `json:"cols"`
	PixelWidth  int `json:"pixel_width,omitempty"`
	PixelHeight int `json:"pixel_height,omitempty"`
}

// DetachReason enumerates why the server is detaching a client.
type DetachReason int

const (
	DetachUnspecified DetachReason = iota
	DetachRequested                // client ran a detach command
	DetachSessionKilled
	DetachAnotherClientExclusive
)

// DetachPayload is the server -> client Detach message.
type DetachPayload struct {
	Reason DetachReason `json:"reason"`
}

// ShutdownPayload is the server -> client Shutdown message.
type ShutdownPayload struct {
	Reason string `json:"reason,omitempty"`
}

// VersionPayload is sent by the server as the first message on a new
// connection (spec.md §4.5's handshake: "after accept, the server emits
// Version").
type VersionPayload struct {
	Version uint32 `json:"version"`
}
