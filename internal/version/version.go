// Package version holds the zmux release version and wire protocol version.
package version

// Version is the zmux release version.
const Version = "0.1.0"

// Protocol is the client/server wire protocol version (see internal/proto).
// Bumped whenever a message's wire shape changes incompatibly.
const Protocol uint32 = 1
