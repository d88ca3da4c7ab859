package proto

import (
	"fmt"
	"io"
)

// ErrBadPeer is returned by the handshake helpers when the peer's
// protocol version is newer than this build supports.
var ErrBadPeer = fmt.Errorf("proto: peer speaks a newer protocol version")

// ServerHandshake performs the server side of the handshake described in
// spec.md §4.5: emit Version, require the client's next message to be
// Identify, then reply Ready. Returns the decoded Identify payload.
func ServerHandshake(rw io.ReadWriter) (*IdentifyPayload, error) {
	if err := WriteMessage(rw, TypeVersion, VersionPayload{Version: Version}, 0); err != nil {
		return nil, err
	}

	msg, err := ReadMessage(rw)
	if err != nil {
		return nil, fmt.Errorf("proto: read identify: %w", err)
	}
	if BadPeer(msg.Header) {
		return nil, ErrBadPeer
	}
	if msg.Header.Type != TypeIdentify {
		return nil, fmt.Errorf("proto: expected Identify, got type %d", msg.Header.Type)
	}
	var id IdentifyPayload
	if err := msg.Decode(&id); err != nil {
		return nil, fmt.Errorf("proto: decode identify: %w", err)
	}

	if err := WriteMessage(rw, TypeReady, ReadyPayload{SessionName: id.AttachTo}, 0); err != nil {
		return nil, err
	}
	return &id, nil
}

// ClientHandshake performs the client side: read the server's Version,
// send Identify, read Ready.
func ClientHandshake(rw io.ReadWriter, id IdentifyPayload) (*ReadyPayload, error) {
	msg, err := ReadMessage(rw)
	if err != nil {
		return nil, fmt.Errorf("proto: read version: %w", err)
	}
	if msg.Header.Type != TypeVersion {
		return nil, fmt.Errorf("proto: expected Version, got type %d", msg.Header.Type)
	}
	var v VersionPayload
	if err := msg.Decode(&v); err != nil {
		return nil, err
	}
	if v.Version > Version {
		return nil, ErrBadPeer
	}

	if err := WriteMessage(rw, TypeIdentify, id, 0); err != nil {
		return nil, err
	}

	reply, err := ReadMessage(rw)
	if err != nil {
		return nil, fmt.Errorf("proto: read ready: %w", err)
	}
	if reply.Header.Type != TypeReady {
		return nil, fmt.Errorf("proto: expected Ready, got type %d", reply.Header.Type)
	}
	var ready ReadyPayload
	if err := reply.Decode(&ready); err != nil {
		return nil, err
	}
	return &ready, nil
}
