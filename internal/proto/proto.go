// Package proto implements the client/server wire protocol described in
// SPEC_FULL.md §4.5/§6 (spec.md): a fixed binary header followed by a
// JSON payload and an optional set of out-of-band file descriptors,
// carried over a Unix-domain stream socket.
package proto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Version is this build's protocol version. A peer announcing a higher
// version is marked bad per spec.md §4.5 ("mismatch -> bad peer").
const Version uint32 = 1

// MaxPayload bounds a single message's payload, mirroring the teacher's
// frame-size sanity limit in session/message/protocol.go (there 10MiB for
// a single JSON blob; kept the same here since payloads stay JSON-sized
// even though large Stdout/Stderr blocks are chunked by the sender rather
// than sent as one message).
const MaxPayload = 10 * 1024 * 1024

// Type tags a message's payload shape.
type Type uint32

const (
	TypeVersion Type = iota + 1
	TypeIdentify
	TypeReady
	TypeCommand
	TypeCommandExit
	TypeStdin
	TypeStdout
	TypeStderr
	TypeResize
	TypeDetach
	TypeShutdown
)

// Header is the fixed, four-field preamble spec.md §6 specifies verbatim:
// "{ u32 type; u32 peer_version; u32 payload_len; u32 fd_count; }".
type Header struct {
	Type        Type
	PeerVersion uint32
	PayloadLen  uint32
	FDCount     uint32
}

const headerSize = 16

func (h Header) marshal() []byte {
	b := make([]byte, headerSize)
	binary.BigEndian.PutUint32(b[0:4], uint32(h.Type))
	binary.BigEndian.PutUint32(b[4:8], h.PeerVersion)
	binary.BigEndian.PutUint32(b[8:12], h.PayloadLen)
	binary.BigEndian.PutUint32(b[12:16], h.FDCount)
	return b
}

func unmarshalHeader(b []byte) Header {
	return Header{
		Type:        Type(binary.BigEndian.Uint32(b[0:4])),
		PeerVersion: binary.BigEndian.Uint32(b[4:8]),
		PayloadLen:  binary.BigEndian.Uint32(b[8:12]),
		FDCount:     binary.BigEndian.Uint32(b[12:16]),
	}
}

// Message is one decoded wire message: the header plus its raw JSON
// payload bytes, not yet unmarshalled into a concrete payload type.
type Message struct {
	Header  Header
	Payload []byte
}

// WriteMessage encodes type+payload and writes the framed message to w.
// fdCount records how many descriptors the caller is passing out-of-band
// (over the accompanying SCM_RIGHTS control message on a Unix socket);
// proto itself does not perform fd passing, since that requires a
// *net.UnixConn, not a generic io.Writer.
func WriteMessage(w io.Writer, typ Type, payload any, fdCount int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("proto: marshal %v payload: %w", typ, err)
	}
	if len(body) > MaxPayload {
		return fmt.Errorf("proto: payload of %d bytes exceeds max %d", len(body), MaxPayload)
	}
	h := Header{Type: typ, PeerVersion: Version, PayloadLen: uint32(len(body)), FDCount: uint32(fdCount)}
	if _, err := w.Write(h.marshal()); err != nil {
		return fmt.Errorf("proto: write header: %w", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("proto: write payload: %w", err)
		}
	}
	return nil
}

// ReadMessage reads one framed message from r.
func ReadMessage(r io.Reader) (*Message, error) {
	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, err
	}
	h := unmarshalHeader(hb)
	if h.PayloadLen > MaxPayload {
		return nil, fmt.Errorf("proto: payload of %d bytes exceeds max %d", h.PayloadLen, MaxPayload)
	}
	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Message{Header: h, Payload: payload}, nil
}

// Decode unmarshals m's payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}

// BadPeer reports whether a received message's protocol version is newer
// than this build understands.
func BadPeer(h Header) bool { return h.PeerVersion > Version }
