// If you are AI: This file defines the transport boundary the session depends on.
// The production implementation is protocol/rtmp.Engine; tests use a stub.

package session

import (
	"rtmpcall/protocol/rtmp"
)

// Transport is the lower-level engine owning the socket, handshake, and
// chunk framing. The session only correlates invokes and dispatches
// callbacks; everything protocol-maintenance shaped is forwarded back
// through HandlePacket.
type Transport interface {
	// SetupURL parses a URL, optionally carrying space-separated
	// escaped key=value option overrides.
	SetupURL(url string) error
	// SetOption applies one option; unknown keys or untypable values
	// are rejected without corrupting prior options.
	SetOption(key, value string) error
	// SetSWFHash records the SWF verification digest and size.
	SetSWFHash(digest []byte, size int)
	// Connect establishes the link and sends the connect invoke, or a
	// caller-supplied packet in its place.
	Connect(custom *rtmp.Packet) error
	// IsConnected reports the live connectivity flag.
	IsConnected() bool
	// ReadPacket blocks until one complete packet is reassembled.
	ReadPacket() (*rtmp.Packet, error)
	// SendPacket writes a packet; queue marks engine-tracked invokes.
	SendPacket(p *rtmp.Packet, queue bool) error
	// HandlePacket performs protocol bookkeeping the packet requires.
	HandlePacket(p *rtmp.Packet) error
	// EnableWrite switches the engine into publish mode.
	EnableWrite()
	// ConnectStream opens the stream at the given seek offset.
	ConnectStream(seekMS int) error
	// InvokeCount and SetInvokeCount expose the transaction id counter.
	InvokeCount() int
	SetInvokeCount(n int)
	// StreamID returns the message stream allocated by createStream.
	StreamID() uint32
	// Close terminates the connection; safe to call repeatedly.
	Close() error
}

// compile-time check that the production engine satisfies the boundary
var _ Transport = (*rtmp.Engine)(nil)
