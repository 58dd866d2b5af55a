// If you are AI: This file defines the Packet type exchanged with the engine.
// A Packet is one complete RTMP message after chunk reassembly.

package rtmp

// Packet is one complete RTMP message. Body is the reassembled payload;
// Format and Channel control how the packet is chunked on send.
type Packet struct {
	Type      byte
	Format    byte
	Channel   uint32
	Timestamp uint32
	StreamID  uint32
	Body      []byte
}

// NewInvokePacket wraps an encoded AMF0 invoke body in a packet with the
// given header format and chunk stream channel.
func NewInvokePacket(body []byte, format byte, channel uint32) *Packet {
	return &Packet{
		Type:    MessageTypeInvoke,
		Format:  format,
		Channel: channel,
		Body:    body,
	}
}

// IsInvoke reports whether the packet carries an AMF0 command body.
func (p *Packet) IsInvoke() bool {
	return p.Type == MessageTypeInvoke
}
