// If you are AI: This file defines RTMP protocol constants and message types.

package rtmp

// RTMP version constant
const RTMPVersion = 3

// Default RTMP port
const DefaultPort = 1935

// Handshake sizes
const (
	HandshakeC0C1Size = 1537 // C0 (1 byte) + C1 (1536 bytes)
	HandshakeS0S1Size = 1537 // S0 (1 byte) + S1 (1536 bytes)
	HandshakeS2Size   = 1536 // S2 (1536 bytes)
	HandshakeC2Size   = 1536 // C2 (1536 bytes)
)

// Default chunk size
const DefaultChunkSize = 128

// Maximum chunk size
const MaxChunkSize = 16777215 // 2^24 - 1

// Message type IDs
const (
	MessageTypeSetChunkSize     = 1
	MessageTypeAbortMessage     = 2
	MessageTypeAck              = 3
	MessageTypeUserCtrl         = 4
	MessageTypeWinAckSize       = 5
	MessageTypeSetPeerBandwidth = 6
	MessageTypeAudio            = 8
	MessageTypeVideo            = 9
	MessageTypeDataAMF0         = 18
	MessageTypeSharedObjectAMF0 = 19
	MessageTypeCommandAMF0      = 20
	MessageTypeAggregate        = 22
)

// MessageTypeInvoke is the invocation packet type carrying AMF0 commands.
const MessageTypeInvoke = MessageTypeCommandAMF0

// Chunk basic header format types. These double as packet header sizes:
// a packet sent with HeaderLarge starts with an 11-byte fmt 0 header, and
// so on down to HeaderMinimum which reuses the previous header entirely.
const (
	HeaderLarge   = 0 // 11-byte header
	HeaderMedium  = 1 // 7-byte header
	HeaderSmall   = 2 // 3-byte header
	HeaderMinimum = 3 // 0-byte header
)

// Well-known chunk stream channels used by clients.
const (
	ChannelControl = 0x02 // protocol control messages
	ChannelInvoke  = 0x03 // connect, createStream, releaseStream
	ChannelSource  = 0x08 // play, publish, media
)

// User control event types
const (
	ControlStreamBegin      = 0
	ControlStreamEOF        = 1
	ControlStreamDry        = 2
	ControlSetBufferLength  = 3
	ControlStreamIsRecorded = 4
	ControlPingRequest      = 6
	ControlPingResponse     = 7
)

// Session defaults matching librtmp behavior.
const (
	DefaultBufferMS       = 30000 // client buffer advertised to the server
	DefaultTimeoutSeconds = 120   // read timeout before the link is dead
	DefaultFlashVersion   = "LNX 10,0,32,18"
	DefaultWindowAckSize  = 2500000
)

// Capability values advertised in the connect command object.
const (
	capAudioCodecs   = 3191.0
	capVideoCodecs   = 252.0
	capVideoFunction = 1.0
	capCapabilities  = 15.0
)
