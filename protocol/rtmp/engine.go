// If you are AI: This file implements the client-side transport engine.
// The engine owns the socket, handshake, chunking, and protocol bookkeeping;
// the session layer above it correlates invokes and dispatches callbacks.

package rtmp

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"rtmpcall/protocol/amf0"
)

var (
	ErrConnect      = errors.New("failed to connect")
	ErrRead         = errors.New("failed to read RTMP packet")
	ErrSend         = errors.New("failed to send RTMP packet")
	ErrStream       = errors.New("failed to start RTMP playback")
	ErrNotConnected = errors.New("not connected")
)

// Engine is a client-side RTMP transport. It speaks the handshake and
// chunk protocol, answers control messages, and drives the server-side
// command sequence (connect result -> createStream -> play/publish).
//
// The engine is single-threaded: all methods must be called from the
// goroutine that owns the session.
type Engine struct {
	log    zerolog.Logger
	link   link
	conn   netConn
	br     *bufio.Reader
	bw     *bufio.Writer
	reader *chunkReader

	// last packet sent per channel, for outgoing header compression
	prevOut map[uint32]*Packet
	// engine-issued invokes awaiting a _result, by transaction id
	pendingInvokes map[int]string

	connected    bool
	playing      bool
	streamDone   bool
	writeEnabled bool
	invokeCount  int
	streamID     uint32
	seekMS       int

	outChunkSize   uint32
	windowAckSize  uint32
	bytesIn        uint32
	bytesInLastAck uint32
}

// NewEngine allocates an engine with default link parameters. The logger
// may be a no-op logger for library use.
func NewEngine(log zerolog.Logger) *Engine {
	e := &Engine{log: log}
	e.Init()
	return e
}

// Init resets the engine to its post-allocation state. An open connection
// is closed first.
func (e *Engine) Init() {
	if e.conn != nil {
		e.conn.Close()
	}
	e.link = newLink()
	e.conn = nil
	e.br = nil
	e.bw = nil
	e.reader = newChunkReader()
	e.prevOut = make(map[uint32]*Packet)
	e.pendingInvokes = make(map[int]string)
	e.connected = false
	e.playing = false
	e.streamDone = false
	e.writeEnabled = false
	e.invokeCount = 0
	e.streamID = 0
	e.seekMS = 0
	e.outChunkSize = DefaultChunkSize
	e.windowAckSize = 0
	e.bytesIn = 0
	e.bytesInLastAck = 0
}

// SetupURL parses the URL into the link target. Space-separated key=value
// overrides appended to the URL are applied as options.
func (e *Engine) SetupURL(raw string) error {
	urlPart, opts := SplitOptions(raw)
	target, err := ParseURL(urlPart)
	if err != nil {
		return err
	}

	playpathSet := e.link.target.Playpath != ""
	appSet := e.link.target.App != ""
	if playpathSet {
		target.Playpath = e.link.target.Playpath
	}
	if appSet {
		target.App = e.link.target.App
	}
	e.link.target = target

	for _, opt := range opts {
		key, value, err := ParseOption(opt)
		if err != nil {
			return err
		}
		if err := e.SetOption(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetOption applies one option key/value pair. Unknown keys and values
// that do not parse for the key's type are rejected; previously applied
// options are unaffected by a failed call.
func (e *Engine) SetOption(key, value string) error {
	return e.link.setOption(key, value)
}

// SetSWFHash records the SWF verification digest and decompressed size.
func (e *Engine) SetSWFHash(digest []byte, size int) {
	e.link.swfHash = append([]byte(nil), digest...)
	e.link.swfSize = size
}

// IsConnected reports whether the transport link is up.
func (e *Engine) IsConnected() bool {
	return e.connected
}

// InvokeCount returns the transaction id counter.
func (e *Engine) InvokeCount() int {
	return e.invokeCount
}

// SetInvokeCount overrides the transaction id counter.
func (e *Engine) SetInvokeCount(n int) {
	e.invokeCount = n
}

// nextInvoke increments and returns the transaction id counter.
func (e *Engine) nextInvoke() int {
	e.invokeCount++
	return e.invokeCount
}

// EnableWrite switches the engine into publish mode. Must be called
// before the stream is created.
func (e *Engine) EnableWrite() {
	e.writeEnabled = true
}

// StreamID returns the message stream id allocated by createStream.
func (e *Engine) StreamID() uint32 {
	return e.streamID
}

// Connect dials the server, runs the handshake, and sends the connect
// invoke. A non-nil custom packet is sent in place of the default
// connect command. Transaction id 1 belongs to this invoke.
func (e *Engine) Connect(custom *Packet) error {
	if e.connected {
		return fmt.Errorf("%w: already connected", ErrConnect)
	}

	if e.link.swfVfy && e.link.swfURL != "" && len(e.link.swfHash) == 0 {
		digest, size, err := HashSWF(e.link.swfURL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConnect, err)
		}
		e.SetSWFHash(digest, size)
	}

	timeout := time.Duration(e.link.timeoutS) * time.Second
	conn, err := dial(e.link.target, e.link.socks, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	if err := performClientHandshake(conn); err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	e.conn = conn
	e.br = bufio.NewReader(conn)
	e.bw = bufio.NewWriter(conn)
	e.connected = true
	e.log.Debug().
		Str("host", e.link.target.Host).
		Int("port", e.link.target.Port).
		Str("app", e.link.target.App).
		Msg("RTMP link established")

	pkt := custom
	if pkt == nil {
		body, err := e.connectBody()
		if err != nil {
			e.Close()
			return fmt.Errorf("%w: %v", ErrConnect, err)
		}
		pkt = NewInvokePacket(body, HeaderLarge, ChannelInvoke)
	}

	if err := e.SendPacket(pkt, true); err != nil {
		e.Close()
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	// The connect invoke owns transaction id 1 whatever the packet said.
	e.invokeCount = 1
	e.pendingInvokes[1] = "connect"
	return nil
}

// ReadPacket reads chunks until one complete packet is reassembled.
// Partial chunks are accumulated internally; callers always see whole
// packets. A transport failure is fatal for the connection.
func (e *Engine) ReadPacket() (*Packet, error) {
	if !e.connected || e.conn == nil {
		return nil, ErrNotConnected
	}

	deadline := time.Now().Add(time.Duration(e.link.timeoutS) * time.Second)
	if err := e.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	for {
		csID, err := e.reader.readChunk(e.br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
		pkt, ok := e.reader.complete(csID)
		if !ok {
			continue
		}

		e.bytesIn += uint32(len(pkt.Body))
		if err := e.maybeSendAck(); err != nil {
			return nil, fmt.Errorf("%w: acknowledgement: %v", ErrRead, err)
		}
		return pkt, nil
	}
}

// SendPacket writes the packet as chunks and flushes. When queue is set
// and the packet is an invoke, the method is remembered so the matching
// _result can be correlated by HandlePacket.
func (e *Engine) SendPacket(p *Packet, queue bool) error {
	if !e.connected || e.conn == nil {
		return ErrNotConnected
	}

	if queue && p.IsInvoke() {
		if vals, err := amf0.DecodeAll(p.Body); err == nil && len(vals) >= 2 {
			if method, ok := vals[0].(string); ok {
				if txid, ok := vals[1].(float64); ok {
					e.pendingInvokes[int(txid)] = method
				}
			}
		}
	}

	if err := writePacket(e.bw, p, e.outChunkSize, e.prevOut[p.Channel]); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	e.prevOut[p.Channel] = p

	if err := e.bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// Close terminates the connection. Safe to call repeatedly.
func (e *Engine) Close() error {
	if e.conn == nil {
		e.connected = false
		return nil
	}
	err := e.conn.Close()
	e.conn = nil
	e.br = nil
	e.bw = nil
	e.connected = false
	e.playing = false
	return err
}
