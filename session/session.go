// If you are AI: This file implements the client session and its packet pump.
// The pump correlates invoke results by transaction id and dispatches
// server-initiated calls to registered handlers.

package session

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"rtmpcall/protocol/amf0"
	"rtmpcall/protocol/rtmp"
)

// ConnectTransactionID is the transaction id reserved for the implicit
// connect invoke. Session calls never reuse it.
const ConnectTransactionID = 1

// DefaultCallTimeout bounds Result when the caller passes no budget.
const DefaultCallTimeout = 30 * time.Second

var (
	ErrNotConnected = errors.New("session: not connected")
	ErrBadSWFHash   = errors.New("session: bad swfhash")
)

// State is the session lifecycle state.
type State int

const (
	StateUnconnected State = iota
	StateConnecting
	StateConnected
	StateStreaming
	StateClosed
)

// Session is a client session over one blocking connection. All methods
// must be called from a single goroutine; the pending results map and
// handler registry are unsynchronized by design.
type Session struct {
	log       zerolog.Logger
	transport Transport
	handlers  *Handlers

	// results stores decoded reply values the pump has seen but no
	// caller has consumed yet, keyed by transaction id.
	results map[int]amf0.Value

	// connectResult defers the connect reply packet: forwarding it to
	// the transport early would trigger stream creation before the
	// caller asked for it. Set once, consumed once.
	connectResult   *rtmp.Packet
	connectConsumed bool

	state State
}

// New creates a session for the URL and applies the options block.
func New(url string, opts *Options) (*Session, error) {
	logger := zerolog.Nop()
	if opts != nil && opts.Logger != nil {
		logger = *opts.Logger
	}

	s := NewWithTransport(rtmp.NewEngine(logger), logger)

	if err := s.applyOptions(opts); err != nil {
		return nil, err
	}
	if err := s.SetupURL(url); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithTransport creates a session over an existing transport. Used by
// tests and by callers that manage engine construction themselves.
func NewWithTransport(t Transport, logger zerolog.Logger) *Session {
	return &Session{
		log:       logger,
		transport: t,
		handlers:  NewHandlers(),
		results:   make(map[int]amf0.Value),
		state:     StateUnconnected,
	}
}

// SetOption sets one option for the session. Invalid keys or values are
// rejected by the transport without corrupting prior options.
func (s *Session) SetOption(key, value string) error {
	return s.transport.SetOption(key, value)
}

// SetupURL parses a URL, optionally with space-separated escaped
// key=value overrides appended.
func (s *Session) SetupURL(url string) error {
	return s.transport.SetupURL(url)
}

// Connect establishes the connection. A non-nil packet is sent in place
// of the default connect invoke. The returned handle resolves the
// connect reply under transaction id 1.
func (s *Session) Connect(custom *rtmp.Packet) (*Call, error) {
	if err := s.transport.Connect(custom); err != nil {
		return nil, err
	}
	s.state = StateConnecting
	return &Call{sess: s, txid: ConnectTransactionID}, nil
}

// Connected reports the transport's live connectivity flag.
func (s *Session) Connected() bool {
	return s.transport.IsConnected()
}

// State returns the session lifecycle state.
func (s *Session) State() State {
	return s.state
}

// CreateStream prepares the session for media streaming and returns a
// Stream. The deferred connect reply, if present, is handed to the
// transport exactly once before the stream is opened: the transport
// reacts to it by issuing its createStream sequence.
func (s *Session) CreateStream(seekMS int, writeable bool) (*Stream, error) {
	if writeable {
		s.transport.EnableWrite()
	}

	if s.connectResult != nil && !s.connectConsumed {
		pkt := s.connectResult
		s.connectResult = nil
		s.connectConsumed = true
		if err := s.transport.HandlePacket(pkt); err != nil {
			return nil, err
		}
	}

	if err := s.transport.ConnectStream(seekMS); err != nil {
		return nil, err
	}
	s.state = StateStreaming
	return newStream(s), nil
}

// CallOptions tweaks how an invoke packet is built. A zero field
// selects its default, so the 12-byte header format and chunk stream 0
// cannot be requested here; neither is meaningful for a client invoke.
type CallOptions struct {
	// Format selects the packet header size; default medium (7 bytes).
	Format byte
	// Channel is the chunk stream to send on; default 3.
	Channel uint32
	// Object is the command object slot; default null.
	Object amf0.Value
}

// Call invokes a method on the server with default packet options and
// returns a handle for its eventual result.
func (s *Session) Call(method string, args ...amf0.Value) (*Call, error) {
	return s.CallWithOptions(method, CallOptions{}, args...)
}

// CallWithOptions invokes a method on the server. The invoke is sent
// immediately; resolution is deferred to the returned handle. Each call
// allocates a transaction id strictly greater than all previous ones.
func (s *Session) CallWithOptions(method string, opts CallOptions, args ...amf0.Value) (*Call, error) {
	if !s.transport.IsConnected() {
		return nil, ErrNotConnected
	}

	txid := s.transport.InvokeCount() + 1
	s.transport.SetInvokeCount(txid)

	vals := append(amf0.Array{method, float64(txid), opts.Object}, args...)
	body, err := amf0.EncodeAll(vals...)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == 0 {
		format = rtmp.HeaderMedium
	}
	channel := opts.Channel
	if channel == 0 {
		channel = rtmp.ChannelInvoke
	}

	pkt := rtmp.NewInvokePacket(body, format, channel)
	if err := s.transport.SendPacket(pkt, false); err != nil {
		return nil, err
	}

	s.log.Debug().Str("method", method).Int("txid", txid).Msg("invoke sent")
	return &Call{sess: s, txid: txid}, nil
}

// RegisterRemoteCall registers a callback for a server-initiated call.
// Callbacks for the same method accumulate and run in registration
// order on the pump goroutine.
func (s *Session) RegisterRemoteCall(method string, fn Handler) {
	s.handlers.Register(method, fn)
}

// Close terminates the connection. A no-op when already disconnected.
func (s *Session) Close() error {
	s.state = StateClosed
	if !s.transport.IsConnected() {
		return nil
	}
	return s.transport.Close()
}

// processPackets is the invoke correlator: it reads packets until a
// result for the target transaction id is stored or the timeout budget
// is spent. Results for other transaction ids are retained for later
// pumps, server-initiated calls are dispatched inline, and everything
// the transport needs for its own bookkeeping is forwarded back, except
// the deferred connect reply. The timeout is checked once per
// iteration, so one slow read can overrun the nominal deadline.
func (s *Session) processPackets(target int, timeout time.Duration) (amf0.Value, bool, error) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	start := time.Now()

	for s.transport.IsConnected() {
		if _, ok := s.results[target]; ok {
			break
		}
		if time.Since(start) >= timeout {
			break
		}

		pkt, err := s.transport.ReadPacket()
		if err != nil {
			return nil, false, err
		}

		if !pkt.IsInvoke() {
			if err := s.transport.HandlePacket(pkt); err != nil {
				return nil, false, err
			}
			continue
		}

		vals, err := amf0.DecodeAll(pkt.Body)
		if err != nil || len(vals) < 3 {
			// Malformed invoke bodies are discarded, not fatal
			continue
		}
		method, ok := vals[0].(string)
		if !ok {
			continue
		}
		txFloat, ok := vals[1].(float64)
		if !ok {
			continue
		}
		txid := int(txFloat)
		args := vals[3:]

		if method == rtmp.CommandResult {
			var result amf0.Value
			if len(args) > 0 {
				result = args[0]
			}
			s.results[txid] = result
		} else {
			s.handlers.Dispatch(method, args...)
		}

		if txid == ConnectTransactionID {
			s.storeConnectResult(pkt)
		} else if err := s.transport.HandlePacket(pkt); err != nil {
			return nil, false, err
		}
	}

	if result, ok := s.results[target]; ok {
		delete(s.results, target)
		return result, true, nil
	}
	return nil, false, nil
}

// storeConnectResult caches the connect reply instead of forwarding it.
// The slot is set at most once; CreateStream consumes it.
func (s *Session) storeConnectResult(pkt *rtmp.Packet) {
	if s.connectResult == nil && !s.connectConsumed {
		s.connectResult = pkt
		if s.state == StateConnecting {
			s.state = StateConnected
		}
	}
}
