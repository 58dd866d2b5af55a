// If you are AI: This file provides the scripted transport used by the
// session tests.

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"rtmpcall/protocol/amf0"
	"rtmpcall/protocol/rtmp"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

var errInboxEmpty = errors.New("stub: inbox empty")

// sentRecord remembers one SendPacket call.
type sentRecord struct {
	pkt   *rtmp.Packet
	queue bool
}

// stubTransport is a scripted Transport. ReadPacket pops from inbox;
// when the inbox runs dry it consults filler, then fails.
type stubTransport struct {
	connected bool
	count     int
	streamID  uint32

	inbox     []*rtmp.Packet
	filler    func() *rtmp.Packet
	readDelay time.Duration
	readErr   error
	readCalls int

	sent         []sentRecord
	handled      []*rtmp.Packet
	writeEnabled bool
	streamCalls  int
}

func (s *stubTransport) SetupURL(url string) error { return nil }
func (s *stubTransport) SetOption(key, value string) error { return nil }
func (s *stubTransport) SetSWFHash(digest []byte, size int) {}

func (s *stubTransport) Connect(custom *rtmp.Packet) error {
	s.connected = true
	s.count = 1
	return nil
}

func (s *stubTransport) IsConnected() bool { return s.connected }

func (s *stubTransport) ReadPacket() (*rtmp.Packet, error) {
	s.readCalls++
	if s.readDelay > 0 {
		time.Sleep(s.readDelay)
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	if len(s.inbox) > 0 {
		pkt := s.inbox[0]
		s.inbox = s.inbox[1:]
		return pkt, nil
	}
	if s.filler != nil {
		return s.filler(), nil
	}
	return nil, errInboxEmpty
}

func (s *stubTransport) SendPacket(p *rtmp.Packet, queue bool) error {
	s.sent = append(s.sent, sentRecord{pkt: p, queue: queue})
	return nil
}

func (s *stubTransport) HandlePacket(p *rtmp.Packet) error {
	s.handled = append(s.handled, p)
	return nil
}

func (s *stubTransport) EnableWrite() { s.writeEnabled = true }

func (s *stubTransport) ConnectStream(seekMS int) error {
	s.streamCalls++
	return nil
}

func (s *stubTransport) InvokeCount() int { return s.count }
func (s *stubTransport) SetInvokeCount(n int) { s.count = n }
func (s *stubTransport) StreamID() uint32 { return s.streamID }

func (s *stubTransport) Close() error {
	s.connected = false
	return nil
}

// invokePkt builds an invoke packet from a flat value sequence.
func invokePkt(t *testing.T, vals ...amf0.Value) *rtmp.Packet {
	t.Helper()
	body, err := amf0.EncodeAll(vals...)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	return rtmp.NewInvokePacket(body, rtmp.HeaderLarge, rtmp.ChannelInvoke)
}

// resultPkt builds a _result invoke for the transaction id.
func resultPkt(t *testing.T, txid int, value amf0.Value) *rtmp.Packet {
	t.Helper()
	return invokePkt(t, rtmp.CommandResult, float64(txid), nil, value)
}

// ackPkt builds a non-invoke packet the pump must forward and skip.
func ackPkt() *rtmp.Packet {
	return &rtmp.Packet{
		Type:    rtmp.MessageTypeAck,
		Format:  rtmp.HeaderLarge,
		Channel: rtmp.ChannelControl,
		Body:    rtmp.CreateAck(0),
	}
}

// connectedSession returns a session over a stub that has already gone
// through Connect, so call transaction ids start at 2.
func connectedSession(t *testing.T) (*Session, *stubTransport, *Call) {
	t.Helper()
	stub := &stubTransport{}
	s := NewWithTransport(stub, nopLogger())
	connectCall, err := s.Connect(nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return s, stub, connectCall
}
