// If you are AI: This file tests the media stream's FLV output and EOF
// handling.

package session

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"rtmpcall/protocol/amf0"
	"rtmpcall/protocol/flv"
	"rtmpcall/protocol/rtmp"
)

func audioPkt(timestamp uint32, body []byte) *rtmp.Packet {
	return &rtmp.Packet{
		Type:      rtmp.MessageTypeAudio,
		Format:    rtmp.HeaderLarge,
		Channel:   rtmp.ChannelSource,
		Timestamp: timestamp,
		StreamID:  1,
		Body:      body,
	}
}

func eofPkt() *rtmp.Packet {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body[0:2], rtmp.ControlStreamEOF)
	return &rtmp.Packet{
		Type:    rtmp.MessageTypeUserCtrl,
		Format:  rtmp.HeaderLarge,
		Channel: rtmp.ChannelControl,
		Body:    body,
	}
}

func openStream(t *testing.T) (*Stream, *stubTransport) {
	t.Helper()
	s, stub, _ := connectedSession(t)
	stream, err := s.CreateStream(0, false)
	if err != nil {
		t.Fatalf("CreateStream: %v", err)
	}
	return stream, stub
}

// TestStreamReadFLV verifies Read produces the FLV file header followed
// by tags carrying the media payloads untouched, then io.EOF.
func TestStreamReadFLV(t *testing.T) {
	stream, stub := openStream(t)

	payload := []byte{0xaf, 0x01, 0x21, 0x10, 0x04}
	stub.inbox = append(stub.inbox, audioPkt(80, payload), eofPkt())

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(data) < flv.FLVHeaderSize+4 {
		t.Fatalf("only %d bytes read", len(data))
	}
	if string(data[0:3]) != flv.FLVSignature {
		t.Errorf("signature = %q", data[0:3])
	}
	if binary.BigEndian.Uint32(data[9:13]) != 0 {
		t.Error("PreviousTagSize0 not zero")
	}

	tag := data[13:]
	if tag[0] != flv.TagTypeAudio {
		t.Errorf("tag type = %d", tag[0])
	}
	ts := uint32(tag[4])<<16 | uint32(tag[5])<<8 | uint32(tag[6])
	if ts != 80 {
		t.Errorf("tag timestamp = %d", ts)
	}
	if !bytes.Equal(tag[11:11+len(payload)], payload) {
		t.Error("payload not passed through untouched")
	}
}

// TestStreamReadPacketForwardsNonMedia verifies protocol packets go to
// the transport's handler and never surface as media.
func TestStreamReadPacketForwardsNonMedia(t *testing.T) {
	stream, stub := openStream(t)
	stub.handled = nil // CreateStream may have forwarded packets

	stub.inbox = append(stub.inbox, ackPkt(), audioPkt(0, []byte{1}))

	pkt, err := stream.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if pkt.Type != rtmp.MessageTypeAudio {
		t.Errorf("type = %d, want audio", pkt.Type)
	}
	if len(stub.handled) != 1 || stub.handled[0].Type != rtmp.MessageTypeAck {
		t.Errorf("forwarded = %v", stub.handled)
	}
}

func TestStreamEOFOnStatus(t *testing.T) {
	stream, stub := openStream(t)

	done := invokePkt(t, rtmp.CommandOnStatus, float64(0), nil,
		amf0.Object{"level": "status", "code": "NetStream.Play.Stop"})
	stub.inbox = append(stub.inbox, done)

	if _, err := stream.ReadPacket(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	// EOF is sticky
	if _, err := stream.ReadPacket(); err != io.EOF {
		t.Fatalf("second err = %v, want io.EOF", err)
	}
}

func TestStreamWrite(t *testing.T) {
	s, stub, _ := connectedSession(t)
	stub.streamID = 5
	stream, err := s.CreateStream(0, true)
	if err != nil {
		t.Fatalf("CreateStream: %v", err)
	}

	sentBefore := len(stub.sent)
	if err := stream.Write(rtmp.MessageTypeVideo, 120, []byte{0x17, 0x00}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(stub.sent) != sentBefore+1 {
		t.Fatalf("sent %d packets", len(stub.sent)-sentBefore)
	}
	pkt := stub.sent[len(stub.sent)-1].pkt
	if pkt.Type != rtmp.MessageTypeVideo {
		t.Errorf("type = %d", pkt.Type)
	}
	if pkt.StreamID != 5 {
		t.Errorf("stream id = %d, want 5", pkt.StreamID)
	}
	if pkt.Timestamp != 120 {
		t.Errorf("timestamp = %d", pkt.Timestamp)
	}
}

func TestStreamCloseClosesSession(t *testing.T) {
	stream, stub := openStream(t)

	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if stub.connected {
		t.Error("transport still connected")
	}
	if _, err := stream.ReadPacket(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF after close", err)
	}
}
