// If you are AI: This file builds and parses RTMP control message bodies.
// Control messages ride on channel 2 with stream ID 0.

package rtmp

import (
	"encoding/binary"
	"io"
)

// ParseSetChunkSize parses a Set Chunk Size message body.
func ParseSetChunkSize(body []byte) (uint32, error) {
	if len(body) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	size := binary.BigEndian.Uint32(body[0:4])
	if size > MaxChunkSize {
		return 0, ErrChunkTooLarge
	}
	return size, nil
}

// ParseWindowAckSize parses a Window Acknowledgement Size message body.
func ParseWindowAckSize(body []byte) (uint32, error) {
	if len(body) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint32(body[0:4]), nil
}

// ParseUserControl parses the event type of a User Control message.
func ParseUserControl(body []byte) (uint16, []byte, error) {
	if len(body) < 2 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint16(body[0:2]), body[2:], nil
}

// CreateAck creates an Acknowledgement message body.
func CreateAck(sequence uint32) []byte {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, sequence)
	return body
}

// CreateWindowAckSize creates a Window Acknowledgement Size message body.
func CreateWindowAckSize(size uint32) []byte {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, size)
	return body
}

// CreatePingResponse creates a ping response echoing the request payload.
func CreatePingResponse(payload []byte) []byte {
	body := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(body[0:2], ControlPingResponse)
	copy(body[2:], payload)
	return body
}

// CreateSetBufferLength creates a Set Buffer Length user control body
// advertising the client buffer for the given stream.
func CreateSetBufferLength(streamID, bufferMS uint32) []byte {
	body := make([]byte, 10)
	binary.BigEndian.PutUint16(body[0:2], ControlSetBufferLength)
	binary.BigEndian.PutUint32(body[2:6], streamID)
	binary.BigEndian.PutUint32(body[6:10], bufferMS)
	return body
}
