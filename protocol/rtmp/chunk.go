// If you are AI: This file implements RTMP chunk parsing and reassembly.
// The engine is single-threaded per connection, so no locking is needed here.

package rtmp

import (
	"encoding/binary"
	"errors"
	"io"
)

var ErrChunkTooLarge = errors.New("chunk size too large")

// chunkStream tracks reassembly state for one chunk stream ID.
// Header fields persist between chunks so compressed headers (fmt 1-3)
// can inherit from the previous message on the same stream.
type chunkStream struct {
	messageType       byte
	messageLength     uint32
	timestamp         uint32
	timestampDelta    uint32
	extendedTimestamp uint32
	streamID          uint32
	buffer            []byte
	bytesRead         uint32
	full              bool
}

// chunkReader parses RTMP chunks and reassembles complete messages.
type chunkReader struct {
	streams   map[uint32]*chunkStream
	chunkSize uint32
}

// newChunkReader creates a chunk reader with the default inbound chunk size.
func newChunkReader() *chunkReader {
	return &chunkReader{
		streams:   make(map[uint32]*chunkStream),
		chunkSize: DefaultChunkSize,
	}
}

// setChunkSize updates the inbound chunk size after a Set Chunk Size message.
func (cr *chunkReader) setChunkSize(size uint32) {
	cr.chunkSize = size
}

// readChunk reads one chunk from the reader and appends it to the owning
// chunk stream's reassembly buffer. Returns the chunk stream ID.
func (cr *chunkReader) readChunk(r io.Reader) (uint32, error) {
	// Read basic header (first byte)
	var basicHeader [1]byte
	if _, err := io.ReadFull(r, basicHeader[:]); err != nil {
		return 0, err
	}

	// Extract format and chunk stream ID
	format := (basicHeader[0] >> 6) & 0x03
	csID := uint32(basicHeader[0] & 0x3F)

	// Extended chunk stream ID (if csID == 0 or 1)
	if csID == 0 {
		var extID [1]byte
		if _, err := io.ReadFull(r, extID[:]); err != nil {
			return 0, err
		}
		csID = uint32(extID[0]) + 64
	} else if csID == 1 {
		var extID uint16
		if err := binary.Read(r, binary.BigEndian, &extID); err != nil {
			return 0, err
		}
		csID = uint32(extID) + 64
	}

	cs, exists := cr.streams[csID]
	if !exists {
		cs = &chunkStream{}
		cr.streams[csID] = cs
	}

	if err := cr.readMessageHeader(r, cs, format); err != nil {
		return csID, err
	}

	// Read chunk payload
	payloadSize := cr.chunkSize
	if cs.bytesRead+payloadSize > cs.messageLength {
		payloadSize = cs.messageLength - cs.bytesRead
	}

	if payloadSize > 0 {
		payload := make([]byte, payloadSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return csID, err
		}
		cs.buffer = append(cs.buffer, payload...)
		cs.bytesRead += payloadSize
	}
	if cs.bytesRead >= cs.messageLength {
		cs.full = true
	}

	return csID, nil
}

// readMessageHeader reads the message header for the given format type.
func (cr *chunkReader) readMessageHeader(r io.Reader, cs *chunkStream, format byte) error {
	switch format {
	case HeaderLarge:
		// 11 bytes: timestamp (3) + length (3) + type (1) + stream ID (4)
		var header [11]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return err
		}
		timestamp := uint32(header[0])<<16 | uint32(header[1])<<8 | uint32(header[2])
		cs.messageLength = uint32(header[3])<<16 | uint32(header[4])<<8 | uint32(header[5])
		cs.messageType = header[6]
		// Stream ID is little-endian on the wire
		cs.streamID = binary.LittleEndian.Uint32(header[7:11])
		if timestamp == 0xFFFFFF {
			if err := binary.Read(r, binary.BigEndian, &cs.extendedTimestamp); err != nil {
				return err
			}
			cs.timestamp = cs.extendedTimestamp
		} else {
			cs.timestamp = timestamp
		}
		cs.timestampDelta = 0
		cs.bytesRead = 0
		cs.buffer = cs.buffer[:0]

	case HeaderMedium:
		// 7 bytes: timestamp delta (3) + length (3) + type (1)
		var header [7]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return err
		}
		delta := uint32(header[0])<<16 | uint32(header[1])<<8 | uint32(header[2])
		cs.messageLength = uint32(header[3])<<16 | uint32(header[4])<<8 | uint32(header[5])
		cs.messageType = header[6]
		if delta == 0xFFFFFF {
			if err := binary.Read(r, binary.BigEndian, &cs.extendedTimestamp); err != nil {
				return err
			}
			cs.timestampDelta = cs.extendedTimestamp
		} else {
			cs.timestampDelta = delta
		}
		cs.timestamp += cs.timestampDelta
		cs.bytesRead = 0
		cs.buffer = cs.buffer[:0]

	case HeaderSmall:
		// 3 bytes: timestamp delta (3)
		var header [3]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return err
		}
		delta := uint32(header[0])<<16 | uint32(header[1])<<8 | uint32(header[2])
		if delta == 0xFFFFFF {
			if err := binary.Read(r, binary.BigEndian, &cs.extendedTimestamp); err != nil {
				return err
			}
			cs.timestampDelta = cs.extendedTimestamp
		} else {
			cs.timestampDelta = delta
		}
		cs.timestamp += cs.timestampDelta
		cs.bytesRead = 0
		cs.buffer = cs.buffer[:0]

	case HeaderMinimum:
		// No header. A fmt 3 chunk either continues an in-flight message
		// or starts a new one with all fields inherited.
		if cs.bytesRead == 0 {
			cs.timestamp += cs.timestampDelta
			cs.buffer = cs.buffer[:0]
		}
	}

	return nil
}

// complete returns the reassembled packet for the chunk stream if the
// full message body has arrived.
func (cr *chunkReader) complete(csID uint32) (*Packet, bool) {
	cs, exists := cr.streams[csID]
	if !exists || !cs.full {
		return nil, false
	}

	body := make([]byte, len(cs.buffer))
	copy(body, cs.buffer)
	pkt := &Packet{
		Type:      cs.messageType,
		Format:    HeaderLarge,
		Channel:   csID,
		Timestamp: cs.timestamp,
		StreamID:  cs.streamID,
		Body:      body,
	}

	// Keep header state, reset payload state for the next message
	cs.buffer = cs.buffer[:0]
	cs.bytesRead = 0
	cs.full = false

	return pkt, true
}
