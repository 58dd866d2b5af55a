// If you are AI: This file writes packets as RTMP chunks.
// Header compression follows the previous packet sent on the channel.

package rtmp

import (
	"encoding/binary"
	"io"
)

// writeBasicHeader writes the chunk basic header for the given format
// and chunk stream ID, using the extended ID forms when needed.
func writeBasicHeader(w io.Writer, format byte, csID uint32) error {
	basicHeader := format << 6
	switch {
	case csID < 64:
		basicHeader |= byte(csID)
		_, err := w.Write([]byte{basicHeader})
		return err
	case csID < 320:
		if _, err := w.Write([]byte{basicHeader, byte(csID - 64)}); err != nil {
			return err
		}
		return nil
	default:
		if _, err := w.Write([]byte{basicHeader | 1}); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, uint16(csID-64))
	}
}

// writePacket writes a packet as RTMP chunks. prev is the last packet
// sent on the same channel; it decides how far the header compresses.
// The requested format is downgraded when the previous header cannot
// supply the omitted fields.
func writePacket(w io.Writer, p *Packet, chunkSize uint32, prev *Packet) error {
	format := p.Format
	var delta uint32
	if prev == nil || prev.StreamID != p.StreamID {
		format = HeaderLarge
	} else {
		delta = p.Timestamp - prev.Timestamp
		if format >= HeaderSmall && (uint32(len(p.Body)) != uint32(len(prev.Body)) || p.Type != prev.Type) {
			format = HeaderMedium
		}
	}

	if err := writeBasicHeader(w, format, p.Channel); err != nil {
		return err
	}

	bodyLen := uint32(len(p.Body))
	switch format {
	case HeaderLarge:
		ts := p.Timestamp
		if ts >= 0xFFFFFF {
			ts = 0xFFFFFF
		}
		header := make([]byte, 11)
		header[0] = byte(ts >> 16)
		header[1] = byte(ts >> 8)
		header[2] = byte(ts)
		header[3] = byte(bodyLen >> 16)
		header[4] = byte(bodyLen >> 8)
		header[5] = byte(bodyLen)
		header[6] = p.Type
		// Stream ID is little-endian on the wire
		binary.LittleEndian.PutUint32(header[7:11], p.StreamID)
		if _, err := w.Write(header); err != nil {
			return err
		}
		if p.Timestamp >= 0xFFFFFF {
			if err := binary.Write(w, binary.BigEndian, p.Timestamp); err != nil {
				return err
			}
		}
	case HeaderMedium:
		header := make([]byte, 7)
		header[0] = byte(delta >> 16)
		header[1] = byte(delta >> 8)
		header[2] = byte(delta)
		header[3] = byte(bodyLen >> 16)
		header[4] = byte(bodyLen >> 8)
		header[5] = byte(bodyLen)
		header[6] = p.Type
		if _, err := w.Write(header); err != nil {
			return err
		}
	case HeaderSmall:
		header := []byte{byte(delta >> 16), byte(delta >> 8), byte(delta)}
		if _, err := w.Write(header); err != nil {
			return err
		}
	case HeaderMinimum:
		// No message header
	}

	// Write the body as chunkSize-sized slices with fmt 3 continuations
	offset := uint32(0)
	for offset < bodyLen {
		if offset > 0 {
			if err := writeBasicHeader(w, HeaderMinimum, p.Channel); err != nil {
				return err
			}
		}
		chunkLen := chunkSize
		if offset+chunkLen > bodyLen {
			chunkLen = bodyLen - offset
		}
		if _, err := w.Write(p.Body[offset : offset+chunkLen]); err != nil {
			return err
		}
		offset += chunkLen
	}

	return nil
}
