// If you are AI: This file provides FLV muxing helpers for RTMP media packets.
// Muxing preserves original payloads without transcoding.

package flv

import (
	"rtmpcall/protocol/rtmp"
)

// MuxPacket converts an RTMP media packet to an FLV tag based on the
// message type. Returns nil for non-media packets.
// Allocation: Creates tag structure, reuses payload slice.
func MuxPacket(p *rtmp.Packet) *Tag {
	if p == nil {
		return nil
	}

	switch p.Type {
	case rtmp.MessageTypeAudio:
		return NewTag(TagTypeAudio, p.Timestamp, p.Body)
	case rtmp.MessageTypeVideo:
		return NewTag(TagTypeVideo, p.Timestamp, p.Body)
	case rtmp.MessageTypeDataAMF0:
		return NewTag(TagTypeScript, p.Timestamp, p.Body)
	default:
		return nil
	}
}
