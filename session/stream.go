// If you are AI: This file implements the media stream returned by CreateStream.
// Read yields an FLV byte stream; Write sends media packets upstream.

package session

import (
	"io"

	"rtmpcall/protocol/amf0"
	"rtmpcall/protocol/flv"
	"rtmpcall/protocol/rtmp"
)

// Stream is a playing or publishing media stream on an open session.
// Read produces FLV bytes muxed from the inbound media packets; media
// payloads pass through untouched.
type Stream struct {
	sess    *Session
	pending []byte
	eof     bool
}

// newStream returns a stream with the FLV file header queued for the
// first Read.
func newStream(s *Session) *Stream {
	header := flv.NewHeader(true, true).Bytes()
	pending := make([]byte, 0, len(header)+4)
	pending = append(pending, header...)
	// PreviousTagSize0 before the first tag
	pending = append(pending, 0, 0, 0, 0)
	return &Stream{sess: s, pending: pending}
}

// ReadPacket returns the next media packet, forwarding everything else
// to the transport's protocol handler. Returns io.EOF once the server
// ends the stream or the connection drops.
func (st *Stream) ReadPacket() (*rtmp.Packet, error) {
	for {
		if st.eof || !st.sess.transport.IsConnected() {
			return nil, io.EOF
		}

		pkt, err := st.sess.transport.ReadPacket()
		if err != nil {
			return nil, err
		}

		switch pkt.Type {
		case rtmp.MessageTypeAudio, rtmp.MessageTypeVideo, rtmp.MessageTypeDataAMF0:
			return pkt, nil
		}

		st.noteStreamEnd(pkt)
		if err := st.sess.transport.HandlePacket(pkt); err != nil {
			return nil, err
		}
	}
}

// Read fills p with FLV bytes, pulling media packets as needed. The FLV
// file header is produced before the first tag. Returns io.EOF at
// stream end.
func (st *Stream) Read(p []byte) (int, error) {
	for len(st.pending) == 0 {
		pkt, err := st.ReadPacket()
		if err != nil {
			return 0, err
		}
		if tag := flv.MuxPacket(pkt); tag != nil {
			st.pending = append(st.pending, tag.Bytes()...)
		}
	}
	n := copy(p, st.pending)
	st.pending = st.pending[n:]
	return n, nil
}

// Write sends one media packet on the stream's message stream id.
func (st *Stream) Write(msgType byte, timestamp uint32, body []byte) error {
	return st.sess.transport.SendPacket(&rtmp.Packet{
		Type:      msgType,
		Format:    rtmp.HeaderLarge,
		Channel:   rtmp.ChannelSource,
		Timestamp: timestamp,
		StreamID:  st.sess.transport.StreamID(),
		Body:      body,
	}, false)
}

// Pause toggles playback without tearing down the stream.
func (st *Stream) Pause(paused bool) error {
	_, err := st.sess.CallWithOptions("pause",
		CallOptions{Channel: rtmp.ChannelSource}, paused, 0.0)
	return err
}

// Seek jumps playback to the offset in milliseconds.
func (st *Stream) Seek(offsetMS int) error {
	_, err := st.sess.CallWithOptions("seek",
		CallOptions{Channel: rtmp.ChannelSource}, float64(offsetMS))
	return err
}

// Close closes the owning session's connection.
func (st *Stream) Close() error {
	st.eof = true
	return st.sess.Close()
}

// noteStreamEnd marks EOF when the packet signals the end of playback:
// a Stream EOF user control event or a terminal NetStream status.
func (st *Stream) noteStreamEnd(pkt *rtmp.Packet) {
	switch pkt.Type {
	case rtmp.MessageTypeUserCtrl:
		if event, _, err := rtmp.ParseUserControl(pkt.Body); err == nil && event == rtmp.ControlStreamEOF {
			st.eof = true
		}
	case rtmp.MessageTypeInvoke:
		vals, err := amf0.DecodeAll(pkt.Body)
		if err != nil || len(vals) < 4 {
			return
		}
		if method, _ := vals[0].(string); method != rtmp.CommandOnStatus {
			return
		}
		info, ok := vals[3].(amf0.Object)
		if !ok {
			return
		}
		switch info["code"] {
		case "NetStream.Play.Stop", "NetStream.Play.Complete", "NetStream.Play.UnpublishNotify":
			st.eof = true
		}
	}
}
