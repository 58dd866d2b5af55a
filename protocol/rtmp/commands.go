// If you are AI: This file builds the invoke commands the engine sends itself.
// Covers connect, createStream, FCSubscribe, play, and publish.

package rtmp

import (
	"rtmpcall/protocol/amf0"
)

// Reserved command names on the wire.
const (
	CommandResult   = "_result"
	CommandError    = "_error"
	CommandOnStatus = "onStatus"
)

// connectBody encodes the default connect invoke body from the link
// parameters. Transaction id 1 is reserved for this command.
func (e *Engine) connectBody() ([]byte, error) {
	obj := amf0.Object{
		"app":           e.link.target.App,
		"flashVer":      e.link.flashVer,
		"tcUrl":         e.link.effectiveTCURL(),
		"fpad":          false,
		"capabilities":  capCapabilities,
		"audioCodecs":   capAudioCodecs,
		"videoCodecs":   capVideoCodecs,
		"videoFunction": capVideoFunction,
	}
	if e.link.swfURL != "" {
		obj["swfUrl"] = e.link.swfURL
	}
	if e.link.pageURL != "" {
		obj["pageUrl"] = e.link.pageURL
	}

	vals := amf0.Array{"connect", 1.0, obj}
	if e.link.auth != "" {
		vals = append(vals, e.link.auth)
	}
	if e.link.token != "" {
		vals = append(vals, e.link.token)
	}
	if e.link.jtv != "" {
		vals = append(vals, e.link.jtv)
	}
	vals = append(vals, e.link.extras...)

	return amf0.EncodeAll(vals...)
}

// sendInvoke encodes and sends one invoke command, tracking it for
// result correlation when queue is set.
func (e *Engine) sendInvoke(channel uint32, streamID uint32, queue bool, vals ...amf0.Value) error {
	body, err := amf0.EncodeAll(vals...)
	if err != nil {
		return err
	}
	pkt := NewInvokePacket(body, HeaderMedium, channel)
	pkt.StreamID = streamID
	return e.SendPacket(pkt, queue)
}

// sendCreateStream asks the server to allocate a message stream.
func (e *Engine) sendCreateStream() error {
	txid := e.nextInvoke()
	return e.sendInvoke(ChannelInvoke, 0, true, "createStream", float64(txid), nil)
}

// sendFCSubscribe subscribes to a live stream before play.
func (e *Engine) sendFCSubscribe() error {
	txid := e.nextInvoke()
	return e.sendInvoke(ChannelInvoke, 0, true, "FCSubscribe", float64(txid), nil, e.link.subscribe)
}

// sendPlay starts playback on the allocated stream. Live streams ask for
// the live position; recorded streams honor the seek and stop offsets.
func (e *Engine) sendPlay() error {
	txid := e.nextInvoke()
	start := float64(e.seekMS)
	if e.link.live {
		start = -1000
	} else if e.seekMS == 0 && e.link.startMS > 0 {
		start = float64(e.link.startMS)
	}

	vals := amf0.Array{"play", float64(txid), nil, e.link.target.Playpath, start}
	if e.link.stopMS > 0 {
		vals = append(vals, float64(e.link.stopMS)-start)
	}
	if err := e.sendInvoke(ChannelSource, e.streamID, true, vals...); err != nil {
		return err
	}

	// Advertise the client buffer for the new stream
	buf := CreateSetBufferLength(e.streamID, uint32(e.link.bufferMS))
	return e.SendPacket(&Packet{
		Type:    MessageTypeUserCtrl,
		Format:  HeaderLarge,
		Channel: ChannelControl,
		Body:    buf,
	}, false)
}

// sendPublish starts publishing on the allocated stream.
func (e *Engine) sendPublish() error {
	txid := e.nextInvoke()
	return e.sendInvoke(ChannelSource, e.streamID, true,
		"publish", float64(txid), nil, e.link.target.Playpath, "live")
}

// sendWindowAckSize advertises the client receive window.
func (e *Engine) sendWindowAckSize() error {
	return e.SendPacket(&Packet{
		Type:    MessageTypeWinAckSize,
		Format:  HeaderLarge,
		Channel: ChannelControl,
		Body:    CreateWindowAckSize(DefaultWindowAckSize),
	}, false)
}
