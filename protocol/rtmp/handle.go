// If you are AI: This file implements the engine's protocol-maintenance handler.
// It answers control messages and advances the connect/play invoke sequence.

package rtmp

import (
	"fmt"

	"rtmpcall/protocol/amf0"
)

// HandlePacket performs the protocol bookkeeping a packet requires:
// chunk size changes, window acknowledgements, ping responses, and the
// engine's own invoke sequence (connect -> createStream -> play/publish).
func (e *Engine) HandlePacket(p *Packet) error {
	switch p.Type {
	case MessageTypeSetChunkSize:
		size, err := ParseSetChunkSize(p.Body)
		if err != nil {
			return nil
		}
		e.reader.setChunkSize(size)
		e.log.Debug().Uint32("size", size).Msg("server set chunk size")

	case MessageTypeWinAckSize:
		size, err := ParseWindowAckSize(p.Body)
		if err != nil {
			return nil
		}
		e.windowAckSize = size

	case MessageTypeUserCtrl:
		return e.handleUserControl(p)

	case MessageTypeInvoke:
		return e.handleInvoke(p)

	case MessageTypeAck, MessageTypeSetPeerBandwidth:
		// Nothing to do client-side

	default:
		// Media and data packets are the caller's concern
	}
	return nil
}

// handleUserControl answers ping requests and tracks stream EOF.
func (e *Engine) handleUserControl(p *Packet) error {
	event, payload, err := ParseUserControl(p.Body)
	if err != nil {
		return nil
	}
	switch event {
	case ControlPingRequest:
		return e.SendPacket(&Packet{
			Type:    MessageTypeUserCtrl,
			Format:  HeaderLarge,
			Channel: ChannelControl,
			Body:    CreatePingResponse(payload),
		}, false)
	case ControlStreamEOF:
		e.playing = false
		e.streamDone = true
	}
	return nil
}

// handleInvoke reacts to server commands addressed at the engine itself.
// Results for engine-issued invokes advance the connect/play sequence;
// anything else is left to the session layer.
func (e *Engine) handleInvoke(p *Packet) error {
	vals, err := amf0.DecodeAll(p.Body)
	if err != nil || len(vals) < 2 {
		return nil
	}
	method, ok := vals[0].(string)
	if !ok {
		return nil
	}
	txidFloat, ok := vals[1].(float64)
	if !ok {
		return nil
	}
	txid := int(txidFloat)

	switch method {
	case CommandResult:
		issued := e.pendingInvokes[txid]
		delete(e.pendingInvokes, txid)
		return e.handleResult(issued, vals)

	case CommandError:
		issued := e.pendingInvokes[txid]
		delete(e.pendingInvokes, txid)
		e.log.Debug().Str("method", issued).Msg("server rejected invoke")
		if issued == "connect" || issued == "createStream" || issued == "play" || issued == "publish" {
			e.streamDone = true
		}

	case CommandOnStatus:
		e.handleStatus(vals)

	case "close":
		e.Close()
	}
	return nil
}

// handleResult advances the command sequence when a result for an
// engine-issued invoke arrives.
func (e *Engine) handleResult(issued string, vals amf0.Array) error {
	switch issued {
	case "connect":
		if err := e.sendWindowAckSize(); err != nil {
			return err
		}
		if e.link.subscribe != "" {
			if err := e.sendFCSubscribe(); err != nil {
				return err
			}
		}
		return e.sendCreateStream()

	case "createStream":
		if len(vals) >= 4 {
			if id, ok := vals[3].(float64); ok {
				e.streamID = uint32(id)
			}
		}
		if e.writeEnabled {
			return e.sendPublish()
		}
		return e.sendPlay()
	}
	return nil
}

// handleStatus tracks NetStream status codes that start or stop playback.
func (e *Engine) handleStatus(vals amf0.Array) {
	if len(vals) < 4 {
		return
	}
	info, ok := vals[3].(amf0.Object)
	if !ok {
		return
	}
	code, _ := info["code"].(string)

	switch code {
	case "NetStream.Play.Start", "NetStream.Publish.Start", "NetStream.Play.PublishNotify":
		e.playing = true
	case "NetStream.Play.Complete", "NetStream.Play.Stop", "NetStream.Play.Failed",
		"NetStream.Play.StreamNotFound", "NetStream.Play.UnpublishNotify",
		"NetStream.Publish.BadName", "NetStream.Failed":
		e.playing = false
		e.streamDone = true
	}
	if code != "" {
		e.log.Debug().Str("code", code).Msg("stream status")
	}
}

// ConnectStream pumps packets through the engine's own handler until the
// server confirms playback or publishing at the given seek offset.
func (e *Engine) ConnectStream(seekMS int) error {
	e.seekMS = seekMS
	e.streamDone = false

	for e.connected && !e.playing {
		pkt, err := e.ReadPacket()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStream, err)
		}
		if err := e.HandlePacket(pkt); err != nil {
			return fmt.Errorf("%w: %v", ErrStream, err)
		}
		if e.streamDone {
			return ErrStream
		}
	}

	if !e.playing {
		return ErrStream
	}
	return nil
}

// maybeSendAck acknowledges received bytes once the advertised window
// has been consumed.
func (e *Engine) maybeSendAck() error {
	if e.windowAckSize == 0 || e.bytesIn-e.bytesInLastAck < e.windowAckSize {
		return nil
	}
	if err := e.SendPacket(&Packet{
		Type:    MessageTypeAck,
		Format:  HeaderLarge,
		Channel: ChannelControl,
		Body:    CreateAck(e.bytesIn),
	}, false); err != nil {
		return err
	}
	e.bytesInLastAck = e.bytesIn
	return nil
}
