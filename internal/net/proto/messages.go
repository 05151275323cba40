// Package proto defines the websocket envelopes: JSON client messages and
// msgpack server frames.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/35niavlys/speedfng/internal/effects"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/sim"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1

	typeJoin          = "join"
	typeFrame         = "frame"
	typeCommandAck    = "commandAck"
	typeCommandReject = "commandReject"
	typeHeartbeat     = "heartbeat"
)

// Client message type identifiers.
const (
	TypeInput      = "input"
	TypePause      = "pause"
	TypeSpec       = "spec"
	TypeTeam       = "team"
	TypeEmoticon   = "emoticon"
	TypeForcePause = "forcePause"
	TypeHeartbeat  = "heartbeat"
	TypeKill       = "kill"
)

// Exported aliases for outbound message type identifiers.
const (
	TypeJoin  = typeJoin
	TypeFrame = typeFrame
)

// ClientMessage captures an inbound websocket message from the client.
type ClientMessage struct {
	Ver        int                   `json:"ver,omitempty"`
	Type       string                `json:"type"`
	Input      *protocol.PlayerInput `json:"input,omitempty"`
	Team       *int                  `json:"team,omitempty"`
	Emoticon   *int                  `json:"emoticon,omitempty"`
	Target     *int                  `json:"target,omitempty"`
	Seconds    int                   `json:"seconds,omitempty"`
	SentAt     int64                 `json:"sentAt,omitempty"`
	CommandSeq *uint64               `json:"seq,omitempty"`
}

// DecodeClientMessage converts raw websocket payloads into a structured message.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("unsupported client protocol version %d", msg.Ver)
	}
	return msg, nil
}

// ClientCommand captures the simulation command carried by a websocket
// message. The actor is filled in by the session.
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	switch msg.Type {
	case TypeInput:
		if msg.Input == nil {
			return sim.Command{}, false
		}
		in := *msg.Input
		return sim.Command{Type: sim.CommandInput, Input: &in}, true
	case TypePause:
		return sim.Command{Type: sim.CommandPause}, true
	case TypeSpec:
		return sim.Command{Type: sim.CommandSpec}, true
	case TypeKill:
		return sim.Command{Type: sim.CommandKill}, true
	case TypeTeam:
		if msg.Team == nil {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandTeam, Team: &sim.TeamCommand{Team: protocol.Team(*msg.Team)}}, true
	case TypeEmoticon:
		if msg.Emoticon == nil || *msg.Emoticon < 0 || *msg.Emoticon >= int(protocol.NumEmoticons) {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandEmoticon, Emoticon: &sim.EmoticonCommand{Emoticon: protocol.Emoticon(*msg.Emoticon)}}, true
	case TypeForcePause:
		if msg.Target == nil {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandForcePause, ForcePause: &sim.ForcePauseCommand{TargetID: *msg.Target, Seconds: msg.Seconds}}, true
	default:
		return sim.Command{}, false
	}
}

// JoinResponse tells a client which slot it holds.
type JoinResponse struct {
	Ver       int    `msgpack:"ver"`
	Type      string `msgpack:"type"`
	ClientID  int    `msgpack:"clientId"`
	SessionID string `msgpack:"sessionId"`
	TickSpeed int    `msgpack:"tickSpeed"`
	Legacy    bool   `msgpack:"legacy"`
}

// EncodeJoinResponse renders a join response payload.
func EncodeJoinResponse(msg JoinResponse) ([]byte, error) {
	msg.Ver = Version
	msg.Type = typeJoin
	return msgpack.Marshal(msg)
}

// SoundEvent is a positional sound.
type SoundEvent struct {
	X     float32 `msgpack:"x"`
	Y     float32 `msgpack:"y"`
	Sound int     `msgpack:"sound"`
}

// EffectEvent is a one-shot visual effect.
type EffectEvent struct {
	Kind   string  `msgpack:"kind"`
	X      float32 `msgpack:"x"`
	Y      float32 `msgpack:"y"`
	Owner  int     `msgpack:"owner"`
	Angle  float32 `msgpack:"angle,omitempty"`
	Amount int     `msgpack:"amount,omitempty"`
}

// MessageEvent is a chat line, broadcast, kill message, emoticon or batch
// of extra projectiles.
type MessageEvent struct {
	Kind        string                `msgpack:"kind"`
	Text        string                `msgpack:"text,omitempty"`
	Killer      int                   `msgpack:"killer,omitempty"`
	Victim      int                   `msgpack:"victim,omitempty"`
	Weapon      int                   `msgpack:"weapon,omitempty"`
	ModeSpecial int                   `msgpack:"modeSpecial,omitempty"`
	From        int                   `msgpack:"from,omitempty"`
	Emoticon    int                   `msgpack:"emoticon,omitempty"`
	Projectiles []protocol.Projectile `msgpack:"projectiles,omitempty"`
}

// Frame is the per-tick server message: the snapshot items plus the events
// the client should play.
type Frame struct {
	Ver      int            `msgpack:"ver"`
	Type     string         `msgpack:"type"`
	Tick     int            `msgpack:"t"`
	Snapshot []byte         `msgpack:"snapshot"`
	Sounds   []SoundEvent   `msgpack:"sounds,omitempty"`
	Effects  []EffectEvent  `msgpack:"effects,omitempty"`
	Messages []MessageEvent `msgpack:"messages,omitempty"`
}

// NewFrame assembles the frame of one client from its snapshot and its part
// of the tick's events.
func NewFrame(tick int, snapshot []byte, batch effects.Batch) Frame {
	frame := Frame{Tick: tick, Snapshot: snapshot}
	for _, s := range batch.Sounds {
		frame.Sounds = append(frame.Sounds, SoundEvent{X: s.Pos.X(), Y: s.Pos.Y(), Sound: int(s.Sound)})
	}
	for _, e := range batch.Effects {
		frame.Effects = append(frame.Effects, EffectEvent{
			Kind:   e.Kind.String(),
			X:      e.Pos.X(),
			Y:      e.Pos.Y(),
			Owner:  e.Owner,
			Angle:  e.Angle,
			Amount: e.Amount,
		})
	}
	for _, m := range batch.Messages {
		ev := MessageEvent{Kind: string(m.Kind), Text: m.Text}
		switch m.Kind {
		case effects.MessageKill:
			ev.Killer = m.Kill.Killer
			ev.Victim = m.Kill.Victim
			ev.Weapon = int(m.Kill.Weapon)
			ev.ModeSpecial = m.Kill.ModeSpecial
		case effects.MessageEmoticon:
			ev.From = m.From
			ev.Emoticon = int(m.Emoticon)
		case effects.MessageExtraProjectiles:
			ev.Projectiles = m.Projectiles
		}
		frame.Messages = append(frame.Messages, ev)
	}
	return frame
}

// EncodeFrame renders a frame payload.
func EncodeFrame(frame Frame) ([]byte, error) {
	frame.Ver = Version
	frame.Type = typeFrame
	return msgpack.Marshal(frame)
}

// DecodeFrame parses a frame payload.
func DecodeFrame(data []byte) (Frame, error) {
	var frame Frame
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		return frame, err
	}
	if frame.Type != typeFrame {
		return frame, fmt.Errorf("unexpected message type %q", frame.Type)
	}
	return frame, nil
}

// CommandAck describes an acknowledgement of a queued command.
type CommandAck struct {
	Seq  uint64
	Tick uint64
}

// EncodeCommandAck renders a command acknowledgement response.
func EncodeCommandAck(msg CommandAck) ([]byte, error) {
	frame := struct {
		Ver  int    `msgpack:"ver"`
		Type string `msgpack:"type"`
		Seq  uint64 `msgpack:"seq"`
		Tick uint64 `msgpack:"tick,omitempty"`
	}{
		Ver:  Version,
		Type: typeCommandAck,
		Seq:  msg.Seq,
		Tick: msg.Tick,
	}
	return msgpack.Marshal(frame)
}

// CommandReject notifies the client that a command was refused.
type CommandReject struct {
	Seq    uint64
	Reason string
	Retry  bool
}

// EncodeCommandReject renders a command rejection response.
func EncodeCommandReject(msg CommandReject) ([]byte, error) {
	frame := struct {
		Ver    int    `msgpack:"ver"`
		Type   string `msgpack:"type"`
		Seq    uint64 `msgpack:"seq"`
		Reason string `msgpack:"reason"`
		Retry  bool   `msgpack:"retry,omitempty"`
	}{
		Ver:    Version,
		Type:   typeCommandReject,
		Seq:    msg.Seq,
		Reason: msg.Reason,
		Retry:  msg.Retry,
	}
	return msgpack.Marshal(frame)
}

// Heartbeat echoes timing metadata back to the client.
type Heartbeat struct {
	ServerTime int64
	ClientTime int64
}

// EncodeHeartbeat renders a heartbeat acknowledgement payload.
func EncodeHeartbeat(msg Heartbeat) ([]byte, error) {
	frame := struct {
		Ver        int    `msgpack:"ver"`
		Type       string `msgpack:"type"`
		ServerTime int64  `msgpack:"serverTime"`
		ClientTime int64  `msgpack:"clientTime"`
	}{
		Ver:        Version,
		Type:       typeHeartbeat,
		ServerTime: msg.ServerTime,
		ClientTime: msg.ClientTime,
	}
	return msgpack.Marshal(frame)
}

// Envelope reads just the type of a server payload.
func Envelope(data []byte) (string, error) {
	var head struct {
		Type string `msgpack:"type"`
	}
	if err := msgpack.Unmarshal(data, &head); err != nil {
		return "", err
	}
	return head.Type, nil
}
