// Package effects collects what the simulation wants shown or heard during a
// tick and hands it to the frame writer, filtered per client.
package effects

import (
	"sync"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/world"
)

// MessageKind tags an outbound per-client message.
type MessageKind string

const (
	MessageBroadcast        MessageKind = "broadcast"
	MessageChat             MessageKind = "chat"
	MessageKill             MessageKind = "kill"
	MessageEmoticon         MessageKind = "emoticon"
	MessageExtraProjectiles MessageKind = "extra_projectiles"
)

// Sound is a positional sound event.
type Sound struct {
	Pos   geom.Vec2
	Sound protocol.Sound
	Mask  protocol.Mask
}

// Message is a text or game message addressed to one client, or to everyone
// when Target is negative. From is the emoticon sender. Only the fields of
// the given kind are set.
type Message struct {
	Kind        MessageKind
	Target      int
	From        int
	Text        string
	Kill        world.KillMessage
	Emoticon    protocol.Emoticon
	Projectiles []protocol.Projectile
}

// Batch is everything emitted since the previous drain, in emission order.
type Batch struct {
	Sounds   []Sound
	Effects  []world.Effect
	Messages []Message
}

// Empty reports whether the batch carries nothing.
func (b Batch) Empty() bool {
	return len(b.Sounds) == 0 && len(b.Effects) == 0 && len(b.Messages) == 0
}

// For returns the part of the batch that client should receive.
func (b Batch) For(client int) Batch {
	var out Batch
	for _, s := range b.Sounds {
		if s.Mask.Has(client) {
			out.Sounds = append(out.Sounds, s)
		}
	}
	for _, e := range b.Effects {
		if e.Mask.Has(client) {
			out.Effects = append(out.Effects, e)
		}
	}
	for _, m := range b.Messages {
		if m.Target < 0 || m.Target == client {
			out.Messages = append(out.Messages, m)
		}
	}
	return out
}

// Buffer implements world.Presentation. It is safe for concurrent use so a
// writer goroutine can drain while the tick loop is idle.
type Buffer struct {
	mu      sync.Mutex
	pending Batch
	limit   int
	dropped uint64
}

// DefaultLimit caps the events held between two drains.
const DefaultLimit = 4096

// NewBuffer returns a buffer holding at most limit events of each kind
// between drains. Non-positive limits fall back to DefaultLimit.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Buffer{limit: limit}
}

func (b *Buffer) Sound(pos geom.Vec2, sound protocol.Sound, mask protocol.Mask) {
	if mask == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending.Sounds) >= b.limit {
		b.dropped++
		return
	}
	b.pending.Sounds = append(b.pending.Sounds, Sound{Pos: pos, Sound: sound, Mask: mask})
}

func (b *Buffer) Effect(e world.Effect) {
	if e.Mask == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending.Effects) >= b.limit {
		b.dropped++
		return
	}
	b.pending.Effects = append(b.pending.Effects, e)
}

func (b *Buffer) Broadcast(target int, text string) {
	b.message(Message{Kind: MessageBroadcast, Target: target, Text: text})
}

func (b *Buffer) Chat(target int, text string) {
	b.message(Message{Kind: MessageChat, Target: target, Text: text})
}

func (b *Buffer) KillMessage(msg world.KillMessage) {
	b.message(Message{Kind: MessageKill, Target: -1, Kill: msg})
}

// Emoticon shows client's emoticon to everyone.
func (b *Buffer) Emoticon(client int, emoticon protocol.Emoticon) {
	b.message(Message{Kind: MessageEmoticon, Target: -1, From: client, Emoticon: emoticon})
}

func (b *Buffer) ExtraProjectiles(client int, projectiles []protocol.Projectile) {
	if client < 0 || len(projectiles) == 0 {
		return
	}
	b.message(Message{
		Kind:        MessageExtraProjectiles,
		Target:      client,
		Projectiles: append([]protocol.Projectile(nil), projectiles...),
	})
}

func (b *Buffer) message(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending.Messages) >= b.limit {
		b.dropped++
		return
	}
	b.pending.Messages = append(b.pending.Messages, m)
}

// Drain returns the pending batch and starts a new one.
func (b *Buffer) Drain() Batch {
	if b == nil {
		return Batch{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = Batch{}
	return out
}

// Dropped returns how many events were discarded because a batch was full.
func (b *Buffer) Dropped() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

var _ world.Presentation = (*Buffer)(nil)
