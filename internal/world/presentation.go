package world

import (
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// EffectKind tags a one-shot visual event.
type EffectKind int

const (
	EffectDamageIndicator EffectKind = iota
	EffectExplosion
	EffectHammerHit
	EffectDeath
	EffectSpawn
	EffectShield
)

func (k EffectKind) String() string {
	switch k {
	case EffectDamageIndicator:
		return "damage_indicator"
	case EffectExplosion:
		return "explosion"
	case EffectHammerHit:
		return "hammer_hit"
	case EffectDeath:
		return "death"
	case EffectSpawn:
		return "spawn"
	case EffectShield:
		return "shield"
	default:
		return "unknown"
	}
}

// Effect is a visual event. Owner is the client the effect belongs to, when
// the kind carries one. Angle and Amount are only read for damage indicators.
type Effect struct {
	Kind   EffectKind
	Pos    geom.Vec2
	Owner  int
	Angle  float32
	Amount int
	Mask   protocol.Mask
}

// KillMessage announces a death to every client.
type KillMessage struct {
	Killer      int
	Victim      int
	Weapon      protocol.Weapon
	ModeSpecial int
}

// Presentation receives everything the simulation wants shown or heard.
// Targets are client ids; a negative target addresses everyone.
type Presentation interface {
	Sound(pos geom.Vec2, sound protocol.Sound, mask protocol.Mask)
	Effect(e Effect)
	Broadcast(target int, text string)
	Chat(target int, text string)
	KillMessage(msg KillMessage)
	Emoticon(client int, emoticon protocol.Emoticon)
	ExtraProjectiles(client int, projectiles []protocol.Projectile)
}

type nopPresentation struct{}

func (nopPresentation) Sound(geom.Vec2, protocol.Sound, protocol.Mask) {}
func (nopPresentation) Effect(Effect) {}
func (nopPresentation) Broadcast(int, string) {}
func (nopPresentation) Chat(int, string) {}
func (nopPresentation) KillMessage(KillMessage) {}
func (nopPresentation) Emoticon(int, protocol.Emoticon) {}
func (nopPresentation) ExtraProjectiles(int, []protocol.Projectile) {}
