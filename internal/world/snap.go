package world

import (
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
)

const idleBlinkPeriod = 250

// Snap writes the character item for ctx.Client.
func (c *Character) Snap(ctx *SnapContext) {
	g := c.game
	p := c.player

	if c.paused || g.networkClipped(ctx.Client, c.pos) {
		return
	}

	viewer := g.Player(ctx.Client)
	if c.hidden && p.Abilities.Has(AbilityInvisible) && ctx.Client != p.id &&
		viewer != nil && viewer.team != protocol.TeamSpectators &&
		c.core.Frozen <= 0 && p.pause == PauseNone {
		return
	}

	var obj protocol.Character
	if c.reckoningTick == 0 || g.world.Paused {
		obj.Tick = 0
		c.core.WriteCharacter(&obj)
	} else {
		obj.Tick = int32(c.reckoningTick)
		c.sendCore.WriteCharacter(&obj)
	}

	if stop, ok := c.emoteStop.Get(); ok && stop < g.tick {
		c.emote = protocol.EmoteNormal
		c.emoteStop = opt.None[int]()
	}
	obj.Emote = int32(c.emote)

	obj.Weapon = int32(c.activeWeapon)
	obj.AttackTick = int32(c.attackTick)
	obj.Direction = c.input.Direction

	if ctx.Client == p.id || ctx.Client == -1 || c.spectatedBy(viewer) {
		obj.Health = int32(c.health)
		obj.Armor = int32(c.armor)
		if slot := c.Weapon(c.activeWeapon); !slot.Infinite && slot.Ammo > 0 {
			obj.AmmoCount = int32(slot.Ammo)
		}
	}

	if p.pause != PauseNone {
		obj.Emote = int32(protocol.EmoteBlink)
	}
	if obj.Emote == int32(protocol.EmoteNormal) {
		idle := g.tick - c.lastAction.Or(-1)
		if idleBlinkPeriod-idle%idleBlinkPeriod < 5 {
			obj.Emote = int32(protocol.EmoteBlink)
		}
	}

	obj.PlayerFlags = p.PlayerFlags

	ctx.Writer.WriteCharacter(int32(p.id), obj, ctx.Legacy)
}

func (c *Character) spectatedBy(viewer *Player) bool {
	if viewer == nil || c.game.settings.StrictSpectateMode {
		return false
	}
	id, ok := viewer.SpectatorID.Get()
	return ok && id == c.player.id
}
