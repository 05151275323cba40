package world

import (
	"context"
	"fmt"
	"strconv"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/combat"
	"github.com/35niavlys/speedfng/logging/status_effects"
)

// damageIndicatorWindow groups hits landing within this many ticks into one
// fanned out indicator.
const damageIndicatorWindow = 25

// TakeDamage applies force and dmg from the client from (negative for the
// world). The push always happens. It reports false when the damage had no
// effect or killed the character.
func (c *Character) TakeDamage(force geom.Vec2, dmg int, from int, weapon protocol.Weapon) bool {
	g := c.game
	s := g.settings
	p := c.player

	if !c.alive {
		return false
	}
	c.core.Vel = c.core.Vel.Add(force)

	if !s.Damage || (g.controller.IsFriendlyFire(p.id, from) && !s.TeamDamage) {
		return false
	}

	if g.controller.IsOpenFng() {
		if p.Abilities.Has(AbilityInvisible) {
			c.reveal()
		}
		if p.PlayerFlags == protocol.PlayerFlagChatting && weapon != protocol.WeaponHammer &&
			!g.controller.IsFriendlyFire(p.id, from) && c.core.Frozen <= 0 && s.ShowChatKills {
			g.fx.Chat(-1, fmt.Sprintf("%s made a chatkill!", g.playerName(from)))
		}
		return true
	}

	if from == p.id {
		dmg = max(1, dmg/2)
	}

	c.damageTaken++
	if g.tick < c.damageTakenTick+damageIndicatorWindow {
		g.damageIndicator(c.pos, float32(c.damageTaken)*0.25, dmg)
	} else {
		c.damageTaken = 0
		g.damageIndicator(c.pos, 0, dmg)
	}

	dealt := dmg
	if dmg > 0 {
		if c.armor > 0 {
			if dmg > 1 {
				c.health--
				dmg--
			}
			if dmg > c.armor {
				dmg -= c.armor
				c.armor = 0
			} else {
				c.armor -= dmg
				dmg = 0
			}
		}
		c.health -= dmg
	}

	c.damageTakenTick = g.tick

	if attacker := g.Player(from); attacker != nil && from != p.id {
		mask := protocol.MaskOne(from)
		for _, other := range g.players {
			if other == nil || other.team != protocol.TeamSpectators {
				continue
			}
			if id, ok := other.SpectatorID.Get(); ok && id == from {
				mask |= protocol.MaskOne(other.id)
			}
		}
		g.sound(attacker.ViewPos, protocol.SoundHit, mask)
	}

	combat.Damage(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(from), logging.PlayerRef(p.id), combat.DamagePayload{
		Weapon:       weapon.String(),
		Amount:       dealt,
		TargetHealth: max(0, c.health),
		TargetArmor:  c.armor,
	}, nil)

	if c.health <= 0 {
		c.health = 0
		c.Die(from, weapon, false)

		if from != p.id {
			if killer := g.CharacterOf(from); killer != nil {
				killer.SetEmote(protocol.EmoteHappy, g.tick+g.tickSpeed)
			}
		}
		return false
	}

	if dmg > 2 {
		g.sound(c.pos, protocol.SoundPlayerPainLong, protocol.MaskAll)
	} else {
		g.sound(c.pos, protocol.SoundPlayerPainShort, protocol.MaskAll)
	}
	c.SetEmote(protocol.EmotePain, g.tick+500*g.tickSpeed/1000)
	return true
}

// Freeze sets the remaining freeze time. A positive freeze with a known
// source records who froze the character.
func (c *Character) Freeze(ticks int, by opt.Value[int]) {
	ticks = max(0, ticks)
	if id, ok := by.Get(); ok && ticks > 0 {
		c.frozenBy = opt.Some(id)
	}
	c.core.Frozen = ticks

	if ticks > 0 {
		source := ""
		if id, ok := by.Get(); ok {
			source = strconv.Itoa(id)
		}
		g := c.game
		status_effects.Applied(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(by.Or(-1)), logging.PlayerRef(c.player.id),
			status_effects.AppliedPayload{StatusEffect: status_effects.StatusFreeze, SourceID: source, DurationTicks: ticks}, nil)
	}
}

// Die kills the character. killer may equal the victim for self kills, or be
// negative for the world. noKillMsg suppresses the kill broadcast when the
// mode announces the death itself.
func (c *Character) Die(killer int, weapon protocol.Weapon, noKillMsg bool) {
	if !c.alive {
		return
	}
	g := c.game
	p := c.player

	p.RespawnTick = g.tick + g.settings.RespawnDelayMs*g.tickSpeed/1000
	modeSpecial := g.controller.OnCharacterDeath(c, g.Player(killer), weapon)

	combat.Defeat(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(killer), logging.PlayerRef(p.id),
		combat.DefeatPayload{Weapon: weapon.String(), ModeSpecial: modeSpecial, Spree: p.Spree}, nil)

	c.EndSpree(killer)

	if !noKillMsg {
		g.fx.KillMessage(KillMessage{Killer: killer, Victim: p.id, Weapon: weapon, ModeSpecial: modeSpecial})
	}

	g.sound(c.pos, protocol.SoundPlayerDie, protocol.MaskAll)
	p.DieTick = g.tick

	c.alive = false
	g.world.Remove(c.handle)
	g.core.Remove(p.id)
	g.effect(EffectDeath, c.pos, p.id)
	if p.character == c {
		p.character = nil
	}
}

// IncreaseHealth heals by amount. It reports false at full health.
func (c *Character) IncreaseHealth(amount int) bool {
	if c.health >= maxHealth {
		return false
	}
	c.health = max(0, min(c.health+amount, maxHealth))
	return true
}

// IncreaseArmor adds armor. It reports false at full armor.
func (c *Character) IncreaseArmor(amount int) bool {
	if c.armor >= maxArmor {
		return false
	}
	c.armor = max(0, min(c.armor+amount, maxArmor))
	return true
}

// Bleed shows blood for the given number of ticks.
func (c *Character) Bleed(ticks int) {
	c.bloodTicks = ticks
}
