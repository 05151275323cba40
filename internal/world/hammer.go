package world

import (
	"context"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/combat"
)

// fireHammer swings at every character around start. Teammates that are
// frozen get melted, unfrozen teammates get a greeting.
func (c *Character) fireHammer(start geom.Vec2) {
	g := c.game
	s := g.settings
	p := c.player

	c.hits = c.hits[:0]
	g.sound(c.pos, protocol.SoundHammerFire, protocol.MaskAll)

	hits := 0
	for _, target := range g.world.FindCharacters(start, c.radius*0.5) {
		if target == c {
			continue
		}
		if _, blocked := g.collision.IntersectLine(start, target.pos); blocked {
			continue
		}

		if geom.Length(target.pos.Sub(start)) > 0 {
			g.effect(EffectHammerHit, target.pos.Sub(geom.Normalize(target.pos.Sub(start)).Mul(c.radius*0.5)), p.id)
		} else {
			g.effect(EffectHammerHit, start, p.id)
		}

		dir := geom.V(0, -1)
		if geom.Length(target.pos.Sub(c.pos)) > 0 {
			dir = geom.Normalize(target.pos.Sub(c.pos))
		}

		sameTeam := target.player.team == p.team
		frozen := target.core.Frozen > 0
		meltHit := sameTeam && frozen
		greet := sameTeam && !frozen

		force := geom.V(0, -1).Add(geom.Normalize(dir.Add(geom.V(0, -1.1))).Mul(10))
		if meltHit {
			force[0] *= float32(s.MeltHammerScaleX) * 0.01
			force[1] *= float32(s.MeltHammerScaleY) * 0.01
		} else {
			force[0] *= float32(s.HammerScaleX) * 0.01
			force[1] *= float32(s.HammerScaleY) * 0.01
		}
		if !sameTeam && target.player.Abilities.Has(AbilityProtected) {
			force = geom.Vec2{}
		}

		target.TakeDamage(force, g.weapons.Spec(protocol.WeaponHammer).Damage, p.id, protocol.WeaponHammer)
		hits++
		if !target.alive {
			continue
		}
		target.hammeredBy = opt.Some(p.id)

		if meltHit {
			target.Freeze(target.core.Frozen-s.HammerMelt*g.tickSpeed, target.frozenBy)
			if target.core.Frozen <= 0 {
				target.moltenBy = opt.Some(p.id)
				target.moltenAt = opt.Some(g.tick)
				target.moltenByHammer = true
			}
			combat.MeltHit(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(p.id), logging.PlayerRef(target.player.id),
				combat.MeltHitPayload{RemainingTicks: max(0, target.core.Frozen), Molten: target.core.Frozen <= 0}, nil)
		}

		if !sameTeam && !frozen && p.Abilities.Has(AbilityHammerFreeze) && s.HammerFreeze > 0 {
			target.Freeze(s.HammerFreeze*g.tickSpeed, opt.Some(p.id))
		}

		if greet {
			c.greet(target)
		}
	}

	// any hit costs a reload
	if hits > 0 {
		c.reloadTimer = g.tickSpeed / 3
	}
}

// greet plays the teammate hammer reaction on both sides, rate limited per
// player by the emoticon delay.
func (c *Character) greet(target *Character) {
	g := c.game
	delay := g.tickSpeed * g.settings.EmoticonDelay

	if tp := target.player; tp.LastEmoticon < g.tick {
		tp.LastEmoticon = g.tick + delay
		g.fx.Emoticon(tp.id, protocol.EmoticonSplattee)
		g.effect(EffectDeath, target.pos, tp.id)
		g.sound(tp.ViewPos, protocol.SoundNinjaFire, protocol.MaskOne(tp.id))
		target.SetEmote(protocol.EmoteAngry, g.tick+delay)
	}

	if p := c.player; p.LastEmoticon < g.tick {
		p.LastEmoticon = g.tick + delay
		g.fx.Emoticon(p.id, protocol.EmoticonEyes)
		g.sound(p.ViewPos, protocol.SoundPlayerSpawn, protocol.MaskOne(p.id))
		c.SetEmote(protocol.EmoteHappy, g.tick+delay)
	}
}
