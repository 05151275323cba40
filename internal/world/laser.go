package world

import (
	"context"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/status_effects"
)

const (
	// laserScanEpsilon absorbs float error when walking the skip path.
	laserScanEpsilon = 1e-5
	// laserBounceLookahead is the probe length used to reflect off a wall.
	laserBounceLookahead = 4
	// protectPickupSeconds is how long the protection marker follows its
	// target.
	protectPickupSeconds = 1
)

// Laser is a bouncing hit-scan beam. It evaluates once on creation and then
// every bounce delay until its energy runs out.
type Laser struct {
	base
	game *Game

	owner    opt.Value[int]
	from     geom.Vec2
	dir      geom.Vec2
	energy   float32
	bounces  int
	evalTick int
}

// NewLaser fires a beam from pos along dir with the given reach. owner is the
// client id of the shooter, if any.
func NewLaser(g *Game, pos, dir geom.Vec2, energy float32, owner opt.Value[int]) *Laser {
	l := &Laser{
		base:   base{kind: KindLaser, pos: pos},
		game:   g,
		owner:  owner,
		from:   pos,
		dir:    dir,
		energy: energy,
	}
	g.world.Insert(l)
	l.doBounce()
	return l
}

func (l *Laser) Owner() opt.Value[int] { return l.owner }
func (l *Laser) Energy() float32 { return l.energy }
func (l *Laser) Bounces() int { return l.bounces }
func (l *Laser) From() geom.Vec2 { return l.from }

// Terminal reports whether the next evaluation destroys the beam.
func (l *Laser) Terminal() bool { return l.energy < 0 }

func (l *Laser) ownerCharacter() *Character {
	id, ok := l.owner.Get()
	if !ok {
		return nil
	}
	return l.game.CharacterOf(id)
}

// hitCharacter scans the segment for the first eligible character and
// applies the hit. It reports whether anything was hit.
func (l *Laser) hitCharacter(from, to geom.Vec2) bool {
	g := l.game
	s := g.settings
	ownerChar := l.ownerCharacter()

	skipped := make(map[*Character]bool, protocol.MaxClients)
	if ownerChar != nil {
		skipped[ownerChar] = true
	}
	skip := func(c *Character) bool { return skipped[c] }

	var hit *Character
	var at geom.Vec2
	pos := l.pos
	for i := 0; i <= protocol.MaxClients && geom.Distance(from, pos)+geom.Distance(pos, to) <= geom.Distance(from, to)+laserScanEpsilon; i++ {
		c, p, ok := g.world.IntersectCharacter(pos, to, 0, skip)
		if !ok {
			break
		}
		skipped[c] = true
		at = p
		pos = p.Add(geom.Normalize(to.Sub(from)).Mul(c.radius + laserScanEpsilon))

		if s.LaserSkipFrozen && c.core.Frozen > 0 {
			continue
		}
		if ownerChar != nil && s.LaserSkipTeammates && ownerChar.player.team == c.player.team {
			continue
		}
		hit = c
		break
	}
	if hit == nil {
		return false
	}

	l.from = from
	l.pos = at
	l.energy = -1

	ownerID := l.owner.Or(-1)
	hit.TakeDamage(geom.Vec2{}, int(g.tuning.LaserDamage), ownerID, protocol.WeaponRifle)
	if !hit.alive || ownerChar == nil {
		return true
	}

	if ownerChar.player.team != hit.player.team && hit.freezeEligible() {
		hit.Freeze(int(g.tuning.LaserDamage)*g.tickSpeed, l.owner)
		if ownerChar.player.Abilities.Has(AbilityRifleSwap) {
			ownerPos := ownerChar.core.Pos
			ownerChar.Teleport(hit.core.Pos)
			hit.Teleport(ownerPos)
		}
	}

	if ownerChar.player.Abilities.Has(AbilityTeamProtect) &&
		hit.player.Spree <= s.KillingSpreeKills*3 &&
		ownerChar.player.team == hit.player.team &&
		hit.protectEligible() && !hit.core.ProtectedBy {
		hit.core.ProtectedBy = true
		NewPickup(g, hit.core.Pos, protocol.PickupHealth, opt.Some(hit.player.id), protectPickupSeconds*g.tickSpeed)
		hit.Freeze(hit.core.Frozen-s.HammerMelt*g.tickSpeed, opt.None[int]())
		status_effects.Applied(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(ownerID), logging.PlayerRef(hit.player.id),
			status_effects.AppliedPayload{StatusEffect: status_effects.StatusProtection}, nil)
	}
	return true
}

// freezeEligible reports whether a beam may freeze the character: it is not
// frozen, and its last thaw was by a hammer or is past the safe window.
func (c *Character) freezeEligible() bool {
	if c.core.Frozen > 0 {
		return false
	}
	at, ok := c.moltenAt.Get()
	return c.moltenByHammer || !ok || at+c.game.settings.MeltSafeTicks < c.game.tick
}

func (c *Character) protectEligible() bool {
	if c.core.Frozen <= 0 {
		return false
	}
	at, ok := c.moltenAt.Get()
	return !c.moltenByHammer || (ok && at+c.game.settings.MeltSafeTicks > c.game.tick)
}

func (l *Laser) doBounce() {
	g := l.game
	l.evalTick = g.tick

	if l.energy < 0 {
		g.world.Destroy(l.handle)
		return
	}

	to := l.pos.Add(l.dir.Mul(l.energy))
	hit, blocked := g.collision.IntersectLine(l.pos, to)
	if blocked {
		to = hit.Before
	}

	if l.hitCharacter(l.pos, to) {
		return
	}

	l.from = l.pos
	l.pos = to
	if !blocked {
		l.energy = -1
		return
	}

	pos, vel, _ := g.collision.MovePoint(l.pos, l.dir.Mul(laserBounceLookahead), 1)
	l.pos = pos
	l.dir = geom.Normalize(vel)

	l.energy -= geom.Distance(l.from, l.pos) + g.tuning.LaserBounceCost
	l.bounces++
	if float32(l.bounces) > g.tuning.LaserBounceNum {
		l.energy = -1
	}

	g.sound(l.pos, protocol.SoundRifleBounce, protocol.MaskAll)
}

func (l *Laser) Tick() {
	g := l.game
	if float32(g.tick) > float32(l.evalTick)+float32(g.tickSpeed)*g.tuning.LaserBounceDelay/1000 {
		l.doBounce()
	}
}

func (l *Laser) TickPaused() {
	l.evalTick++
}

func (l *Laser) Snap(ctx *SnapContext) {
	if l.game.networkClipped(ctx.Client, l.pos) {
		return
	}
	ctx.Writer.WriteLaser(int32(l.handle.Index()), protocol.Laser{
		X:         int32(l.pos[0]),
		Y:         int32(l.pos[1]),
		FromX:     int32(l.from[0]),
		FromY:     int32(l.from[1]),
		StartTick: int32(l.evalTick),
	})
}
