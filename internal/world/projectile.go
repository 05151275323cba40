package world

import (
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// projectileHitRadius widens the flight segment when testing characters.
const projectileHitRadius = 6

type projectileSpec struct {
	weapon      protocol.Weapon
	owner       int
	pos         geom.Vec2
	dir         geom.Vec2
	lifeSpan    int
	damage      int
	force       float32
	explosive   bool
	impactSound opt.Value[protocol.Sound]
}

// Projectile is a ballistic shot. Its position is a closed form of the time
// since launch, so clients can draw it from the start values alone.
type Projectile struct {
	base
	game *Game

	weapon      protocol.Weapon
	owner       int
	start       geom.Vec2
	dir         geom.Vec2
	lifeSpan    int
	damage      int
	force       float32
	explosive   bool
	impactSound opt.Value[protocol.Sound]
	startTick   int
}

func newProjectile(g *Game, spec projectileSpec) *Projectile {
	p := &Projectile{
		base:        base{kind: KindProjectile, pos: spec.pos},
		game:        g,
		weapon:      spec.weapon,
		owner:       spec.owner,
		start:       spec.pos,
		dir:         spec.dir,
		lifeSpan:    spec.lifeSpan,
		damage:      spec.damage,
		force:       spec.force,
		explosive:   spec.explosive,
		impactSound: spec.impactSound,
		startTick:   g.tick,
	}
	g.world.Insert(p)
	return p
}

func (p *Projectile) Weapon() protocol.Weapon { return p.weapon }
func (p *Projectile) Owner() int { return p.owner }
func (p *Projectile) LifeSpan() int { return p.lifeSpan }

// At returns the position t seconds after launch.
func (p *Projectile) At(t float32) geom.Vec2 {
	tuning := p.game.tuning
	var curvature, speed float32
	switch p.weapon {
	case protocol.WeaponGrenade:
		curvature, speed = tuning.GrenadeCurvature, tuning.GrenadeSpeed
	case protocol.WeaponShotgun:
		curvature, speed = tuning.ShotgunCurvature, tuning.ShotgunSpeed
	case protocol.WeaponGun:
		curvature, speed = tuning.GunCurvature, tuning.GunSpeed
	}
	d := t * speed
	return geom.V(p.start[0]+p.dir[0]*d, p.start[1]+p.dir[1]*d+curvature/10000*d*d)
}

func (p *Projectile) elapsed(offset int) float32 {
	return float32(p.game.tick-p.startTick+offset) / float32(p.game.tickSpeed)
}

func (p *Projectile) Tick() {
	g := p.game
	prevPos := p.At(p.elapsed(-1))
	curPos := p.At(p.elapsed(0))

	hit, collided := g.collision.IntersectLine(prevPos, curPos)
	if collided {
		curPos = hit.Point
	}

	ownerChar := g.CharacterOf(p.owner)
	target, at, struck := g.world.IntersectCharacter(prevPos, curPos, projectileHitRadius, func(c *Character) bool {
		return c == ownerChar
	})
	if struck {
		curPos = at
	}
	p.pos = curPos

	p.lifeSpan--

	if !struck && !collided && p.lifeSpan >= 0 && !g.collision.Clipped(curPos) {
		return
	}

	if sound, ok := p.impactSound.Get(); ok && (p.lifeSpan >= 0 || p.weapon == protocol.WeaponGrenade) {
		g.sound(curPos, sound, protocol.MaskAll)
	}
	if p.explosive {
		g.CreateExplosion(curPos, p.owner, p.weapon, false)
	} else if struck {
		target.TakeDamage(p.dir.Mul(max(0.001, p.force)), p.damage, p.owner, p.weapon)
	}
	g.world.Destroy(p.handle)
}

func (p *Projectile) TickPaused() {
	p.startTick++
}

func (p *Projectile) info() protocol.Projectile {
	return protocol.Projectile{
		X:         int32(p.start[0]),
		Y:         int32(p.start[1]),
		VelX:      int32(p.dir[0] * 100),
		VelY:      int32(p.dir[1] * 100),
		Type:      int32(p.weapon),
		StartTick: int32(p.startTick),
	}
}

func (p *Projectile) Snap(ctx *SnapContext) {
	if p.game.networkClipped(ctx.Client, p.At(p.elapsed(0))) {
		return
	}
	ctx.Writer.WriteProjectile(int32(p.handle.Index()), p.info())
}
