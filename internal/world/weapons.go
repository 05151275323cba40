package world

import (
	"math"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
)

const (
	// maxSwitchPresses caps the relative weapon selection of one input.
	maxSwitchPresses = 127
	// maxHits bounds the per swing hit list.
	maxHits = 10
	// noAmmoReloadMs is the click rate limit while out of ammo.
	noAmmoReloadMs = 125
)

var shotgunSpread = [...]float32{-0.185, -0.070, 0, 0.070, 0.185}

// SetActiveWeapon switches immediately. Out of range ids select the hammer.
func (c *Character) SetActiveWeapon(w protocol.Weapon) {
	if w == c.activeWeapon {
		return
	}
	c.lastWeapon = c.activeWeapon
	c.queuedWeapon = opt.None[protocol.Weapon]()
	c.activeWeapon = w
	c.game.sound(c.pos, protocol.SoundWeaponSwitch, protocol.MaskAll)

	if !c.activeWeapon.Valid() {
		c.activeWeapon = protocol.WeaponHammer
	}
}

func (c *Character) ownsAny() bool {
	for _, slot := range c.weapons {
		if slot.Got {
			return true
		}
	}
	return false
}

// RequestSwitch walks next presses forward and prev presses backward through
// the owned weapons, starting from the queued weapon if any. Press counts
// saturate at 127. An explicit slot overrides the walk. The result is queued
// and applied when the reload allows it.
func (c *Character) RequestSwitch(next, prev int, explicit opt.Value[protocol.Weapon]) {
	wanted := c.queuedWeapon.Or(c.activeWeapon)

	next = max(0, min(next, maxSwitchPresses))
	prev = max(0, min(prev, maxSwitchPresses))
	if c.ownsAny() {
		for next > 0 {
			wanted = (wanted + 1) % protocol.NumWeapons
			if c.weapons[wanted].Got {
				next--
			}
		}
		for prev > 0 {
			wanted--
			if wanted < 0 {
				wanted = protocol.NumWeapons - 1
			}
			if c.weapons[wanted].Got {
				prev--
			}
		}
	}

	if w, ok := explicit.Get(); ok {
		wanted = w
	}

	if wanted.Valid() && wanted != c.activeWeapon && c.weapons[wanted].Got {
		c.queuedWeapon = opt.Some(wanted)
	}

	c.doWeaponSwitch()
}

func (c *Character) handleWeaponSwitch() {
	next := protocol.CountInput(c.latestPrevInput.NextWeapon, c.latestInput.NextWeapon).Presses
	prev := protocol.CountInput(c.latestPrevInput.PrevWeapon, c.latestInput.PrevWeapon).Presses
	explicit := opt.None[protocol.Weapon]()
	if c.latestInput.WantedWeapon != 0 {
		explicit = opt.Some(protocol.Weapon(c.latestInput.WantedWeapon - 1))
	}
	c.RequestSwitch(next, prev, explicit)
}

func (c *Character) doWeaponSwitch() {
	w, ok := c.queuedWeapon.Get()
	if c.reloadTimer != 0 || !ok || c.weapons[protocol.WeaponNinja].Got {
		return
	}
	c.SetActiveWeapon(w)
}

func (c *Character) ninjaExpired() bool {
	g := c.game
	return g.tick-c.ninja.activationTick > g.weapons.Ninja.DurationMs*g.tickSpeed/1000
}

func (c *Character) handleNinja() {
	if c.activeWeapon != protocol.WeaponNinja {
		return
	}
	if c.ninjaExpired() {
		c.TakeNinja()
		return
	}

	g := c.game
	c.ninja.currentMoveTime--

	if c.ninja.currentMoveTime == 0 {
		c.core.Vel = c.ninja.activationDir.Mul(c.ninja.oldVelAmount)
	}
	if c.ninja.currentMoveTime <= 0 {
		return
	}

	c.core.Vel = c.ninja.activationDir.Mul(g.weapons.Ninja.Velocity)
	oldPos := c.core.Pos
	c.core.Pos, c.core.Vel = g.collision.MoveBox(c.core.Pos, c.core.Vel, physics.BoxSize, 0)
	// no residual velocity for clients to predict
	c.core.Vel = geom.Vec2{}

	dir := c.core.Pos.Sub(oldPos)
	center := oldPos.Add(dir.Mul(0.5))
	for _, target := range g.world.FindCharacters(center, c.radius*2) {
		if target == c || c.alreadyHit(target.player.id) {
			continue
		}
		if geom.Distance(target.pos, c.core.Pos) > c.radius*2 {
			continue
		}
		g.sound(target.pos, protocol.SoundNinjaHit, protocol.MaskAll)
		c.recordHit(target.player.id)
		target.TakeDamage(geom.V(0, -10), g.weapons.Spec(protocol.WeaponNinja).Damage, c.player.id, protocol.WeaponNinja)
	}
}

func (c *Character) alreadyHit(id int) bool {
	for _, hit := range c.hits {
		if hit == id {
			return true
		}
	}
	return false
}

func (c *Character) recordHit(id int) {
	if len(c.hits) < maxHits {
		c.hits = append(c.hits, id)
	}
}

// handleWeapons runs the weapon part of the tick: ninja dash, reload, fire,
// ammo regeneration.
func (c *Character) handleWeapons() {
	c.handleNinja()

	if c.reloadTimer != 0 {
		c.reloadTimer--
		return
	}

	c.fireWeapon()
	c.regenAmmo()
}

func (c *Character) regenAmmo() {
	g := c.game
	if !c.activeWeapon.Valid() {
		return
	}
	regenMs := g.weapons.Spec(c.activeWeapon).AmmoRegenMs
	if regenMs == 0 {
		return
	}
	slot := &c.weapons[c.activeWeapon]
	if c.reloadTimer > 0 {
		slot.RegenStart = opt.None[int]()
		return
	}
	start, ok := slot.RegenStart.Get()
	if !ok {
		start = g.tick
		slot.RegenStart = opt.Some(start)
	}
	if g.tick-start >= regenMs*g.tickSpeed/1000 {
		if !slot.Infinite {
			slot.Ammo = min(slot.Ammo+1, g.weapons.Spec(c.activeWeapon).MaxAmmo)
		}
		slot.RegenStart = opt.None[int]()
	}
}

func (c *Character) fullAuto() bool {
	switch c.activeWeapon {
	case protocol.WeaponGrenade, protocol.WeaponShotgun, protocol.WeaponRifle:
		return true
	case protocol.WeaponHammer:
		return c.game.settings.AutoHammer
	}
	return false
}

func (c *Character) fireWeapon() {
	if c.reloadTimer != 0 {
		return
	}
	g := c.game
	c.doWeaponSwitch()
	if !c.activeWeapon.Valid() {
		return
	}
	fired := c.activeWeapon
	slot := &c.weapons[fired]

	willFire := protocol.CountInput(c.latestPrevInput.Fire, c.latestInput.Fire).Presses > 0
	if c.fullAuto() && c.latestInput.Fire&1 != 0 && slot.hasAmmo() {
		willFire = true
	}
	if !g.settings.Ninja && fired == protocol.WeaponNinja {
		willFire = false
	}
	if !willFire {
		return
	}

	if !slot.hasAmmo() {
		c.reloadTimer = noAmmoReloadMs * g.tickSpeed / 1000
		if last, ok := c.lastNoAmmoSound.Get(); !ok || last+g.tickSpeed <= g.tick {
			g.sound(c.pos, protocol.SoundWeaponNoAmmo, protocol.MaskAll)
			c.lastNoAmmoSound = opt.Some(g.tick)
		}
		return
	}

	direction := geom.Normalize(geom.V(float32(c.latestInput.TargetX), float32(c.latestInput.TargetY)))
	projStart := c.pos.Add(direction.Mul(c.radius * 0.75))

	if c.player.Abilities.Has(AbilityInvisible) {
		c.reveal()
	}

	switch fired {
	case protocol.WeaponHammer:
		c.fireHammer(projStart)
	case protocol.WeaponGun:
		p := newProjectile(g, projectileSpec{
			weapon:   protocol.WeaponGun,
			owner:    c.player.id,
			pos:      projStart,
			dir:      direction,
			lifeSpan: int(float32(g.tickSpeed) * g.tuning.GunLifetime),
			damage:   g.weapons.Spec(protocol.WeaponGun).Damage,
		})
		g.fx.ExtraProjectiles(c.player.id, []protocol.Projectile{p.info()})
		g.sound(c.pos, protocol.SoundGunFire, protocol.MaskAll)
	case protocol.WeaponShotgun:
		infos := make([]protocol.Projectile, 0, len(shotgunSpread))
		a := geom.Angle(direction)
		half := len(shotgunSpread) / 2
		for i, spread := range shotgunSpread {
			v := 1 - float32(math.Abs(float64(i-half)))/float32(half)
			speed := geom.MixScalar(g.tuning.ShotgunSpeeddiff, 1, v)
			p := newProjectile(g, projectileSpec{
				weapon:   protocol.WeaponShotgun,
				owner:    c.player.id,
				pos:      projStart,
				dir:      geom.Direction(a + spread).Mul(speed),
				lifeSpan: int(float32(g.tickSpeed) * g.tuning.ShotgunLifetime),
				damage:   g.weapons.Spec(protocol.WeaponShotgun).Damage,
			})
			infos = append(infos, p.info())
		}
		g.fx.ExtraProjectiles(c.player.id, infos)
		g.sound(c.pos, protocol.SoundShotgunFire, protocol.MaskAll)
	case protocol.WeaponGrenade:
		p := newProjectile(g, projectileSpec{
			weapon:      protocol.WeaponGrenade,
			owner:       c.player.id,
			pos:         projStart,
			dir:         direction,
			lifeSpan:    int(float32(g.tickSpeed) * g.tuning.GrenadeLifetime),
			damage:      g.weapons.Spec(protocol.WeaponGrenade).Damage,
			explosive:   true,
			impactSound: opt.Some(protocol.SoundGrenadeExplode),
		})
		g.fx.ExtraProjectiles(c.player.id, []protocol.Projectile{p.info()})
		g.sound(c.pos, protocol.SoundGrenadeFire, protocol.MaskAll)
	case protocol.WeaponRifle:
		if c.player.Abilities.Has(AbilityRifleSpread) {
			a := geom.Angle(direction)
			// two beams at -0.07 and 0 radians off the aim
			for i := -1; i < 1; i++ {
				NewLaser(g, c.pos, geom.Direction(a+0.070*float32(i)), g.tuning.LaserReach, opt.Some(c.player.id))
			}
		} else {
			NewLaser(g, c.pos, direction, g.tuning.LaserReach, opt.Some(c.player.id))
		}
		g.sound(c.pos, protocol.SoundRifleFire, protocol.MaskAll)
	case protocol.WeaponNinja:
		c.hits = c.hits[:0]
		c.ninja.activationDir = direction
		c.ninja.currentMoveTime = g.weapons.Ninja.MoveTimeMs * g.tickSpeed / 1000
		c.ninja.oldVelAmount = geom.Length(c.core.Vel)
		g.sound(c.pos, protocol.SoundNinjaFire, protocol.MaskAll)
	}

	c.attackTick = g.tick

	if c.player.Abilities.Has(AbilityGrenadeLauncher) && !g.settings.UnlimitedAmmo &&
		fired == protocol.WeaponGrenade && !slot.Infinite && slot.Ammo <= 1 {
		c.TakeWeapon(protocol.WeaponGrenade)
	}

	spec := g.weapons.Spec(fired)
	if !g.settings.UnlimitedAmmo && spec.ConsumesAmmo && !slot.Infinite && slot.Ammo > 0 {
		slot.Ammo--
	}

	if c.reloadTimer == 0 {
		c.reloadTimer = spec.FireDelayMs * g.tickSpeed / 1000
	}
}

// GiveWeapon adds w with ammo capped at the weapon maximum. It reports false
// when w is already owned with full ammo.
func (c *Character) GiveWeapon(w protocol.Weapon, ammo int) bool {
	if !w.Valid() {
		return false
	}
	maxAmmo := c.game.weapons.Spec(w).MaxAmmo
	slot := &c.weapons[w]
	if slot.Got && (slot.Infinite || slot.Ammo >= maxAmmo) {
		return false
	}
	slot.Got = true
	slot.Infinite = false
	slot.Ammo = max(0, min(maxAmmo, ammo))
	return true
}

// GiveInfiniteWeapon adds w with unlimited ammo.
func (c *Character) GiveInfiniteWeapon(w protocol.Weapon) bool {
	if !w.Valid() {
		return false
	}
	slot := &c.weapons[w]
	if slot.Got && slot.Infinite {
		return false
	}
	slot.Got = true
	slot.Infinite = true
	slot.Ammo = 0
	return true
}

// TakeWeapon removes w unless it is the last weapon owned. An active w is
// replaced by the last weapon or the first owned one.
func (c *Character) TakeWeapon(w protocol.Weapon) bool {
	owned := 0
	for _, slot := range c.weapons {
		if slot.Got {
			owned++
		}
	}
	if !w.Valid() || owned <= 1 || !c.weapons[w].Got {
		return false
	}

	c.weapons[w].Got = false

	if c.activeWeapon == w {
		c.SetActiveWeapon(c.fallbackWeapon(w))
	}
	if c.lastWeapon.Valid() && !c.weapons[c.lastWeapon].Got {
		c.lastWeapon = c.activeWeapon
	}
	if q, ok := c.queuedWeapon.Get(); ok && !c.weapons[q].Got {
		c.queuedWeapon = opt.None[protocol.Weapon]()
	}
	return true
}

func (c *Character) fallbackWeapon(except protocol.Weapon) protocol.Weapon {
	if c.lastWeapon.Valid() && c.lastWeapon != except && c.weapons[c.lastWeapon].Got {
		return c.lastWeapon
	}
	for w := protocol.Weapon(0); w < protocol.NumWeapons; w++ {
		if w != except && c.weapons[w].Got {
			return w
		}
	}
	return protocol.WeaponHammer
}

// GiveNinja activates the ninja. silent skips the pickup sound.
func (c *Character) GiveNinja(silent bool) {
	c.ninja.activationTick = c.game.tick
	slot := &c.weapons[protocol.WeaponNinja]
	slot.Got = true
	slot.Infinite = true
	if c.activeWeapon != protocol.WeaponNinja {
		c.lastWeapon = c.activeWeapon
	}
	c.activeWeapon = protocol.WeaponNinja
	c.ninjaByFreeze = false

	if !silent {
		c.game.sound(c.pos, protocol.SoundPickupNinja, protocol.MaskAll)
	}
}

// TakeNinja ends the ninja and returns to the weapon held before it, or the
// first owned weapon if that one is gone.
func (c *Character) TakeNinja() {
	if c.activeWeapon != protocol.WeaponNinja {
		return
	}
	c.weapons[protocol.WeaponNinja].Got = false
	c.ninjaByFreeze = false
	c.activeWeapon = c.lastWeapon
	if c.activeWeapon == protocol.WeaponNinja || !c.activeWeapon.Valid() || !c.weapons[c.activeWeapon].Got {
		c.activeWeapon = c.fallbackWeapon(protocol.WeaponNinja)
	}
}
