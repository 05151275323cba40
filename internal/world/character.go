package world

import (
	"context"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/lifecycle"
)

const (
	maxHealth = 10
	maxArmor  = 10

	// hiddenAfterTicks is how long an invisible character must stay
	// undisturbed before it disappears from other clients' snapshots.
	hiddenAfterTicks = 100
	// revealDistance breaks invisibility when another body comes this close.
	revealDistance = protocol.PhysSize * 1.25
)

// WeaponSlot is one entry of a character's inventory. Ammo is meaningless
// while Infinite is set.
type WeaponSlot struct {
	Got        bool
	Ammo       int
	Infinite   bool
	RegenStart opt.Value[int]
}

func (s WeaponSlot) hasAmmo() bool {
	return s.Infinite || s.Ammo > 0
}

type ninjaState struct {
	activationTick  int
	activationDir   geom.Vec2
	currentMoveTime int
	oldVelAmount    float32
}

// Character is the in-world body of a player.
type Character struct {
	base
	game   *Game
	player *Player

	alive  bool
	paused bool

	core          physics.Core
	sendCore      physics.Core
	reckoningCore physics.Core
	reckoningTick int

	prevPos geom.Vec2
	health  int
	armor   int

	weapons      [protocol.NumWeapons]WeaponSlot
	activeWeapon protocol.Weapon
	lastWeapon   protocol.Weapon
	queuedWeapon opt.Value[protocol.Weapon]
	reloadTimer  int
	attackTick   int

	ninja         ninjaState
	ninjaByFreeze bool
	// hits holds the client ids struck by the current swing or dash.
	hits []int

	emote           protocol.Emote
	emoteStop       opt.Value[int]
	lastAction      opt.Value[int]
	lastNoAmmoSound opt.Value[int]

	damageTaken     int
	damageTakenTick int

	input           protocol.PlayerInput
	prevInput       protocol.PlayerInput
	latestInput     protocol.PlayerInput
	latestPrevInput protocol.PlayerInput
	numInputs       int

	bloodTicks int

	frozenBy       opt.Value[int]
	moltenBy       opt.Value[int]
	moltenAt       opt.Value[int]
	moltenByHammer bool
	hammeredBy     opt.Value[int]

	invisibleTicks int
	hidden         bool
}

func newCharacter(g *Game) *Character {
	return &Character{
		base: base{kind: KindCharacter, radius: protocol.PhysSize},
		game: g,
	}
}

// Spawn places the character for player at pos and enters it into the world
// and the physics table.
func (c *Character) Spawn(p *Player, pos geom.Vec2) {
	g := c.game
	c.player = p
	c.pos = pos
	c.prevPos = pos
	c.activeWeapon = protocol.WeaponGun
	c.lastWeapon = protocol.WeaponHammer
	c.queuedWeapon = opt.None[protocol.Weapon]()
	c.emoteStop = opt.None[int]()
	c.lastAction = opt.None[int]()
	c.lastNoAmmoSound = opt.None[int]()
	c.paused = false

	c.core.Reset()
	c.core.Init(g.core, g.collision)
	c.core.Pos = pos
	g.core.Insert(p.id, &c.core)

	c.reckoningTick = 0
	c.sendCore = physics.Core{}
	c.reckoningCore = physics.Core{}

	g.world.Insert(c)
	c.alive = true
	p.character = c

	g.controller.OnCharacterSpawn(c)

	c.bloodTicks = 0
	c.frozenBy = opt.None[int]()
	c.moltenBy = opt.None[int]()
	c.moltenAt = opt.None[int]()
	c.moltenByHammer = false
	c.hammeredBy = opt.None[int]()
	c.invisibleTicks = 0
	c.hidden = false
	c.core.Protected = p.Abilities.Has(AbilityProtected)

	lifecycle.CharacterSpawned(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(p.id), lifecycle.CharacterSpawnedPayload{SpawnX: float64(pos[0]), SpawnY: float64(pos[1])}, nil)
}

func (c *Character) Player() *Player { return c.player }
func (c *Character) ID() int { return c.player.id }
func (c *Character) Alive() bool { return c.alive }
func (c *Character) Paused() bool { return c.paused }
func (c *Character) Health() int { return c.health }
func (c *Character) Armor() int { return c.armor }
func (c *Character) Core() *physics.Core { return &c.core }
func (c *Character) ActiveWeapon() protocol.Weapon { return c.activeWeapon }
func (c *Character) LastWeapon() protocol.Weapon { return c.lastWeapon }
func (c *Character) ReloadTimer() int { return c.reloadTimer }
func (c *Character) Emote() protocol.Emote { return c.emote }
func (c *Character) Hidden() bool { return c.hidden }
func (c *Character) FreezeTicks() int { return c.core.Frozen }
func (c *Character) FrozenBy() opt.Value[int] { return c.frozenBy }
func (c *Character) MoltenBy() opt.Value[int] { return c.moltenBy }
func (c *Character) MoltenByHammer() bool { return c.moltenByHammer }
func (c *Character) HammeredBy() opt.Value[int] { return c.hammeredBy }

// QueuedWeapon returns the switch waiting for the reload to end.
func (c *Character) QueuedWeapon() opt.Value[protocol.Weapon] { return c.queuedWeapon }

// Weapon returns a copy of the inventory slot w. Invalid ids yield an empty
// slot.
func (c *Character) Weapon(w protocol.Weapon) WeaponSlot {
	if !w.Valid() {
		return WeaponSlot{}
	}
	return c.weapons[w]
}

// SetHealth sets health and armor, clamped to their ranges.
func (c *Character) SetHealth(health, armor int) {
	c.health = max(0, min(health, maxHealth))
	c.armor = max(0, min(armor, maxArmor))
}

// SetEmote shows emote until the given tick.
func (c *Character) SetEmote(emote protocol.Emote, until int) {
	c.emote = emote
	c.emoteStop = opt.Some(until)
}

// Teleport moves the body without velocity change.
func (c *Character) Teleport(pos geom.Vec2) {
	c.core.Pos = pos
	c.pos = pos
}

func (c *Character) grounded() bool {
	return physics.Grounded(c.game.collision, c.pos)
}

func (c *Character) reveal() {
	c.hidden = false
	c.invisibleTicks = 0
}

// Tick is the per-tick update of the character.
func (c *Character) Tick() {
	g := c.game
	p := c.player

	if p.ForceBalanced {
		g.fx.Broadcast(p.id, "You were moved to "+g.controller.TeamName(p.team)+" due to team balancing")
		p.ForceBalanced = false
	}

	if c.paused {
		return
	}

	if p.Abilities.Has(AbilityInvisible) {
		for _, other := range g.world.Characters() {
			if other == c {
				continue
			}
			if d := geom.Distance(c.pos, other.pos); d < revealDistance && d > 0 {
				c.reveal()
				g.effect(EffectShield, c.pos, p.id)
			}
		}
	}

	c.core.Input = c.input
	c.core.Tick(true)

	c.applyModifiers()

	if c.bloodTicks > 0 {
		if c.bloodTicks%g.settings.BloodInterval == 0 {
			g.effect(EffectDeath, c.core.Pos, p.id)
		}
		c.bloodTicks--
	}

	if g.collision.CollisionAt(c.pos).Has(collision.FlagDeath) || g.collision.Clipped(c.pos) {
		// no freeze left, so this never counts as a sacrifice
		c.core.Frozen = 0
		c.Die(p.id, protocol.WeaponWorld, false)
		return
	}

	c.tickFreeze()
	c.handleWeapons()

	c.prevInput = c.input

	if p.Abilities.Has(AbilityInvisible) {
		if !c.hidden && p.pause == PauseNone {
			c.invisibleTicks++
		}
		if c.invisibleTicks >= hiddenAfterTicks && c.core.Frozen <= 0 {
			c.hidden = true
			c.invisibleTicks = 0
			g.effect(EffectShield, c.pos, p.id)
		}
	}

	if id, ok := c.core.HookedPlayer.Get(); ok {
		if hooked := g.CharacterOf(id); hooked != nil && hooked.player.Abilities.Has(AbilityInvisible) {
			hooked.reveal()
		}
	}
	if p.Abilities.Has(AbilityInvisible) && (c.core.HookedPlayer.IsSome() || c.input.Hook != 0) {
		c.reveal()
	}

	c.prevPos = c.core.Pos
}

// applyModifiers runs the award movement helpers after the physics step.
func (c *Character) applyModifiers() {
	g := c.game
	p := c.player
	t := g.tuning
	frozen := c.core.Frozen > 0

	if p.Abilities.Has(AbilityJetPack) && !frozen && c.core.Jumped&1 == 0 && c.input.Jump != 0 {
		c.core.Vel[1] += -1.5 * (400.0 / 100.0 / 6.11)
		if g.tick%max(1, g.tickSpeed/10) == 0 {
			if p.Abilities.Has(AbilityInvisible) {
				c.reveal()
			}
			g.sound(c.core.Pos, protocol.SoundWeaponSwitch, protocol.MaskAll)
			var dx float32
			switch {
			case c.input.Direction > 0:
				dx = 28
			case c.input.Direction < 0:
				dx = -28
			}
			if c.core.Vel[1] < 0 {
				g.damageIndicator(c.core.Pos.Sub(geom.V(dx, -28)), 0.3, int(c.input.Jump))
			} else {
				g.damageIndicator(c.core.Pos.Sub(geom.V(dx, 28)), 60, int(c.input.Jump))
			}
		}
	}

	if p.Abilities.Has(AbilitySpeedRunner) && !frozen {
		var maxSpeed, accel float32
		if c.grounded() {
			maxSpeed, accel = t.GroundControlSpeed*3, t.GroundControlAccel
		}
		c.steer(maxSpeed, accel)
	}

	if c.core.ProtectedBy && frozen {
		maxSpeed, accel := t.AirControlSpeed*4, t.AirControlAccel
		if c.grounded() {
			maxSpeed, accel = t.GroundControlSpeed*2, t.GroundControlAccel
		}
		c.steer(maxSpeed, accel)
	}
}

func (c *Character) steer(maxSpeed, accel float32) {
	switch c.input.Direction {
	case 1:
		c.core.Vel[0] = geom.SaturatedAdd(-maxSpeed, maxSpeed, c.core.Vel[0], accel)
	case -1:
		c.core.Vel[0] = geom.SaturatedAdd(-maxSpeed, maxSpeed, c.core.Vel[0], -accel)
	}
}

// tickFreeze keeps the frozen look (forced ninja) in sync with the freeze
// counter.
func (c *Character) tickFreeze() {
	g := c.game
	if c.core.Frozen > 0 {
		if c.activeWeapon != protocol.WeaponNinja {
			c.GiveNinja(true)
			c.ninjaByFreeze = true
		} else if c.ninja.activationTick+5*g.tickSpeed < g.tick {
			// keep the ninja from expiring client side while still frozen
			c.ninja.activationTick = g.tick
		}
		c.moltenBy = opt.None[int]()
		c.moltenAt = opt.None[int]()
		c.moltenByHammer = false
		return
	}

	if c.activeWeapon == protocol.WeaponNinja && (c.ninjaByFreeze || c.ninjaExpired()) {
		c.TakeNinja()
		c.moltenAt = opt.Some(g.tick)
		c.core.ProtectedBy = false
	}
	c.frozenBy = opt.None[int]()
}

// TickPaused shifts every tick stamp so timers resume where they stopped.
func (c *Character) TickPaused() {
	c.attackTick++
	c.damageTakenTick++
	c.ninja.activationTick++
	c.reckoningTick++
	c.lastAction = opt.Map(c.lastAction, inc)
	if c.activeWeapon.Valid() {
		slot := &c.weapons[c.activeWeapon]
		slot.RegenStart = opt.Map(slot.RegenStart, inc)
	}
	c.emoteStop = opt.Map(c.emoteStop, inc)
}

func inc(v int) int { return v + 1 }

// Pause takes the character out of the world without killing it, or puts it
// back. A held hook is released.
func (c *Character) Pause(pause bool) {
	g := c.game
	c.paused = pause
	if pause {
		g.core.Remove(c.player.id)
		g.world.Remove(c.handle)
		c.core.ReleaseHook()
	} else {
		c.core.Vel = geom.Vec2{}
		g.core.Insert(c.player.id, &c.core)
		g.world.Insert(c)
	}
	c.player.publishPause(pause)
}

// OnPredictedInput stores the input the next tick simulates.
func (c *Character) OnPredictedInput(in protocol.PlayerInput) {
	if in != c.input {
		c.lastAction = opt.Some(c.game.tick)
	}
	c.input = in
	c.numInputs++

	// aiming at the center is not allowed
	if c.input.TargetX == 0 && c.input.TargetY == 0 {
		c.input.TargetY = -1
	}
}

// OnDirectInput handles switching and firing the moment an input arrives.
func (c *Character) OnDirectInput(in protocol.PlayerInput) {
	c.latestPrevInput = c.latestInput
	c.latestInput = in

	if c.latestInput.TargetX == 0 && c.latestInput.TargetY == 0 {
		c.latestInput.TargetY = -1
	}

	if c.numInputs > 2 && c.player.team != protocol.TeamSpectators {
		c.handleWeaponSwitch()
		c.fireWeapon()
	}

	c.latestPrevInput = c.latestInput
}

// ResetInput drops movement and simulates releasing fire.
func (c *Character) ResetInput() {
	c.input.Direction = 0
	c.input.Hook = 0
	if c.input.Fire&1 != 0 {
		c.input.Fire++
	}
	c.input.Fire &= protocol.InputStateMask
	c.input.Jump = 0
	c.latestInput = c.input
	c.latestPrevInput = c.input
}
