package physics

import (
	"math"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// HookState is the hook state machine position.
type HookState int32

const (
	HookRetracted    HookState = -1
	HookIdle         HookState = 0
	HookRetractStart HookState = 1
	HookRetractEnd   HookState = 3
	HookFlying       HookState = 4
	HookGrabbed      HookState = 5
)

// Event is a bit set of structural movement events raised during one step.
type Event int

const (
	EventGroundJump Event = 1 << iota
	EventAirJump
	EventHookLaunch
	EventHookAttachPlayer
	EventHookAttachGround
	EventHookHitNoHook
	EventHookRetract
)

const (
	physSize      = float32(protocol.PhysSize)
	maxVelocity   = 6000
	hookDragRange = 46
	velScale      = 256
)

// BoxSize is the collision box of a character.
var BoxSize = geom.V(physSize, physSize)

// Core is the simulated physical state of one character.
type Core struct {
	Pos          geom.Vec2
	Vel          geom.Vec2
	HookPos      geom.Vec2
	HookDir      geom.Vec2
	HookTick     int
	HookState    HookState
	HookedPlayer opt.Value[int]
	// Jumped bit 0 latches the jump input, bit 1 records the air jump.
	Jumped          int
	Direction       int
	Angle           int
	TriggeredEvents Event
	Input           protocol.PlayerInput

	// Frozen is the remaining freeze duration in ticks.
	Frozen      int
	Protected   bool
	ProtectedBy bool

	world     *WorldCore
	collision collision.Surface
}

// Init attaches the core to a world table and collision surface.
func (c *Core) Init(world *WorldCore, col collision.Surface) {
	c.world = world
	c.collision = col
}

// Reset clears the movement state. Status fields are kept.
func (c *Core) Reset() {
	c.Pos = geom.Vec2{}
	c.Vel = geom.Vec2{}
	c.HookPos = geom.Vec2{}
	c.HookDir = geom.Vec2{}
	c.HookTick = 0
	c.HookState = HookIdle
	c.HookedPlayer = opt.None[int]()
	c.Jumped = 0
	c.TriggeredEvents = 0
}

func (c *Core) tuning() Tuning {
	if c.world == nil {
		return DefaultTuning()
	}
	return c.world.Tuning
}

// Grounded reports whether a body at pos stands on solid ground.
func Grounded(col collision.Surface, pos geom.Vec2) bool {
	if col == nil {
		return false
	}
	if col.CheckPoint(geom.V(pos[0]+physSize/2, pos[1]+physSize/2+5)) {
		return true
	}
	return col.CheckPoint(geom.V(pos[0]-physSize/2, pos[1]+physSize/2+5))
}

// ReleaseHook drops any grab and raises the retract event.
func (c *Core) ReleaseHook() {
	if c.HookedPlayer.IsNone() {
		return
	}
	c.HookedPlayer = opt.None[int]()
	c.HookState = HookRetracted
	c.TriggeredEvents |= EventHookRetract
}

// Tick advances velocity and hook state by one step. Input is only read when
// useInput is set; otherwise the last direction keeps applying.
func (c *Core) Tick(useInput bool) {
	t := c.tuning()
	c.TriggeredEvents = 0

	input := c.Input
	if c.Frozen > 0 {
		c.Frozen--
		input.Direction = 0
		input.Jump = 0
		input.Hook = 0
	}

	grounded := Grounded(c.collision, c.Pos)
	targetDir := geom.Normalize(geom.V(float32(input.TargetX), float32(input.TargetY)))

	c.Vel[1] += t.Gravity

	maxSpeed, accel, friction := t.AirControlSpeed, t.AirControlAccel, t.AirFriction
	if grounded {
		maxSpeed, accel, friction = t.GroundControlSpeed, t.GroundControlAccel, t.GroundFriction
	}

	if useInput {
		c.Direction = int(input.Direction)
		c.Angle = aimAngle(input.TargetX, input.TargetY)

		if input.Jump != 0 {
			if c.Jumped&1 == 0 {
				if grounded {
					c.TriggeredEvents |= EventGroundJump
					c.Vel[1] = -t.GroundJumpImpulse
					c.Jumped |= 1
				} else if c.Jumped&2 == 0 {
					c.TriggeredEvents |= EventAirJump
					c.Vel[1] = -t.AirJumpImpulse
					c.Jumped |= 3
				}
			}
		} else {
			c.Jumped &^= 1
		}

		if input.Hook != 0 {
			if c.HookState == HookIdle {
				c.HookState = HookFlying
				c.HookPos = c.Pos.Add(targetDir.Mul(physSize * 1.5))
				c.HookDir = targetDir
				c.HookedPlayer = opt.None[int]()
				c.HookTick = 0
				c.TriggeredEvents |= EventHookLaunch
			}
		} else {
			c.HookedPlayer = opt.None[int]()
			c.HookState = HookIdle
			c.HookPos = c.Pos
		}
	}

	switch {
	case c.Direction < 0:
		c.Vel[0] = geom.SaturatedAdd(-maxSpeed, maxSpeed, c.Vel[0], -accel)
	case c.Direction > 0:
		c.Vel[0] = geom.SaturatedAdd(-maxSpeed, maxSpeed, c.Vel[0], accel)
	default:
		c.Vel[0] *= friction
	}

	if grounded {
		c.Jumped &^= 2
	}

	c.tickHook(t)
	c.tickPlayerInteraction(t)

	if c.Vel.Len() > maxVelocity {
		c.Vel = geom.Normalize(c.Vel).Mul(maxVelocity)
	}
}

func aimAngle(tx, ty int32) int {
	var a float64
	if tx == 0 {
		a = math.Atan(float64(ty))
	} else {
		a = math.Atan(float64(ty) / float64(tx))
	}
	if tx < 0 {
		a += math.Pi
	}
	return int(float32(a) * 256)
}

func (c *Core) tickHook(t Tuning) {
	switch {
	case c.HookState == HookIdle:
		c.HookedPlayer = opt.None[int]()
		c.HookPos = c.Pos
	case c.HookState >= HookRetractStart && c.HookState < HookRetractEnd:
		c.HookState++
	case c.HookState == HookRetractEnd:
		c.HookState = HookRetracted
		c.TriggeredEvents |= EventHookRetract
	case c.HookState == HookFlying:
		c.tickFlyingHook(t)
	}

	if c.HookState != HookGrabbed {
		return
	}

	if id, ok := c.HookedPlayer.Get(); ok {
		if other := c.world.Get(id); other != nil {
			c.HookPos = other.Pos
		} else {
			c.HookedPlayer = opt.None[int]()
			c.HookState = HookRetracted
			c.HookPos = c.Pos
		}
	}

	if c.HookedPlayer.IsNone() && geom.Distance(c.HookPos, c.Pos) > hookDragRange {
		hookVel := geom.Normalize(c.HookPos.Sub(c.Pos)).Mul(t.HookDragAccel)
		// pulling up is stronger than pulling down
		if hookVel[1] > 0 {
			hookVel[1] *= 0.3
		}
		if (hookVel[0] < 0 && c.Direction < 0) || (hookVel[0] > 0 && c.Direction > 0) {
			hookVel[0] *= 0.95
		} else {
			hookVel[0] *= 0.75
		}
		newVel := c.Vel.Add(hookVel)
		if newVel.Len() < t.HookDragSpeed || newVel.Len() < c.Vel.Len() {
			c.Vel = newVel
		}
	}

	c.HookTick++
	speed := c.world.tickSpeed()
	if id, ok := c.HookedPlayer.Get(); ok && (c.HookTick > speed+speed/5 || c.world.Get(id) == nil) {
		c.HookedPlayer = opt.None[int]()
		c.HookState = HookRetracted
		c.HookPos = c.Pos
	}
}

func (c *Core) tickFlyingHook(t Tuning) {
	newPos := c.HookPos.Add(c.HookDir.Mul(t.HookFireSpeed))
	if geom.Distance(c.Pos, newPos) > t.HookLength {
		c.HookState = HookRetractStart
		newPos = c.Pos.Add(geom.Normalize(newPos.Sub(c.Pos)).Mul(t.HookLength))
	}

	goingToHitGround := false
	goingToRetract := false
	if c.collision != nil {
		if hit, ok := c.collision.IntersectLine(c.HookPos, newPos); ok {
			newPos = hit.Point
			if hit.Flags&collision.FlagNoHook != 0 {
				goingToRetract = true
			} else {
				goingToHitGround = true
			}
		}
	}

	if c.world != nil && t.PlayerHooking {
		var best float32
		for i, other := range c.world.Characters {
			if other == nil || other == c {
				continue
			}
			closest := geom.ClosestPointOnLine(c.HookPos, newPos, other.Pos)
			if geom.Distance(other.Pos, closest) < physSize+2 {
				d := geom.Distance(c.HookPos, other.Pos)
				if c.HookedPlayer.IsNone() || d < best {
					c.TriggeredEvents |= EventHookAttachPlayer
					c.HookState = HookGrabbed
					c.HookedPlayer = opt.Some(i)
					best = d
				}
			}
		}
	}

	if c.HookState == HookFlying {
		if goingToHitGround {
			c.TriggeredEvents |= EventHookAttachGround
			c.HookState = HookGrabbed
		} else if goingToRetract {
			c.TriggeredEvents |= EventHookHitNoHook
			c.HookState = HookRetractStart
		}
		c.HookPos = newPos
	}
}

func (c *Core) tickPlayerInteraction(t Tuning) {
	if c.world == nil {
		return
	}
	hooked, hooking := c.HookedPlayer.Get()
	for i, other := range c.world.Characters {
		if other == nil || other == c {
			continue
		}
		distance := geom.Distance(c.Pos, other.Pos)
		dir := geom.Normalize(c.Pos.Sub(other.Pos))
		if t.PlayerCollision && distance < physSize*1.25 && distance > 0 {
			a := physSize*1.45 - distance
			velocity := float32(0.5)
			// avoid adding force along the current motion
			if c.Vel.Len() > 0.0001 {
				velocity = 1 - (geom.Normalize(c.Vel).Dot(dir)+1)/2
			}
			c.Vel = c.Vel.Add(dir.Mul(a * velocity * 0.75))
			c.Vel = c.Vel.Mul(0.85)
		}

		if hooking && hooked == i && t.PlayerHooking && distance > physSize*1.5 {
			accel := t.HookDragAccel * (distance / t.HookLength)
			drag := t.HookDragSpeed
			other.Vel[0] = geom.SaturatedAdd(-drag, drag, other.Vel[0], accel*dir[0]*1.5)
			other.Vel[1] = geom.SaturatedAdd(-drag, drag, other.Vel[1], accel*dir[1]*1.5)
			c.Vel[0] = geom.SaturatedAdd(-drag, drag, c.Vel[0], -accel*dir[0]*0.25)
			c.Vel[1] = geom.SaturatedAdd(-drag, drag, c.Vel[1], -accel*dir[1]*0.25)
		}
	}
}

// Move applies the velocity through the collision surface, stopping short of
// other characters when player collision is on.
func (c *Core) Move() {
	t := c.tuning()
	ramp := geom.VelocityRamp(c.Vel.Len()*50, t.VelrampStart, t.VelrampRange, t.VelrampCurvature)

	c.Vel[0] *= ramp
	newPos := c.Pos
	if c.collision != nil {
		newPos, c.Vel = c.collision.MoveBox(c.Pos, c.Vel, BoxSize, 0)
	} else {
		newPos = c.Pos.Add(c.Vel)
	}
	c.Vel[0] *= 1 / ramp

	if c.world != nil && t.PlayerCollision {
		distance := geom.Distance(c.Pos, newPos)
		end := int(distance + 1)
		last := c.Pos
		for i := 0; i < end; i++ {
			var a float32
			if distance > 0 {
				a = float32(i) / distance
			}
			p := geom.Mix(c.Pos, newPos, a)
			for _, other := range c.world.Characters {
				if other == nil || other == c {
					continue
				}
				d := geom.Distance(p, other.Pos)
				if d < physSize && d > 0 {
					if a > 0 {
						c.Pos = last
					} else if geom.Distance(newPos, other.Pos) > d {
						c.Pos = newPos
					}
					return
				}
			}
			last = p
		}
	}

	c.Pos = newPos
}

// Write encodes the core into its quantized net layout. Tick is left zero.
func (c *Core) Write() protocol.CharacterCore {
	return protocol.CharacterCore{
		X:            geom.RoundToInt(c.Pos[0]),
		Y:            geom.RoundToInt(c.Pos[1]),
		VelX:         geom.RoundToInt(c.Vel[0] * velScale),
		VelY:         geom.RoundToInt(c.Vel[1] * velScale),
		HookState:    int32(c.HookState),
		HookTick:     int32(c.HookTick),
		HookX:        geom.RoundToInt(c.HookPos[0]),
		HookY:        geom.RoundToInt(c.HookPos[1]),
		HookDx:       geom.RoundToInt(c.HookDir[0] * velScale),
		HookDy:       geom.RoundToInt(c.HookDir[1] * velScale),
		HookedPlayer: int32(c.HookedPlayer.Or(-1)),
		Jumped:       int32(c.Jumped),
		Direction:    int32(c.Direction),
		Angle:        int32(c.Angle),
	}
}

// WriteCharacter fills the core and extended fields of a character item.
func (c *Core) WriteCharacter(obj *protocol.Character) {
	tick := obj.Tick
	obj.CharacterCore = c.Write()
	obj.Tick = tick
	obj.FreezeTicks = int32(c.Frozen)
	obj.CoreFlags = 0
	if c.Protected {
		obj.CoreFlags |= protocol.CoreFlagProtected
	}
	if c.ProtectedBy {
		obj.CoreFlags |= protocol.CoreFlagProtectedBy
	}
}

// Read restores the movement state from its net layout.
func (c *Core) Read(obj protocol.CharacterCore) {
	c.Pos = geom.V(float32(obj.X), float32(obj.Y))
	c.Vel = geom.V(float32(obj.VelX)/velScale, float32(obj.VelY)/velScale)
	c.HookState = HookState(obj.HookState)
	c.HookTick = int(obj.HookTick)
	c.HookPos = geom.V(float32(obj.HookX), float32(obj.HookY))
	c.HookDir = geom.V(float32(obj.HookDx)/velScale, float32(obj.HookDy)/velScale)
	c.HookedPlayer = opt.None[int]()
	if obj.HookedPlayer >= 0 {
		c.HookedPlayer = opt.Some(int(obj.HookedPlayer))
	}
	c.Jumped = int(obj.Jumped)
	c.Direction = int(obj.Direction)
	c.Angle = int(obj.Angle)
}

// Quantize rounds the state to what the network can carry.
func (c *Core) Quantize() {
	c.Read(c.Write())
}

// Reckon advances a detached copy of shadow by one step in an isolated world,
// the way a client holding only shadow would predict it, and returns the
// copy. The caller's value is never touched.
func Reckon(shadow Core, col collision.Surface, tuning Tuning, tickSpeed int) Core {
	shadow.Init(NewWorldCore(tuning, tickSpeed), col)
	shadow.Tick(false)
	shadow.Move()
	shadow.Quantize()
	shadow.world = nil
	return shadow
}
