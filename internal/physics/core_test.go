package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
)

const room = `
##########
#........#
#........#
#........#
#........#
##########
`

func newCore(world *WorldCore, grid *collision.Grid, pos geom.Vec2) *Core {
	c := &Core{}
	c.Reset()
	c.Init(world, grid)
	c.Pos = pos
	return c
}

func TestGroundJumpThenAirJump(t *testing.T) {
	grid := collision.MustParse(room)
	world := NewWorldCore(DefaultTuning(), DefaultTickSpeed)
	c := newCore(world, grid, geom.V(100, 145))
	require.True(t, Grounded(grid, c.Pos))

	c.Input.Jump = 1
	c.Tick(true)
	assert.NotZero(t, c.TriggeredEvents&EventGroundJump)
	assert.InDelta(t, -13.2, c.Vel[1], 1e-4)
	c.Move()
	require.False(t, Grounded(grid, c.Pos))

	c.Tick(true)
	assert.Zero(t, c.TriggeredEvents&(EventGroundJump|EventAirJump), "held jump must not retrigger")

	c.Input.Jump = 0
	c.Tick(true)
	c.Input.Jump = 1
	c.Tick(true)
	assert.NotZero(t, c.TriggeredEvents&EventAirJump)
	assert.Equal(t, 3, c.Jumped)
}

func TestGravityAccumulates(t *testing.T) {
	grid := collision.MustParse(room)
	c := newCore(NewWorldCore(DefaultTuning(), DefaultTickSpeed), grid, geom.V(100, 60))
	c.Tick(true)
	c.Tick(true)
	assert.InDelta(t, 1.0, c.Vel[1], 1e-5)
}

func TestFrozenCoreIgnoresInput(t *testing.T) {
	grid := collision.MustParse(room)
	c := newCore(NewWorldCore(DefaultTuning(), DefaultTickSpeed), grid, geom.V(100, 145))
	c.Frozen = 3
	c.Input.Direction = 1
	c.Input.Jump = 1
	c.Input.Hook = 1
	c.Input.TargetX = 1

	c.Tick(true)
	assert.Equal(t, 2, c.Frozen)
	assert.Zero(t, c.Vel[0])
	assert.Zero(t, c.TriggeredEvents)
	assert.Equal(t, HookIdle, c.HookState)
}

func TestHookAttachesToCeiling(t *testing.T) {
	grid := collision.MustParse(room)
	c := newCore(NewWorldCore(DefaultTuning(), DefaultTickSpeed), grid, geom.V(100, 145))
	c.Input.Hook = 1
	c.Input.TargetY = -1

	c.Tick(true)
	assert.Equal(t, HookGrabbed, c.HookState)
	assert.NotZero(t, c.TriggeredEvents&EventHookLaunch)
	assert.NotZero(t, c.TriggeredEvents&EventHookAttachGround)
	assert.True(t, grid.CheckPoint(c.HookPos))
}

func TestHookAttachesToPlayer(t *testing.T) {
	grid := collision.MustParse(room)
	world := NewWorldCore(DefaultTuning(), DefaultTickSpeed)
	a := newCore(world, grid, geom.V(100, 145))
	b := newCore(world, grid, geom.V(200, 145))
	world.Insert(0, a)
	world.Insert(1, b)

	a.Input.Hook = 1
	a.Input.TargetX = 1
	a.Tick(true)

	hooked, ok := a.HookedPlayer.Get()
	require.True(t, ok)
	assert.Equal(t, 1, hooked)
	assert.NotZero(t, a.TriggeredEvents&EventHookAttachPlayer)
	assert.Equal(t, b.Pos, a.HookPos)

	world.Remove(1)
	a.Tick(true)
	assert.True(t, a.HookedPlayer.IsNone(), "hook releases once the target leaves the table")
}

func TestReleaseHookRaisesRetract(t *testing.T) {
	c := &Core{}
	c.ReleaseHook()
	assert.Zero(t, c.TriggeredEvents)

	c.HookState = HookGrabbed
	c.HookedPlayer = someID(2)
	c.ReleaseHook()
	assert.Equal(t, HookRetracted, c.HookState)
	assert.NotZero(t, c.TriggeredEvents&EventHookRetract)
}

func TestQuantizeIsStable(t *testing.T) {
	c := &Core{Pos: geom.V(10.4, 20.6), Vel: geom.V(1.0/3, -2.71)}
	c.Quantize()
	first := c.Write()
	c.Quantize()
	assert.Equal(t, first, c.Write())
	assert.Equal(t, int32(10), first.X)
	assert.Equal(t, int32(21), first.Y)
}

func TestReckonLeavesShadowUntouched(t *testing.T) {
	grid := collision.MustParse(room)
	world := NewWorldCore(DefaultTuning(), DefaultTickSpeed)
	authoritative := newCore(world, grid, geom.V(100, 60))
	authoritative.Vel = geom.V(3, 0)
	other := newCore(world, grid, geom.V(120, 60))
	world.Insert(0, authoritative)
	world.Insert(1, other)

	before := *authoritative
	predicted := Reckon(*authoritative, grid, world.Tuning, world.TickSpeed)

	assert.Equal(t, before, *authoritative)
	assert.Greater(t, predicted.Pos[0], authoritative.Pos[0], "isolated step ignores the nearby character")
	assert.Equal(t, geom.V(120, 60), other.Pos)
}

func TestMoveStopsBeforeOtherCharacter(t *testing.T) {
	grid := collision.MustParse(room)
	world := NewWorldCore(DefaultTuning(), DefaultTickSpeed)
	a := newCore(world, grid, geom.V(100, 100))
	b := newCore(world, grid, geom.V(140, 100))
	world.Insert(0, a)
	world.Insert(1, b)

	a.Vel = geom.V(20, 0)
	a.Move()
	assert.Less(t, geom.Distance(a.Pos, b.Pos), float32(28+1))
	assert.GreaterOrEqual(t, geom.Distance(a.Pos, b.Pos), float32(27))
}
