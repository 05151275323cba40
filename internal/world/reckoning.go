package world

import (
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/telemetry"
)

// reckoningBudgetSeconds bounds how long clients may extrapolate a core
// before a fresh one is sent.
const reckoningBudgetSeconds = 3

// TickDeferred moves the body, plays the movement sounds, and decides whether
// clients still predict the character correctly from the last sent core.
func (c *Character) TickDeferred() {
	g := c.game
	p := c.player

	c.reckoningCore = physics.Reckon(c.reckoningCore, g.collision, g.tuning, g.tickSpeed)

	startPos, startVel := c.core.Pos, c.core.Vel
	stuckBefore := g.collision.TestBox(c.core.Pos, physics.BoxSize)
	c.core.Move()
	stuckAfterMove := g.collision.TestBox(c.core.Pos, physics.BoxSize)
	c.core.Quantize()
	stuckAfterQuant := g.collision.TestBox(c.core.Pos, physics.BoxSize)
	c.pos = c.core.Pos

	if !stuckBefore && (stuckAfterMove || stuckAfterQuant) {
		g.logger.Printf("character %d stuck after move=%t quant=%t start=(%f %f) vel=(%f %f)",
			p.id, stuckAfterMove, stuckAfterQuant, startPos[0], startPos[1], startVel[0], startVel[1])
		if g.metrics != nil {
			g.metrics.Add(telemetry.MetricStuckMoves, 1)
		}
	}

	events := c.core.TriggeredEvents
	others := protocol.MaskAllExceptOne(p.id)
	if events&physics.EventGroundJump != 0 {
		g.sound(c.pos, protocol.SoundPlayerJump, others)
	}
	if events&physics.EventHookAttachPlayer != 0 {
		g.sound(c.pos, protocol.SoundHookAttachPlayer, protocol.MaskAll)
	}
	if events&physics.EventHookAttachGround != 0 {
		g.sound(c.pos, protocol.SoundHookAttachGround, others)
	}
	if events&physics.EventHookHitNoHook != 0 {
		g.sound(c.pos, protocol.SoundHookNoAttach, others)
	}

	var predicted, current protocol.Character
	c.reckoningCore.WriteCharacter(&predicted)
	c.core.WriteCharacter(&current)

	expired := c.reckoningTick+g.tickSpeed*reckoningBudgetSeconds < g.tick
	// frozen bodies resync every other tick
	if expired || predicted != current || (c.core.Frozen > 0 && g.tick&1 == 0) {
		c.reckoningTick = g.tick
		c.sendCore = c.core
		c.reckoningCore = c.core
	}
}

// InSync reports whether the last sent core still predicts the live one.
func (c *Character) InSync() bool {
	var predicted, current protocol.Character
	c.reckoningCore.WriteCharacter(&predicted)
	c.core.WriteCharacter(&current)
	return predicted == current
}

// ReckoningTick is the tick of the last core resync.
func (c *Character) ReckoningTick() int { return c.reckoningTick }
