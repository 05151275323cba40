package world

import (
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// Pickup is a short lived marker. With a follow target it sticks to that
// player's character and disappears with it.
type Pickup struct {
	base
	game *Game

	pickupType int32
	follow     opt.Value[int]
	lifeTicks  int
}

// NewPickup spawns a pickup at pos that lives for lifeTicks ticks.
func NewPickup(g *Game, pos geom.Vec2, pickupType int32, follow opt.Value[int], lifeTicks int) *Pickup {
	p := &Pickup{
		base:       base{kind: KindPickup, pos: pos, radius: protocol.PhysSize / 2},
		game:       g,
		pickupType: pickupType,
		follow:     follow,
		lifeTicks:  lifeTicks,
	}
	g.world.Insert(p)
	return p
}

func (p *Pickup) Type() int32 { return p.pickupType }

func (p *Pickup) Tick() {
	g := p.game
	if id, ok := p.follow.Get(); ok {
		c := g.CharacterOf(id)
		if c == nil {
			g.world.Destroy(p.handle)
			return
		}
		p.pos = c.pos
	}

	p.lifeTicks--
	if p.lifeTicks <= 0 {
		g.world.Destroy(p.handle)
	}
}

func (p *Pickup) Snap(ctx *SnapContext) {
	if p.game.networkClipped(ctx.Client, p.pos) {
		return
	}
	ctx.Writer.WritePickup(int32(p.handle.Index()), protocol.Pickup{
		X:    int32(p.pos[0]),
		Y:    int32(p.pos[1]),
		Type: p.pickupType,
	})
}
