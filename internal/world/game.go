package world

import (
	"context"
	"fmt"
	"math"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/lifecycle"
)

const (
	explosionRadius      = 135
	explosionInnerRadius = 48
)

// Network clipping bounds around a viewer.
const (
	clipRangeX    = 1000
	clipRangeY    = 800
	clipRangeDist = 1100
)

// GameConfig collects the collaborators and rules of a Game.
type GameConfig struct {
	TickSpeed    int
	Settings     Settings
	Tuning       physics.Tuning
	Weapons      Weapons
	Collision    collision.Surface
	Presentation Presentation
	Controller   Controller
	Publisher    logging.Publisher
	Logger       telemetry.Logger
	Metrics      telemetry.Metrics
}

// Game is the simulation context shared by every entity: the tick counter,
// rules, players table, entity world and physics table.
type Game struct {
	tick      int
	tickSpeed int
	settings  Settings
	tuning    physics.Tuning
	weapons   Weapons

	collision collision.Surface
	world     *World
	core      *physics.WorldCore
	players   [protocol.MaxClients]*Player

	controller Controller
	fx         Presentation
	publisher  logging.Publisher
	logger     telemetry.Logger
	metrics    telemetry.Metrics

	snapWriter *protocol.Writer
}

// NewGame builds a game from cfg. Missing collaborators are replaced with
// no-op implementations.
func NewGame(cfg GameConfig) *Game {
	if cfg.TickSpeed <= 0 {
		cfg.TickSpeed = physics.DefaultTickSpeed
	}
	g := &Game{
		tickSpeed:  cfg.TickSpeed,
		settings:   cfg.Settings.Normalized(),
		tuning:     cfg.Tuning,
		weapons:    cfg.Weapons,
		collision:  cfg.Collision,
		world:      New(),
		core:       physics.NewWorldCore(cfg.Tuning, cfg.TickSpeed),
		controller: cfg.Controller,
		fx:         cfg.Presentation,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		snapWriter: protocol.NewWriter(),
	}
	if g.collision == nil {
		g.collision = collision.NewGrid(0, 0)
	}
	if g.controller == nil {
		g.controller = nopController{}
	}
	if g.fx == nil {
		g.fx = nopPresentation{}
	}
	if g.publisher == nil {
		g.publisher = logging.NopPublisher()
	}
	if g.logger == nil {
		g.logger = telemetry.NopLogger()
	}
	return g
}

// SetController swaps the game mode. Modes that need the game to exist first
// are attached this way.
func (g *Game) SetController(c Controller) {
	if c == nil {
		c = nopController{}
	}
	g.controller = c
}

func (g *Game) CurrentTick() int { return g.tick }
func (g *Game) TickSpeed() int { return g.tickSpeed }
func (g *Game) Settings() Settings { return g.settings }
func (g *Game) Tuning() physics.Tuning { return g.tuning }
func (g *Game) Weapons() Weapons { return g.weapons }
func (g *Game) World() *World { return g.world }
func (g *Game) Collision() collision.Surface { return g.collision }
func (g *Game) Controller() Controller { return g.controller }
func (g *Game) Presentation() Presentation { return g.fx }

// SetPaused freezes the whole world. Entities only shift their timers.
func (g *Game) SetPaused(paused bool) {
	g.world.Paused = paused
}

// Player returns the player in slot id, or nil.
func (g *Game) Player(id int) *Player {
	if id < 0 || id >= len(g.players) {
		return nil
	}
	return g.players[id]
}

// Players returns the occupied slots in id order.
func (g *Game) Players() []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// CharacterOf returns the living character of a player, paused or not.
func (g *Game) CharacterOf(id int) *Character {
	p := g.Player(id)
	if p == nil {
		return nil
	}
	return p.Character()
}

// AddPlayer occupies slot id. It reports false when the slot is out of range
// or taken.
func (g *Game) AddPlayer(id int, name string, team protocol.Team) (*Player, bool) {
	if id < 0 || id >= len(g.players) || g.players[id] != nil {
		return nil, false
	}
	p := newPlayer(g, id, name, team)
	g.players[id] = p
	lifecycle.PlayerJoined(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(id), lifecycle.PlayerJoinedPayload{Name: name, Team: int(team)}, nil)
	return p, true
}

// RemovePlayer frees slot id, killing its character first.
func (g *Game) RemovePlayer(id int, reason string) {
	p := g.Player(id)
	if p == nil {
		return
	}
	p.KillCharacter(protocol.WeaponGame)
	g.players[id] = nil
	g.core.Remove(id)
	lifecycle.PlayerDisconnected(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(id), lifecycle.PlayerDisconnectedPayload{Reason: reason}, nil)
}

// Step advances the simulation by one tick.
func (g *Game) Step() {
	g.tick++
	g.world.Tick()
	for _, p := range g.players {
		if p != nil {
			p.Tick()
		}
	}
	if g.metrics != nil {
		g.metrics.Add(telemetry.MetricTicks, 1)
	}
}

// OnDirectInput feeds an input the moment it arrives.
func (g *Game) OnDirectInput(id int, in protocol.PlayerInput) {
	p := g.Player(id)
	if p == nil {
		return
	}
	p.PlayerFlags = in.PlayerFlags
	if c := p.Character(); c != nil {
		c.OnDirectInput(in)
	}
}

// OnPredictedInput feeds the input the tick is simulated with.
func (g *Game) OnPredictedInput(id int, in protocol.PlayerInput) {
	if c := g.CharacterOf(id); c != nil {
		c.OnPredictedInput(in)
	}
}

// Snap encodes the world as seen by client. Client -1 sees everything.
// The returned slice is owned by the caller.
func (g *Game) Snap(client int, legacy bool) []byte {
	g.snapWriter.Reset()
	g.world.Snap(&SnapContext{Client: client, Legacy: legacy, Writer: g.snapWriter})
	return append([]byte(nil), g.snapWriter.Bytes()...)
}

func (g *Game) networkClipped(client int, pos geom.Vec2) bool {
	viewer := g.Player(client)
	if viewer == nil {
		return false
	}
	d := viewer.ViewPos.Sub(pos)
	if float32(math.Abs(float64(d[0]))) > clipRangeX || float32(math.Abs(float64(d[1]))) > clipRangeY {
		return true
	}
	return geom.Length(d) > clipRangeDist
}

func (g *Game) sound(pos geom.Vec2, s protocol.Sound, mask protocol.Mask) {
	g.fx.Sound(pos, s, mask)
}

func (g *Game) damageIndicator(pos geom.Vec2, angle float32, amount int) {
	g.fx.Effect(Effect{Kind: EffectDamageIndicator, Pos: pos, Angle: angle, Amount: amount, Mask: protocol.MaskAll})
}

func (g *Game) effect(kind EffectKind, pos geom.Vec2, owner int) {
	g.fx.Effect(Effect{Kind: kind, Pos: pos, Owner: owner, Mask: protocol.MaskAll})
}

func (g *Game) playerName(id int) string {
	if p := g.Player(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("(%d)", id)
}

// CreateExplosion shows an explosion and, unless noDamage is set, hurts and
// pushes every character in range with a linear falloff past the inner
// radius.
func (g *Game) CreateExplosion(pos geom.Vec2, owner int, weapon protocol.Weapon, noDamage bool) {
	g.effect(EffectExplosion, pos, owner)
	if noDamage {
		return
	}
	for _, c := range g.world.FindCharacters(pos, explosionRadius) {
		diff := c.Position().Sub(pos)
		forceDir := geom.V(0, 1)
		l := geom.Length(diff)
		if l > 0 {
			forceDir = geom.Normalize(diff)
		}
		l = 1 - geom.Clamp((l-explosionInnerRadius)/(explosionRadius-explosionInnerRadius), 0, 1)
		dmg := 6 * l
		if int(dmg) != 0 {
			c.TakeDamage(forceDir.Mul(dmg*2), int(dmg), owner, weapon)
		}
	}
}

// CreateRingExplosion places rings of explosion visuals around pos. Ring r
// has r*count visuals at r*spacing units.
func (g *Game) CreateRingExplosion(pos geom.Vec2, owner int, rings, count int, spacing float32) {
	g.effect(EffectExplosion, pos, owner)
	for r := 1; r <= rings; r++ {
		n := r * count
		radius := float32(r) * spacing
		for i := 0; i < n; i++ {
			a := float32(i) * 2 * math.Pi / float32(n)
			g.effect(EffectExplosion, pos.Add(geom.Direction(a).Mul(radius)), owner)
		}
	}
}
