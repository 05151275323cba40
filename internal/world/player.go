package world

import (
	"context"
	"fmt"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/lifecycle"
)

// PauseState is why a player's character is out of the world.
type PauseState int

const (
	PauseNone PauseState = iota
	PausePaused
	PauseSpec
	PauseForce
)

func (s PauseState) String() string {
	switch s {
	case PausePaused:
		return "paused"
	case PauseSpec:
		return "spec"
	case PauseForce:
		return "force"
	default:
		return "none"
	}
}

const (
	maxForcePauseSeconds = 360
	killCooldownSeconds  = 3
)

// Player is a connected client slot. It outlives its characters.
type Player struct {
	game *Game
	id   int
	team protocol.Team

	character *Character

	Name      string
	Abilities Abilities
	Spree     int

	pause           PauseState
	forcePauseTicks int
	nextKill        int

	Authed        bool
	LastEmoticon  int
	RespawnTick   int
	DieTick       int
	ForceBalanced bool
	PlayerFlags   int32
	ViewPos       geom.Vec2
	CustomClient  bool
	SpectatorID   opt.Value[int]
}

func newPlayer(g *Game, id int, name string, team protocol.Team) *Player {
	return &Player{
		game:        g,
		id:          id,
		team:        team,
		Name:        name,
		RespawnTick: g.tick,
	}
}

func (p *Player) ID() int { return p.id }
func (p *Player) Team() protocol.Team { return p.team }
func (p *Player) Pause() PauseState { return p.pause }
func (p *Player) ForcePauseTicks() int { return p.forcePauseTicks }

// Character returns the living character, or nil.
func (p *Player) Character() *Character {
	if p.character == nil || !p.character.alive {
		return nil
	}
	return p.character
}

// Tick runs after the world tick: pause bookkeeping, view tracking and
// respawning.
func (p *Player) Tick() {
	if p.pause == PauseForce {
		p.forcePauseTicks--
		if p.forcePauseTicks <= 0 {
			p.forcePauseTicks = 0
			p.pause = PauseNone
		}
	}

	if c := p.Character(); c != nil {
		if want := p.pause != PauseNone; want != c.paused {
			c.Pause(want)
		}
		p.ViewPos = c.pos
		return
	}
	p.character = nil

	if p.team != protocol.TeamSpectators && p.game.tick >= p.RespawnTick {
		p.tryRespawn()
	}
}

func (p *Player) tryRespawn() {
	pos, ok := p.game.controller.SpawnPos(p.team)
	if !ok {
		return
	}
	c := newCharacter(p.game)
	c.Spawn(p, pos)
	p.game.effect(EffectSpawn, pos, p.id)
	p.game.sound(pos, protocol.SoundPlayerSpawn, protocol.MaskAll)
}

// SpawnAt places a new character at pos, replacing a living one.
func (p *Player) SpawnAt(pos geom.Vec2) *Character {
	p.KillCharacter(protocol.WeaponGame)
	c := newCharacter(p.game)
	c.Spawn(p, pos)
	return c
}

// Suicide handles a client's kill request. It is refused while paused and
// for three seconds after the previous one.
func (p *Player) Suicide() bool {
	if p.pause != PauseNone || p.Character() == nil || p.game.tick < p.nextKill {
		return false
	}
	p.nextKill = p.game.tick + killCooldownSeconds*p.game.tickSpeed
	p.KillCharacter(protocol.WeaponSelf)
	return true
}

// KillCharacter kills the living character, if any, as a self kill. A
// Sacrificer controller gets the first chance to resolve a requested suicide.
func (p *Player) KillCharacter(weapon protocol.Weapon) {
	c := p.Character()
	if c == nil {
		return
	}
	if s, ok := p.game.controller.(Sacrificer); ok && weapon == protocol.WeaponSelf && s.Sacrifice(c, weapon) {
		return
	}
	c.Die(p.id, weapon, false)
}

// SetTeam moves the player, killing the character. forced marks a team
// balance move, announced on the next character tick.
func (p *Player) SetTeam(team protocol.Team, forced bool) {
	if team == p.team {
		return
	}
	p.KillCharacter(protocol.WeaponGame)
	p.team = team
	p.ForceBalanced = forced
	p.RespawnTick = p.game.tick + p.game.tickSpeed/2
	p.game.fx.Chat(-1, fmt.Sprintf("%s joined the %s", p.Name, p.game.controller.TeamName(team)))
}

// TogglePause switches between playing and paused.
func (p *Player) TogglePause() {
	if !p.game.settings.Pauseable {
		p.ToggleSpec()
		return
	}
	if !p.canPause("pause") {
		return
	}
	if p.pause == PauseSpec {
		p.ToggleSpec()
		return
	}
	if p.rejectForced() {
		return
	}
	p.revealOnPause()
	if p.pause == PausePaused {
		p.pause = PauseNone
	} else {
		p.pause = PausePaused
	}
}

// ToggleSpec switches between playing and following the game as a
// spectator.
func (p *Player) ToggleSpec() {
	if !p.canPause("spec") {
		return
	}
	if p.rejectForced() {
		return
	}
	p.revealOnPause()
	if p.pause == PauseSpec {
		p.pause = PauseNone
	} else {
		p.pause = PauseSpec
	}
}

// ForcePause pauses the player for the given seconds, clamped to [0, 360].
func (p *Player) ForcePause(seconds int) {
	seconds = max(0, min(seconds, maxForcePauseSeconds))
	p.forcePauseTicks = seconds * p.game.tickSpeed
	p.pause = PauseForce
}

// Emoticon shows e to everyone, at most once per emoticon delay. It reports
// whether the emoticon was sent.
func (p *Player) Emoticon(e protocol.Emoticon) bool {
	g := p.game
	if p.LastEmoticon >= g.tick {
		return false
	}
	p.LastEmoticon = g.tick + g.tickSpeed*g.settings.EmoticonDelay
	g.fx.Emoticon(p.id, e)
	return true
}

func (p *Player) canPause(verb string) bool {
	if p.Character() == nil {
		p.game.fx.Chat(p.id, fmt.Sprintf("You can't %s while you are dead/a spectator.", verb))
		return false
	}
	if !p.Authed && !p.Abilities.Has(AbilityPauseable) {
		p.game.fx.Chat(p.id, fmt.Sprintf("You can't %s , will be active when you got the award.", verb))
		return false
	}
	return true
}

func (p *Player) rejectForced() bool {
	if p.pause != PauseForce {
		return false
	}
	p.game.fx.Chat(p.id, fmt.Sprintf("You are force-paused. %ds left.", p.forcePauseTicks/p.game.tickSpeed))
	return true
}

func (p *Player) revealOnPause() {
	c := p.Character()
	if c == nil || p.pause != PauseNone {
		return
	}
	if p.Abilities.Has(AbilityPauseable) || (p.Authed && p.Abilities.Has(AbilityInvisible)) {
		c.reveal()
	}
}

func (p *Player) publishPause(paused bool) {
	lifecycle.Paused(context.Background(), p.game.publisher, uint64(p.game.tick), logging.PlayerRef(p.id), lifecycle.PausedPayload{Paused: paused, Mode: p.pause.String()}, nil)
}
