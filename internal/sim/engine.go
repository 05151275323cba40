package sim

import (
	"errors"
	"fmt"

	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/world"
)

// Engine is the simulation the loop drives. Apply and Step are only ever
// called from the loop goroutine.
type Engine interface {
	Apply(cmds []Command) error
	Step()
}

// TeamAssigner picks the team of a joining player.
type TeamAssigner interface {
	AssignTeam() protocol.Team
}

// Forgetter drops per-client state kept outside the game when a player
// leaves.
type Forgetter interface {
	Forget(id int)
}

// ErrUnknownPlayer is returned for commands whose actor holds no slot.
var ErrUnknownPlayer = errors.New("sim: unknown player")

// GameEngine applies commands to a world.Game.
type GameEngine struct {
	game *world.Game
}

// NewGameEngine wraps g. The game's controller is consulted for team
// assignment and cleanup when it implements TeamAssigner or Forgetter.
func NewGameEngine(g *world.Game) *GameEngine {
	return &GameEngine{game: g}
}

// Game exposes the wrapped game to the loop hooks.
func (e *GameEngine) Game() *world.Game { return e.game }

func (e *GameEngine) Step() { e.game.Step() }

// Apply runs each command in order. Commands that cannot apply are skipped;
// the returned error joins their reasons.
func (e *GameEngine) Apply(cmds []Command) error {
	var errs []error
	for _, cmd := range cmds {
		if err := e.apply(cmd); err != nil {
			errs = append(errs, fmt.Errorf("%s from %d: %w", cmd.Type, cmd.ActorID, err))
		}
	}
	return errors.Join(errs...)
}

func (e *GameEngine) apply(cmd Command) error {
	g := e.game
	if cmd.Type == CommandJoin {
		return e.join(cmd)
	}

	p := g.Player(cmd.ActorID)
	if p == nil {
		return ErrUnknownPlayer
	}

	switch cmd.Type {
	case CommandLeave:
		reason := ""
		if cmd.Leave != nil {
			reason = cmd.Leave.Reason
		}
		g.RemovePlayer(p.ID(), reason)
		if f, ok := g.Controller().(Forgetter); ok {
			f.Forget(p.ID())
		}
	case CommandInput:
		if cmd.Input == nil {
			return errors.New("missing input payload")
		}
		g.OnDirectInput(p.ID(), *cmd.Input)
		g.OnPredictedInput(p.ID(), *cmd.Input)
	case CommandPause:
		p.TogglePause()
	case CommandSpec:
		p.ToggleSpec()
	case CommandForcePause:
		if cmd.ForcePause == nil {
			return errors.New("missing force pause payload")
		}
		if !p.Authed {
			return errors.New("not authorized")
		}
		target := g.Player(cmd.ForcePause.TargetID)
		if target == nil {
			return ErrUnknownPlayer
		}
		target.ForcePause(cmd.ForcePause.Seconds)
	case CommandTeam:
		if cmd.Team == nil {
			return errors.New("missing team payload")
		}
		team := cmd.Team.Team
		if team < protocol.TeamSpectators || team > protocol.TeamBlue {
			return fmt.Errorf("invalid team %d", team)
		}
		p.SetTeam(team, false)
	case CommandEmoticon:
		if cmd.Emoticon == nil {
			return errors.New("missing emoticon payload")
		}
		p.Emoticon(cmd.Emoticon.Emoticon)
	case CommandKill:
		if !p.Suicide() {
			return errors.New("kill refused")
		}
	default:
		return fmt.Errorf("unsupported command type %q", cmd.Type)
	}
	return nil
}

func (e *GameEngine) join(cmd Command) error {
	g := e.game
	if g.Player(cmd.ActorID) != nil {
		return errors.New("slot already taken")
	}
	join := JoinCommand{}
	if cmd.Join != nil {
		join = *cmd.Join
	}
	team := protocol.TeamRed
	if a, ok := g.Controller().(TeamAssigner); ok {
		team = a.AssignTeam()
	}
	p, ok := g.AddPlayer(cmd.ActorID, join.Name, team)
	if !ok {
		return errors.New("no free slot")
	}
	p.CustomClient = join.CustomClient
	p.Authed = join.Authed
	return nil
}

var _ Engine = (*GameEngine)(nil)
