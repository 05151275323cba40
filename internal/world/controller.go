package world

import (
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/35niavlys/speedfng/internal/world Controller,Presentation

// Controller is the game mode: it owns team rules, scoring and spawning.
type Controller interface {
	// OnCharacterSpawn equips a freshly spawned character.
	OnCharacterSpawn(c *Character)
	// OnCharacterDeath scores a kill and returns the mode-special flags for
	// the kill message. killer is nil when the killer is gone.
	OnCharacterDeath(victim *Character, killer *Player, weapon protocol.Weapon) int
	// IsFriendlyFire reports whether damage from b to a is team damage.
	IsFriendlyFire(a, b int) bool
	// IsOpenFng reports whether damage only pushes.
	IsOpenFng() bool
	TeamName(team protocol.Team) string
	SpawnPos(team protocol.Team) (geom.Vec2, bool)
}

// Sacrificer is implemented by modes that take over a frozen character's
// self kill. Sacrifice reports whether the mode resolved the death; the mode
// then owns the kill message.
type Sacrificer interface {
	Sacrifice(victim *Character, weapon protocol.Weapon) bool
}

type nopController struct{}

func (nopController) OnCharacterSpawn(*Character) {}
func (nopController) OnCharacterDeath(*Character, *Player, protocol.Weapon) int { return 0 }
func (nopController) IsFriendlyFire(int, int) bool { return false }
func (nopController) IsOpenFng() bool { return false }
func (nopController) TeamName(protocol.Team) string { return "" }
func (nopController) SpawnPos(protocol.Team) (geom.Vec2, bool) { return geom.Vec2{}, false }
