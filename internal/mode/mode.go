// Package mode implements the default team game mode.
package mode

import (
	"sync"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/world"
)

// Kill message flags.
const (
	// SpecialFrozenSuicide marks a frozen victim that killed itself. The
	// player who froze it gets the kill.
	SpecialFrozenSuicide = 1 << iota
	// SpecialTeamKill marks a kill on a teammate.
	SpecialTeamKill
)

// Loadout is what every character spawns with.
type Loadout struct {
	Health       int             `yaml:"health" json:"health"`
	Armor        int             `yaml:"armor" json:"armor"`
	GunAmmo      int             `yaml:"gun_ammo" json:"gunAmmo"`
	RifleAmmo    int             `yaml:"rifle_ammo" json:"rifleAmmo"`
	ActiveWeapon protocol.Weapon `yaml:"active_weapon" json:"activeWeapon"`
}

// DefaultLoadout is an infinite hammer, a gun and a rifle, rifle in hand.
func DefaultLoadout() Loadout {
	return Loadout{
		Health:       10,
		GunAmmo:      10,
		RifleAmmo:    10,
		ActiveWeapon: protocol.WeaponRifle,
	}
}

// Config tunes the mode.
type Config struct {
	OpenFng bool    `yaml:"open_fng" json:"openFng"`
	Loadout Loadout `yaml:"loadout" json:"loadout"`
}

// Teams is the default controller: two teams, friendly fire between
// teammates, kill streak points for enemy kills.
type Teams struct {
	game   *world.Game
	cfg    Config
	spawns []collision.Spawn

	mu     sync.Mutex
	next   map[protocol.Team]int
	scores map[int]int
}

// New builds the mode for g using the map's spawn points. The caller attaches
// it with g.SetController.
func New(g *world.Game, spawns []collision.Spawn, cfg Config) *Teams {
	return &Teams{
		game:   g,
		cfg:    cfg,
		spawns: append([]collision.Spawn(nil), spawns...),
		next:   make(map[protocol.Team]int),
		scores: make(map[int]int),
	}
}

func (m *Teams) OnCharacterSpawn(c *world.Character) {
	l := m.cfg.Loadout
	c.SetHealth(l.Health, l.Armor)
	c.GiveInfiniteWeapon(protocol.WeaponHammer)
	if l.GunAmmo > 0 {
		c.GiveWeapon(protocol.WeaponGun, l.GunAmmo)
	}
	if l.RifleAmmo > 0 {
		c.GiveWeapon(protocol.WeaponRifle, l.RifleAmmo)
	}
	if c.Weapon(l.ActiveWeapon).Got {
		c.SetActiveWeapon(l.ActiveWeapon)
	}
}

// OnCharacterDeath credits the kill. A frozen victim killing itself is
// credited to whoever froze it.
func (m *Teams) OnCharacterDeath(victim *world.Character, killer *world.Player, _ protocol.Weapon) int {
	special := 0
	if killer == victim.Player() {
		if p := m.freezerOf(victim); p != nil {
			killer = p
			special |= SpecialFrozenSuicide
		}
	}

	if killer == nil || killer == victim.Player() {
		m.addScore(victim.ID(), -1)
		return special
	}

	if m.IsFriendlyFire(victim.ID(), killer.ID()) {
		m.addScore(killer.ID(), -1)
		return special | SpecialTeamKill
	}

	m.addScore(killer.ID(), 1)
	// a killer that died in the same tick keeps the point but not the streak
	if kc := killer.Character(); kc != nil {
		kc.AddSpree()
	}
	return special
}

// Sacrifice resolves a frozen victim's self kill: the victim dies without the
// usual kill message and the mode announces the freezer as the killer. It
// reports false when nobody still in the game froze the victim.
func (m *Teams) Sacrifice(victim *world.Character, weapon protocol.Weapon) bool {
	freezer := m.freezerOf(victim)
	if freezer == nil {
		return false
	}
	victimID, freezerID := victim.ID(), freezer.ID()
	victim.Die(victimID, weapon, true)
	m.game.Presentation().KillMessage(world.KillMessage{
		Killer:      freezerID,
		Victim:      victimID,
		Weapon:      weapon,
		ModeSpecial: SpecialFrozenSuicide,
	})
	return true
}

func (m *Teams) freezerOf(victim *world.Character) *world.Player {
	if victim.FreezeTicks() <= 0 {
		return nil
	}
	id, ok := victim.FrozenBy().Get()
	if !ok {
		return nil
	}
	if p := m.game.Player(id); p != nil && p != victim.Player() {
		return p
	}
	return nil
}

func (m *Teams) IsFriendlyFire(a, b int) bool {
	if a == b {
		return false
	}
	pa, pb := m.game.Player(a), m.game.Player(b)
	if pa == nil || pb == nil {
		return false
	}
	return pa.Team() == pb.Team()
}

func (m *Teams) IsOpenFng() bool { return m.cfg.OpenFng }

func (m *Teams) TeamName(team protocol.Team) string {
	switch team {
	case protocol.TeamRed:
		return "red team"
	case protocol.TeamBlue:
		return "blue team"
	default:
		return "spectators"
	}
}

// SpawnPos cycles through the spawns usable by team, skipping occupied ones
// when a free one exists. Neutral spawns serve both teams.
func (m *Teams) SpawnPos(team protocol.Team) (geom.Vec2, bool) {
	var candidates []geom.Vec2
	for _, s := range m.spawns {
		if s.Kind == collision.SpawnAny ||
			(s.Kind == collision.SpawnRed && team == protocol.TeamRed) ||
			(s.Kind == collision.SpawnBlue && team == protocol.TeamBlue) {
			candidates = append(candidates, s.Pos)
		}
	}
	if len(candidates) == 0 {
		return geom.Vec2{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	start := m.next[team]
	for i := range candidates {
		idx := (start + i) % len(candidates)
		if !m.occupied(candidates[idx]) {
			m.next[team] = idx + 1
			return candidates[idx], true
		}
	}
	idx := start % len(candidates)
	m.next[team] = idx + 1
	return candidates[idx], true
}

func (m *Teams) occupied(pos geom.Vec2) bool {
	return len(m.game.World().FindCharacters(pos, protocol.PhysSize)) > 0
}

// AssignTeam picks the smaller team, red on a tie.
func (m *Teams) AssignTeam() protocol.Team {
	red, blue := 0, 0
	for _, p := range m.game.Players() {
		switch p.Team() {
		case protocol.TeamRed:
			red++
		case protocol.TeamBlue:
			blue++
		}
	}
	if blue < red {
		return protocol.TeamBlue
	}
	return protocol.TeamRed
}

// Score returns the running score of a client.
func (m *Teams) Score(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[id]
}

// Forget drops the score of a client that left.
func (m *Teams) Forget(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scores, id)
}

func (m *Teams) addScore(id, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[id] += delta
}

var _ world.Controller = (*Teams)(nil)
