package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
)

const testTickSpeed = 50

// arena is 40x12 tiles of open air inside a solid border.
var arena = strings.Repeat("#", 40) + "\n" +
	strings.Repeat("#"+strings.Repeat(".", 38)+"#\n", 10) +
	strings.Repeat("#", 40)

type soundEvent struct {
	pos   geom.Vec2
	sound protocol.Sound
	mask  protocol.Mask
}

type textEvent struct {
	target int
	text   string
}

type recorder struct {
	sounds     []soundEvent
	effects    []Effect
	broadcasts []textEvent
	chats      []textEvent
	kills      []KillMessage
	emoticons  []protocol.Emoticon
	extra      [][]protocol.Projectile
}

func (r *recorder) Sound(pos geom.Vec2, sound protocol.Sound, mask protocol.Mask) {
	r.sounds = append(r.sounds, soundEvent{pos: pos, sound: sound, mask: mask})
}
func (r *recorder) Effect(e Effect) { r.effects = append(r.effects, e) }
func (r *recorder) Broadcast(target int, text string) {
	r.broadcasts = append(r.broadcasts, textEvent{target: target, text: text})
}
func (r *recorder) Chat(target int, text string) {
	r.chats = append(r.chats, textEvent{target: target, text: text})
}
func (r *recorder) KillMessage(msg KillMessage) { r.kills = append(r.kills, msg) }
func (r *recorder) Emoticon(_ int, e protocol.Emoticon) { r.emoticons = append(r.emoticons, e) }
func (r *recorder) ExtraProjectiles(_ int, p []protocol.Projectile) { r.extra = append(r.extra, p) }

func (r *recorder) soundCount(s protocol.Sound) int {
	n := 0
	for _, ev := range r.sounds {
		if ev.sound == s {
			n++
		}
	}
	return n
}

func (r *recorder) effectCount(kind EffectKind) int {
	n := 0
	for _, e := range r.effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) broadcastsContaining(sub string) []string {
	var out []string
	for _, ev := range r.broadcasts {
		if strings.Contains(ev.text, sub) {
			out = append(out, ev.text)
		}
	}
	return out
}

// stubMode equips spawns with a hammer and a full gun, and treats equal
// teams as friendly.
type stubMode struct {
	game    *Game
	openFng bool
	spawn   geom.Vec2
	deaths  []protocol.Weapon
	frozen  []int
}

func (m *stubMode) OnCharacterSpawn(c *Character) {
	c.SetHealth(maxHealth, 0)
	c.GiveInfiniteWeapon(protocol.WeaponHammer)
	c.GiveWeapon(protocol.WeaponGun, 10)
}

func (m *stubMode) OnCharacterDeath(victim *Character, _ *Player, weapon protocol.Weapon) int {
	m.deaths = append(m.deaths, weapon)
	m.frozen = append(m.frozen, victim.FreezeTicks())
	return 0
}

func (m *stubMode) IsFriendlyFire(a, b int) bool {
	if a == b {
		return false
	}
	pa, pb := m.game.Player(a), m.game.Player(b)
	return pa != nil && pb != nil && pa.Team() == pb.Team()
}

func (m *stubMode) IsOpenFng() bool { return m.openFng }

func (m *stubMode) TeamName(team protocol.Team) string {
	if team == protocol.TeamBlue {
		return "blue team"
	}
	return "red team"
}

func (m *stubMode) SpawnPos(protocol.Team) (geom.Vec2, bool) { return m.spawn, true }

type testGame struct {
	*Game
	fx   *recorder
	mode *stubMode
}

func newTestGame(t testing.TB, tweak ...func(*GameConfig)) *testGame {
	t.Helper()
	fx := &recorder{}
	mode := &stubMode{spawn: geom.V(200, 200)}
	cfg := GameConfig{
		TickSpeed:    testTickSpeed,
		Settings:     DefaultSettings(),
		Tuning:       physics.DefaultTuning(),
		Weapons:      DefaultWeapons(),
		Collision:    collision.MustParse(arena),
		Presentation: fx,
		Controller:   mode,
	}
	for _, fn := range tweak {
		fn(&cfg)
	}
	g := NewGame(cfg)
	mode.game = g
	// start away from tick zero so tick stamps are distinguishable
	g.tick = 10
	return &testGame{Game: g, fx: fx, mode: mode}
}

func (tg *testGame) spawn(t testing.TB, id int, team protocol.Team, pos geom.Vec2) *Character {
	t.Helper()
	p, ok := tg.AddPlayer(id, "p"+string(rune('a'+id)), team)
	require.True(t, ok)
	c := p.SpawnAt(pos)
	require.NotNil(t, c)
	return c
}

// pressFire advances the fire counter to the next pressed state.
func pressFire(c *Character) {
	prev := c.latestInput.Fire
	next := prev + 1
	if next&1 == 0 {
		next++
	}
	c.latestPrevInput.Fire = prev
	c.latestInput.Fire = next & protocol.InputStateMask
}
