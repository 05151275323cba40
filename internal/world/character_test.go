package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// standing is a resting position on the arena floor.
var standing = geom.V(200, 337)

func TestAmmoRegeneration(t *testing.T) {
	regenTicks := DefaultWeapons().Spec(protocol.WeaponGun).AmmoRegenMs * testTickSpeed / 1000

	tests := []struct {
		name      string
		ammo      int
		start     opt.Value[int]
		elapsed   int
		reload    int
		wantAmmo  int
		wantStart opt.Value[int]
	}{
		{name: "latches the start", ammo: 5, wantAmmo: 5, wantStart: opt.Some(10)},
		{name: "waits for the interval", ammo: 5, start: opt.Some(10), elapsed: regenTicks - 1, wantAmmo: 5, wantStart: opt.Some(10)},
		{name: "refills and resets", ammo: 5, start: opt.Some(10), elapsed: regenTicks, wantAmmo: 6},
		{name: "caps at the maximum", ammo: 10, start: opt.Some(10), elapsed: regenTicks, wantAmmo: 10},
		{name: "reload clears the start", ammo: 5, start: opt.Some(10), elapsed: regenTicks, reload: 3, wantAmmo: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
			require.Equal(t, protocol.WeaponGun, c.ActiveWeapon())
			c.weapons[protocol.WeaponGun].Ammo = tt.ammo
			c.weapons[protocol.WeaponGun].RegenStart = tt.start
			c.reloadTimer = tt.reload
			g.tick += tt.elapsed

			c.regenAmmo()

			slot := c.Weapon(protocol.WeaponGun)
			assert.Equal(t, tt.wantAmmo, slot.Ammo)
			assert.Equal(t, tt.wantStart, slot.RegenStart)
		})
	}
}

func TestAmmoRegenRestartsAfterRefill(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	c.weapons[protocol.WeaponGun].Ammo = 5
	regenTicks := DefaultWeapons().Spec(protocol.WeaponGun).AmmoRegenMs * testTickSpeed / 1000

	for i := 0; i <= 2*regenTicks; i++ {
		c.handleWeapons()
		g.tick++
	}

	// the second interval starts on the tick after the first refill
	assert.Equal(t, 6, c.Weapon(protocol.WeaponGun).Ammo)
	c.handleWeapons()
	assert.Equal(t, 7, c.Weapon(protocol.WeaponGun).Ammo)
}

func TestFiringResetsAmmoRegen(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	c.latestInput.TargetX = 1
	c.weapons[protocol.WeaponGun].RegenStart = opt.Some(g.CurrentTick() - 5)

	pressFire(c)
	c.handleWeapons()

	assert.Equal(t, 9, c.Weapon(protocol.WeaponGun).Ammo)
	assert.True(t, c.Weapon(protocol.WeaponGun).RegenStart.IsNone())
}

func TestInvisibilityBreaksWhenSomeoneComesClose(t *testing.T) {
	tests := []struct {
		name       string
		other      geom.Vec2
		wantHidden bool
		wantShield int
	}{
		{name: "close body reveals", other: geom.V(220, 200), wantShield: 1},
		{name: "distant body does not", other: geom.V(400, 200), wantHidden: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
			g.spawn(t, 1, protocol.TeamBlue, tt.other)
			c.player.Abilities.Grant(AbilityInvisible)
			c.hidden = true

			c.Tick()

			assert.Equal(t, tt.wantHidden, c.Hidden())
			assert.Equal(t, tt.wantShield, g.fx.effectCount(EffectShield))
		})
	}
}

func TestInvisibilityHidesAfterQuietTicks(t *testing.T) {
	tests := []struct {
		name   string
		frozen bool
		want   bool
	}{
		{name: "idle", want: true},
		{name: "frozen stays visible", frozen: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
			c.player.Abilities.Grant(AbilityInvisible)
			if tt.frozen {
				c.Freeze(10*hiddenAfterTicks, opt.None[int]())
			}

			for i := 0; i < hiddenAfterTicks-1; i++ {
				c.Tick()
			}
			require.False(t, c.Hidden())

			c.Tick()
			assert.Equal(t, tt.want, c.Hidden())
			if tt.want {
				assert.Equal(t, 1, g.fx.effectCount(EffectShield))
				assert.Zero(t, c.invisibleTicks)
			}
		})
	}
}

func TestHookRevealsInvisibleCharacters(t *testing.T) {
	t.Run("hooking", func(t *testing.T) {
		g := newTestGame(t)
		c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
		c.player.Abilities.Grant(AbilityInvisible)
		c.hidden = true
		c.input.Hook = 1

		c.Tick()

		assert.False(t, c.Hidden())
	})

	t.Run("hooked", func(t *testing.T) {
		g := newTestGame(t)
		c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
		hooker := g.spawn(t, 1, protocol.TeamBlue, geom.V(300, 200))
		c.player.Abilities.Grant(AbilityInvisible)
		c.hidden = true
		hooker.input.Hook = 1
		hooker.core.HookState = physics.HookGrabbed
		hooker.core.HookedPlayer = opt.Some(0)

		hooker.Tick()

		assert.False(t, c.Hidden())
	})
}

func TestJetPackPushesUpWhileJumpIsHeld(t *testing.T) {
	boost := float32(-1.5 * (400.0 / 100.0 / 6.11))
	gravity := physics.DefaultTuning().Gravity

	tests := []struct {
		name    string
		ability bool
		frozen  bool
		wantVel float32
		sounds  int
	}{
		{name: "award held", ability: true, wantVel: gravity + boost, sounds: 1},
		{name: "no award", wantVel: gravity},
		{name: "frozen", ability: true, frozen: true, wantVel: gravity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
			if tt.ability {
				c.player.Abilities.Grant(AbilityJetPack)
			}
			if tt.frozen {
				c.Freeze(100, opt.None[int]())
			}
			// both jumps spent, jump pressed again in the air
			c.core.Jumped = 2
			c.input.Jump = 1

			c.Tick()

			assert.InDelta(t, tt.wantVel, c.Core().Vel[1], 1e-4)
			assert.Equal(t, tt.sounds, g.fx.soundCount(protocol.SoundWeaponSwitch))
		})
	}
}

func TestHorizontalAssists(t *testing.T) {
	tests := []struct {
		name        string
		pos         geom.Vec2
		ability     Ability
		protectedBy bool
		frozen      bool
		startVel    float32
		wantVel     float32
	}{
		{name: "runner on ground", pos: standing, ability: AbilitySpeedRunner, wantVel: 4},
		{name: "plain on ground", pos: standing, wantVel: 2},
		{name: "runner in air", pos: geom.V(200, 200), ability: AbilitySpeedRunner, wantVel: 1.5},
		{name: "frozen runner", pos: standing, ability: AbilitySpeedRunner, frozen: true, wantVel: 0},
		{name: "protected frozen in air", pos: geom.V(200, 200), protectedBy: true, frozen: true, startVel: 5, wantVel: 6.25},
		{name: "protected frozen on ground", pos: standing, protectedBy: true, frozen: true, wantVel: 2},
		{name: "unprotected frozen in air", pos: geom.V(200, 200), frozen: true, startVel: 5, wantVel: 4.75},
		{name: "protected but thawed", pos: geom.V(200, 200), protectedBy: true, startVel: 5, wantVel: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, tt.pos)
			c.player.Abilities.Grant(tt.ability)
			if tt.frozen {
				c.Freeze(100, opt.None[int]())
			}
			c.core.ProtectedBy = tt.protectedBy
			c.core.Vel[0] = tt.startVel
			c.input.Direction = 1

			c.Tick()

			assert.InDelta(t, tt.wantVel, c.Core().Vel[0], 1e-4)
		})
	}
}

func TestBleedEmitsEveryInterval(t *testing.T) {
	tests := []struct {
		interval int
		ticks    int
		want     int
	}{
		{interval: 1, ticks: 4, want: 4},
		{interval: 3, ticks: 7, want: 2},
		{interval: 5, ticks: 4, want: 0},
	}
	for _, tt := range tests {
		g := newTestGame(t, func(cfg *GameConfig) {
			cfg.Settings.BloodInterval = tt.interval
		})
		c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
		c.Bleed(tt.ticks)

		for i := 0; i < tt.ticks+3; i++ {
			c.Tick()
		}

		assert.Equal(t, tt.want, g.fx.effectCount(EffectDeath), "interval %d over %d ticks", tt.interval, tt.ticks)
	}
}

func TestTerrainDeathClearsFreezeFirst(t *testing.T) {
	rows := strings.Split(arena, "\n")
	row := []byte(rows[6])
	row[6] = 'x'
	rows[6] = string(row)
	deadly := strings.Join(rows, "\n")

	tests := []struct {
		name string
		grid string
		pos  geom.Vec2
	}{
		{name: "death tile", grid: deadly, pos: geom.V(6*collision.TileSize+16, 6*collision.TileSize+16)},
		{name: "outside the map", grid: arena, pos: geom.V(-7000, 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, func(cfg *GameConfig) {
				cfg.Collision = collision.MustParse(tt.grid)
			})
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
			c.Teleport(tt.pos)
			c.Freeze(100, opt.Some(1))

			c.Tick()

			assert.False(t, c.Alive())
			assert.Equal(t, []protocol.Weapon{protocol.WeaponWorld}, g.mode.deaths)
			assert.Equal(t, []int{0}, g.mode.frozen)
			require.Len(t, g.fx.kills, 1)
			assert.Equal(t, 0, g.fx.kills[0].Killer)
		})
	}
}

func TestNinjaDashHitsEachTargetOnce(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	target := g.spawn(t, 1, protocol.TeamBlue, geom.V(260, 200))
	c.GiveNinja(true)
	c.ninja.activationDir = geom.V(1, 0)
	c.ninja.currentMoveTime = DefaultWeapons().Ninja.MoveTimeMs * testTickSpeed / 1000

	for i := 0; i < 3; i++ {
		c.handleNinja()
	}

	assert.Equal(t, 1, g.fx.soundCount(protocol.SoundNinjaHit))
	assert.Equal(t, maxHealth-DefaultWeapons().Spec(protocol.WeaponNinja).Damage, target.Health())
	assert.Equal(t, []int{1}, c.hits)
	assert.Greater(t, c.Core().Pos[0], float32(300))
}

func TestHitListIsBounded(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	for id := 0; id < maxHits+5; id++ {
		c.recordHit(id)
	}

	assert.Len(t, c.hits, maxHits)
	assert.True(t, c.alreadyHit(0))
	assert.False(t, c.alreadyHit(maxHits))
}

func TestFrozenCharacterResyncsOnEvenTicks(t *testing.T) {
	tests := []struct {
		name   string
		frozen bool
	}{
		{name: "frozen", frozen: true},
		{name: "thawed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 0, protocol.TeamRed, standing)
			if tt.frozen {
				c.Freeze(100, opt.None[int]())
			}

			// the first tick resyncs from the empty spawn core
			g.Step()
			first := g.CurrentTick()
			g.Step()

			for i := 0; i < 8; i++ {
				g.Step()
				tick := g.CurrentTick()
				want := first
				if tt.frozen {
					want = tick - tick%2
				}
				assert.Equal(t, want, c.ReckoningTick(), "tick %d", tick)
				assert.True(t, c.InSync(), "tick %d", tick)
			}
		})
	}
}

func TestMovementEventSounds(t *testing.T) {
	tests := []struct {
		name  string
		event physics.Event
		sound protocol.Sound
		self  bool
	}{
		{name: "ground jump", event: physics.EventGroundJump, sound: protocol.SoundPlayerJump},
		{name: "hook attaches a player", event: physics.EventHookAttachPlayer, sound: protocol.SoundHookAttachPlayer, self: true},
		{name: "hook attaches ground", event: physics.EventHookAttachGround, sound: protocol.SoundHookAttachGround},
		{name: "hook misses", event: physics.EventHookHitNoHook, sound: protocol.SoundHookNoAttach},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			c := g.spawn(t, 3, protocol.TeamRed, geom.V(200, 200))
			c.core.TriggeredEvents = tt.event

			c.TickDeferred()

			var got []soundEvent
			for _, ev := range g.fx.sounds {
				if ev.sound == tt.sound {
					got = append(got, ev)
				}
			}
			require.Len(t, got, 1)
			want := protocol.MaskAllExceptOne(3)
			if tt.self {
				want = protocol.MaskAll
			}
			assert.Equal(t, want, got[0].mask)
		})
	}
}

func TestSilentDeathStillPlaysSound(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	c.Die(0, protocol.WeaponSelf, true)

	assert.False(t, c.Alive())
	assert.Empty(t, g.fx.kills)
	assert.Equal(t, 1, g.fx.soundCount(protocol.SoundPlayerDie))
	assert.Equal(t, 1, g.fx.effectCount(EffectDeath))
}

// sacrificeMode resolves self kills when resolve is set.
type sacrificeMode struct {
	*stubMode
	resolve bool
	calls   int
}

func (m *sacrificeMode) Sacrifice(victim *Character, weapon protocol.Weapon) bool {
	m.calls++
	if m.resolve {
		victim.Die(victim.ID(), weapon, true)
	}
	return m.resolve
}

func TestSelfKillGoesThroughSacrificer(t *testing.T) {
	tests := []struct {
		name      string
		weapon    protocol.Weapon
		resolve   bool
		wantCalls int
		wantKills int
	}{
		{name: "resolved", weapon: protocol.WeaponSelf, resolve: true, wantCalls: 1},
		{name: "declined", weapon: protocol.WeaponSelf, wantCalls: 1, wantKills: 1},
		{name: "not a self kill", weapon: protocol.WeaponGame, resolve: true, wantKills: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			mode := &sacrificeMode{stubMode: g.mode, resolve: tt.resolve}
			g.SetController(mode)
			c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

			c.Player().KillCharacter(tt.weapon)

			assert.False(t, c.Alive())
			assert.Equal(t, tt.wantCalls, mode.calls)
			assert.Len(t, g.fx.kills, tt.wantKills)
		})
	}
}
