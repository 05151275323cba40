package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/opt"
	"github.com/35niavlys/speedfng/internal/protocol"
)

func TestPauseNeedsAward(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()

	p.TogglePause()
	assert.Equal(t, PauseNone, p.Pause())
	require.Len(t, g.fx.chats, 1)
	assert.Equal(t, "You can't pause , will be active when you got the award.", g.fx.chats[0].text)
	assert.Equal(t, 0, g.fx.chats[0].target)
}

func TestPauseTakesCharacterOutOfWorld(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()
	p.Abilities.Grant(AbilityPauseable)

	p.TogglePause()
	g.Step()

	assert.Equal(t, PausePaused, p.Pause())
	assert.True(t, c.Paused())
	assert.Same(t, c, p.Character())
	assert.Zero(t, g.World().Count(KindCharacter))
	assert.Empty(t, g.Snap(0, false))

	p.TogglePause()
	g.Step()

	assert.False(t, c.Paused())
	assert.Equal(t, 1, g.World().Count(KindCharacter))
}

func TestForcePauseIsClampedAndExpires(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()
	p.Authed = true

	p.ForcePause(1000)
	assert.Equal(t, maxForcePauseSeconds*testTickSpeed, p.ForcePauseTicks())

	p.TogglePause()
	assert.Equal(t, PauseForce, p.Pause())
	require.NotEmpty(t, g.fx.chats)
	assert.Equal(t, "You are force-paused. 360s left.", g.fx.chats[len(g.fx.chats)-1].text)

	p.ForcePause(1)
	for i := 0; i < testTickSpeed; i++ {
		g.Step()
	}
	assert.Equal(t, PauseNone, p.Pause())
	assert.Zero(t, p.ForcePauseTicks())
}

func TestDeadPlayerRespawnsAfterDelay(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()

	p.KillCharacter(protocol.WeaponSelf)
	require.Nil(t, p.Character())

	for g.CurrentTick() < p.RespawnTick-1 {
		g.Step()
		require.Nil(t, p.Character(), "respawned early at tick %d", g.CurrentTick())
	}
	g.Step()

	require.NotNil(t, p.Character())
	assert.Equal(t, 1, g.fx.soundCount(protocol.SoundPlayerSpawn))
	assert.Equal(t, 1, g.fx.effectCount(EffectSpawn))
}

func TestSetTeamKillsAndAnnounces(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()

	p.SetTeam(protocol.TeamBlue, true)

	assert.False(t, c.Alive())
	assert.Equal(t, protocol.TeamBlue, p.Team())
	assert.Equal(t, "pa joined the blue team", g.fx.chats[len(g.fx.chats)-1].text)
	assert.Equal(t, []protocol.Weapon{protocol.WeaponGame}, g.mode.deaths)
}

func TestReckoningResyncsOnFirstTick(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	g.Step()
	assert.Equal(t, g.CurrentTick(), c.ReckoningTick())
	assert.True(t, c.InSync())
}

func TestReckoningBudgetForcesResync(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	g.tick = 1000
	c.reckoningTick = 1000 - testTickSpeed*reckoningBudgetSeconds - 5

	g.Step()

	assert.Equal(t, 1001, c.ReckoningTick())
}

func TestSnapHidesVitalsFromOthers(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	g.spawn(t, 1, protocol.TeamBlue, geom.V(400, 200))

	own := decodeCharacters(t, g.Snap(0, false))
	other := decodeCharacters(t, g.Snap(1, false))
	full := decodeCharacters(t, g.Snap(-1, false))

	require.Contains(t, own, int32(0))
	assert.Equal(t, int32(10), own[0].Health)
	assert.Equal(t, int32(10), own[0].AmmoCount)
	assert.Equal(t, int32(c.ActiveWeapon()), own[0].Weapon)
	assert.Zero(t, own[1].Health)

	assert.Zero(t, other[0].Health)
	assert.Equal(t, int32(10), other[1].Health)
	assert.Equal(t, int32(10), full[0].Health)
	assert.Equal(t, int32(10), full[1].Health)
}

func TestSpectatorFollowingSeesVitals(t *testing.T) {
	g := newTestGame(t)
	g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	spec, ok := g.AddPlayer(1, "spec", protocol.TeamSpectators)
	require.True(t, ok)
	spec.SpectatorID = opt.Some(0)

	items := decodeCharacters(t, g.Snap(1, false))
	assert.Equal(t, int32(10), items[0].Health)

	g.settings.StrictSpectateMode = true
	items = decodeCharacters(t, g.Snap(1, false))
	assert.Zero(t, items[0].Health)
}

func TestSnapClipsFarCharacters(t *testing.T) {
	g := newTestGame(t)
	g.spawn(t, 0, protocol.TeamRed, geom.V(100, 200))
	g.spawn(t, 1, protocol.TeamBlue, geom.V(1200, 200))
	g.Player(0).ViewPos = geom.V(100, 200)

	items := decodeCharacters(t, g.Snap(0, false))
	assert.Contains(t, items, int32(0))
	assert.NotContains(t, items, int32(1))
}

func decodeCharacters(t *testing.T, snap []byte) map[int32]protocol.Character {
	t.Helper()
	items, err := protocol.Decode(snap)
	require.NoError(t, err)
	out := make(map[int32]protocol.Character)
	for _, it := range items {
		if it.Character != nil {
			out[it.ID] = *it.Character
		}
	}
	return out
}

func TestEmoticonIsRateLimited(t *testing.T) {
	g := newTestGame(t)
	p, ok := g.AddPlayer(0, "pa", protocol.TeamRed)
	require.True(t, ok)

	assert.True(t, p.Emoticon(protocol.EmoticonEyes))
	assert.False(t, p.Emoticon(protocol.EmoticonEyes))

	for i := 0; i <= g.settings.EmoticonDelay*testTickSpeed; i++ {
		g.Step()
	}
	assert.True(t, p.Emoticon(protocol.EmoticonSplattee))
	assert.Equal(t, []protocol.Emoticon{protocol.EmoticonEyes, protocol.EmoticonSplattee}, g.fx.emoticons)
}
