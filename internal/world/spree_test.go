package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
)

func TestSpreeAnnouncesEveryThreshold(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	for i := 0; i < 4; i++ {
		c.AddSpree()
	}
	assert.Empty(t, g.fx.chats)

	c.AddSpree()
	require.Len(t, g.fx.chats, 1)
	assert.Equal(t, "pa is on a killing spree with 5 kills!", g.fx.chats[0].text)
	assert.True(t, c.Player().Abilities.Has(AbilityHammerFreeze))
	assert.Equal(t, []string{"you got the killingspree award [IceHammer]"}, g.fx.broadcastsContaining("award"))
}

func TestSpreeAwardIsGrantedOnce(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	p := c.Player()

	p.Spree = 4
	c.AddSpree()
	p.Spree = 4
	c.AddSpree()

	assert.Len(t, g.fx.broadcastsContaining("award"), 1)
	assert.Len(t, g.fx.chats, 2)
}

func TestSpreeLadderEndsWithGrenade(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	for i := 0; i < 60; i++ {
		c.AddSpree()
	}

	awards := g.fx.broadcastsContaining("award")
	require.Len(t, awards, len(spreeAwards))
	assert.Equal(t, "you got the last killingspree award [Grenade]", awards[len(awards)-1])
	for _, a := range spreeAwards {
		assert.True(t, c.Player().Abilities.Has(a.ability), a.ability.String())
	}
	assert.True(t, c.Core().Protected)
	assert.True(t, c.Weapon(protocol.WeaponGrenade).Got)

	// tier text saturates at the fifth step
	assert.Equal(t, "pa is godlike with 60 kills!", g.fx.chats[len(g.fx.chats)-1].text)
}

func TestSpreeWithoutAwards(t *testing.T) {
	g := newTestGame(t, func(cfg *GameConfig) { cfg.Settings.KillingSpreeAward = false })
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))

	for i := 0; i < 5; i++ {
		c.AddSpree()
	}

	assert.Len(t, g.fx.chats, 1)
	assert.Empty(t, g.fx.broadcasts)
	assert.True(t, c.Player().Abilities.Empty())
}

func TestEndSpreeRevokesEverything(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	g.spawn(t, 1, protocol.TeamBlue, geom.V(600, 200))
	for i := 0; i < 35; i++ {
		c.AddSpree()
	}
	require.True(t, c.Core().Protected)
	g.fx.effects = nil

	c.EndSpree(1)

	p := c.Player()
	assert.Zero(t, p.Spree)
	assert.True(t, p.Abilities.Empty())
	assert.False(t, c.Core().Protected)
	assert.Equal(t, 16, g.fx.effectCount(EffectExplosion))
	assert.Equal(t, "pa 35-kills killing spree was ended by pb", g.fx.chats[len(g.fx.chats)-1].text)
	assert.NotEmpty(t, g.fx.broadcastsContaining("You lost all of your items"))
}

func TestEndShortSpreeIsHarmless(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	near := g.spawn(t, 1, protocol.TeamBlue, geom.V(220, 200))
	for i := 0; i < 5; i++ {
		c.AddSpree()
	}

	c.EndSpree(0)

	assert.Equal(t, 1, g.fx.effectCount(EffectExplosion))
	assert.Equal(t, 10, near.Health())
	assert.Equal(t, "pa 5-kills killing spree was ended.", g.fx.chats[len(g.fx.chats)-1].text)
}

func TestEndSpreeBelowThresholdIsSilent(t *testing.T) {
	g := newTestGame(t)
	c := g.spawn(t, 0, protocol.TeamRed, geom.V(200, 200))
	c.AddSpree()

	c.EndSpree(0)

	assert.Empty(t, g.fx.chats)
	assert.Zero(t, g.fx.effectCount(EffectExplosion))
	assert.Zero(t, c.Player().Spree)
}
