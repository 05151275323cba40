package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/world"
)

func TestBatchForFiltersByMaskAndTarget(t *testing.T) {
	b := NewBuffer(0)
	b.Sound(geom.V(1, 2), protocol.SoundHit, protocol.MaskOne(3))
	b.Sound(geom.V(1, 2), protocol.SoundPlayerDie, protocol.MaskAll)
	b.Effect(world.Effect{Kind: world.EffectExplosion, Mask: protocol.MaskAllExceptOne(3)})
	b.Chat(-1, "hello all")
	b.Broadcast(3, "only three")
	b.Broadcast(4, "only four")
	b.KillMessage(world.KillMessage{Killer: 1, Victim: 2})
	b.ExtraProjectiles(3, []protocol.Projectile{{X: 10}})

	batch := b.Drain()
	three := batch.For(3)
	four := batch.For(4)

	require.Len(t, three.Sounds, 2)
	assert.Equal(t, protocol.SoundHit, three.Sounds[0].Sound)
	assert.Empty(t, three.Effects)
	require.Len(t, three.Messages, 4)
	assert.Equal(t, "only three", three.Messages[1].Text)
	assert.Equal(t, MessageExtraProjectiles, three.Messages[3].Kind)

	require.Len(t, four.Sounds, 1)
	assert.Len(t, four.Effects, 1)
	require.Len(t, four.Messages, 3)
	assert.Equal(t, "only four", four.Messages[1].Text)
	assert.Equal(t, MessageKill, four.Messages[2].Kind)
}

func TestDrainStartsFreshBatch(t *testing.T) {
	b := NewBuffer(0)
	b.Emoticon(2, protocol.EmoticonEyes)

	first := b.Drain()
	require.Len(t, first.Messages, 1)
	assert.Equal(t, 2, first.Messages[0].From)
	assert.Equal(t, protocol.EmoticonEyes, first.Messages[0].Emoticon)
	assert.True(t, b.Drain().Empty())
}

func TestEmptyMasksAndProjectileListsAreIgnored(t *testing.T) {
	b := NewBuffer(0)
	b.Sound(geom.Vec2{}, protocol.SoundHit, 0)
	b.Effect(world.Effect{Kind: world.EffectDeath})
	b.ExtraProjectiles(1, nil)
	b.ExtraProjectiles(-1, []protocol.Projectile{{}})

	assert.True(t, b.Drain().Empty())
}

func TestBufferLimitCountsDrops(t *testing.T) {
	b := NewBuffer(2)
	for i := 0; i < 5; i++ {
		b.Chat(-1, "spam")
	}

	assert.Len(t, b.Drain().Messages, 2)
	assert.Equal(t, uint64(3), b.Dropped())
}

func TestExtraProjectilesAreCopied(t *testing.T) {
	b := NewBuffer(0)
	shots := []protocol.Projectile{{X: 1}}
	b.ExtraProjectiles(0, shots)
	shots[0].X = 99

	assert.Equal(t, int32(1), b.Drain().Messages[0].Projectiles[0].X)
}

func TestNilBufferDrain(t *testing.T) {
	var b *Buffer
	assert.True(t, b.Drain().Empty())
	assert.Zero(t, b.Dropped())
}
