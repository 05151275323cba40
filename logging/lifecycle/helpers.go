package lifecycle

import (
	"context"

	"github.com/35niavlys/speedfng/logging"
)

const (
	// EventPlayerJoined is emitted when a client takes a player slot.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerDisconnected is emitted when a player leaves the game.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	// EventCharacterSpawned is emitted when a player's character enters the world.
	EventCharacterSpawned logging.EventType = "lifecycle.character_spawned"
	// EventPaused is emitted when a character leaves or re-enters the world
	// through a pause.
	EventPaused logging.EventType = "lifecycle.paused"
)

// PlayerJoinedPayload captures the joining player.
type PlayerJoinedPayload struct {
	Name string `json:"name"`
	Team int    `json:"team"`
}

// PlayerDisconnectedPayload captures the reason a player left.
type PlayerDisconnectedPayload struct {
	Reason string `json:"reason"`
}

// CharacterSpawnedPayload captures spawn metadata.
type CharacterSpawnedPayload struct {
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// PausedPayload records the pause transition.
type PausedPayload struct {
	Paused bool   `json:"paused"`
	Mode   string `json:"mode,omitempty"`
}

// PlayerJoined publishes a player join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerJoined, tick, actor, payload, extra)
}

// PlayerDisconnected publishes a player disconnect event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDisconnectedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerDisconnected, tick, actor, payload, extra)
}

// CharacterSpawned publishes a spawn event.
func CharacterSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CharacterSpawnedPayload, extra map[string]any) {
	publish(ctx, pub, EventCharacterSpawned, tick, actor, payload, extra)
}

// Paused publishes a pause transition.
func Paused(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PausedPayload, extra map[string]any) {
	publish(ctx, pub, EventPaused, tick, actor, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, t logging.EventType, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     t,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}
