package status_effects

import (
	"context"

	"github.com/35niavlys/speedfng/logging"
)

const (
	// EventApplied is emitted when a status effect is applied to a character.
	EventApplied logging.EventType = "status_effects.applied"
	// EventCleared is emitted when a status effect ends early.
	EventCleared logging.EventType = "status_effects.cleared"
)

const (
	StatusFreeze     = "freeze"
	StatusProtection = "protection"
	StatusInvisible  = "invisible"
)

// AppliedPayload captures details about a status effect application.
type AppliedPayload struct {
	StatusEffect  string `json:"statusEffect"`
	SourceID      string `json:"sourceId,omitempty"`
	DurationTicks int    `json:"durationTicks,omitempty"`
}

// ClearedPayload names the effect that ended and why.
type ClearedPayload struct {
	StatusEffect string `json:"statusEffect"`
	Reason       string `json:"reason,omitempty"`
}

// Applied publishes a status effect application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload AppliedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Cleared publishes a status effect removal event.
func Cleared(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClearedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventCleared,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
