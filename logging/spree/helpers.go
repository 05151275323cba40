package spree

import (
	"context"

	"github.com/35niavlys/speedfng/logging"
)

const (
	// EventAward is emitted when a kill streak unlocks an ability.
	EventAward logging.EventType = "spree.award"
	// EventEnded is emitted when a streak of at least one tier ends.
	EventEnded logging.EventType = "spree.ended"
)

// AwardPayload names the unlocked ability.
type AwardPayload struct {
	Ability string `json:"ability"`
	Spree   int    `json:"spree"`
}

// EndedPayload records the streak length and who ended it.
type EndedPayload struct {
	Spree    int    `json:"spree"`
	EndedBy  string `json:"endedBy,omitempty"`
	SelfKill bool   `json:"selfKill,omitempty"`
}

// Award publishes an ability unlock.
func Award(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AwardPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAward,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}

// Ended publishes the end of a streak.
func Ended(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EndedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEnded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
		Extra:    extra,
	})
}
