package combat

import (
	"context"

	"github.com/35niavlys/speedfng/logging"
)

const (
	// EventDamage is emitted when a character takes damage.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a character dies.
	EventDefeat logging.EventType = "combat.defeat"
	// EventMeltHit is emitted when a hammer hit thaws a frozen teammate.
	EventMeltHit logging.EventType = "combat.melt_hit"
)

// DamagePayload captures the amount dealt to a single target.
type DamagePayload struct {
	Weapon       string `json:"weapon"`
	Amount       int    `json:"amount"`
	TargetHealth int    `json:"targetHealth"`
	TargetArmor  int    `json:"targetArmor"`
}

// DefeatPayload describes the context for a fatal blow.
type DefeatPayload struct {
	Weapon      string `json:"weapon"`
	ModeSpecial int    `json:"modeSpecial,omitempty"`
	Spree       int    `json:"spree,omitempty"`
}

// MeltHitPayload records how much freeze a melt removed.
type MeltHitPayload struct {
	RemainingTicks int  `json:"remainingTicks"`
	Molten         bool `json:"molten"`
}

// Damage publishes a combat damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Defeat publishes a combat defeat event. The actor is the killer.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// MeltHit publishes a melt interaction between teammates.
func MeltHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload MeltHitPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventMeltHit,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
