package world

import (
	"context"
	"fmt"

	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/logging"
	"github.com/35niavlys/speedfng/logging/spree"
)

var spreeTiers = [...]string{
	"is on a killing spree",
	"is on a rampage",
	"is dominating",
	"is unstoppable",
	"is godlike",
}

// spreeAward is unlocked when the streak reaches step times the threshold.
type spreeAward struct {
	step    int
	ability Ability
}

var spreeAwards = [...]spreeAward{
	{1, AbilityHammerFreeze},
	{2, AbilityJetPack},
	{3, AbilitySpeedRunner},
	{4, AbilityRifleSpread},
	{5, AbilityProtected},
	{6, AbilityInvisible},
	{7, AbilityRifleSwap},
	{8, AbilityPauseable},
	{9, AbilityTeamProtect},
	{10, AbilityGrenadeLauncher},
}

// AddSpree counts a kill. Every threshold multiple is announced and, with
// awards enabled, unlocks the next ability. The fifth tier text repeats for
// longer streaks.
func (c *Character) AddSpree() {
	g := c.game
	p := c.player
	k := g.settings.KillingSpreeKills

	p.Spree++
	if p.Spree%k != 0 {
		return
	}

	tier := min(p.Spree/k-1, len(spreeTiers)-1)
	g.fx.Chat(-1, fmt.Sprintf("%s %s with %d kills!", p.Name, spreeTiers[tier], p.Spree))

	if !g.settings.KillingSpreeAward {
		return
	}

	for _, award := range spreeAwards {
		if p.Spree != award.step*k {
			continue
		}
		if !p.Abilities.Grant(award.ability) {
			break
		}
		c.onAward(award.ability)
		msg := fmt.Sprintf("you got the killingspree award [%s]", award.ability)
		if award.ability == AbilityGrenadeLauncher {
			msg = fmt.Sprintf("you got the last killingspree award [%s]", award.ability)
		}
		g.fx.Broadcast(p.id, msg)
		spree.Award(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(p.id),
			spree.AwardPayload{Ability: award.ability.String(), Spree: p.Spree}, nil)
		break
	}
}

func (c *Character) onAward(a Ability) {
	switch a {
	case AbilityProtected:
		c.core.Protected = true
	case AbilityGrenadeLauncher:
		c.GiveWeapon(protocol.WeaponGrenade, c.game.weapons.Spec(protocol.WeaponGrenade).MaxAmmo)
	}
}

// EndSpree closes the streak: an explosion for streaks of at least one tier,
// an optional announcement, and every award is revoked.
func (c *Character) EndSpree(killer int) {
	g := c.game
	s := g.settings
	p := c.player
	k := s.KillingSpreeKills

	if p.Spree >= k {
		if p.Spree >= k*7 {
			g.CreateRingExplosion(c.pos, p.id, 1, 15, 10)
		} else {
			g.sound(c.pos, protocol.SoundGrenadeExplode, protocol.MaskAll)
			g.CreateExplosion(c.pos, p.id, protocol.WeaponRifle, true)
		}

		if s.PrintKillingSpree {
			if killer != p.id {
				g.fx.Chat(-1, fmt.Sprintf("%s %d-kills killing spree was ended by %s", p.Name, p.Spree, g.playerName(killer)))
			} else {
				g.fx.Chat(-1, fmt.Sprintf("%s %d-kills killing spree was ended.", p.Name, p.Spree))
			}
			g.fx.Broadcast(p.id, "You lost all of your items")
		}

		endedBy := ""
		if killer != p.id {
			endedBy = g.playerName(killer)
		}
		spree.Ended(context.Background(), g.publisher, uint64(g.tick), logging.PlayerRef(p.id),
			spree.EndedPayload{Spree: p.Spree, EndedBy: endedBy, SelfKill: killer == p.id}, nil)
	}

	p.Abilities.RevokeAll()
	c.core.Protected = false
	p.Spree = 0
}
