package world

// Ability is one kill-streak award.
type Ability uint16

const (
	AbilityHammerFreeze Ability = 1 << iota
	AbilityJetPack
	AbilitySpeedRunner
	AbilityRifleSpread
	AbilityProtected
	AbilityInvisible
	AbilityRifleSwap
	AbilityPauseable
	AbilityTeamProtect
	AbilityGrenadeLauncher
)

var abilityNames = map[Ability]string{
	AbilityHammerFreeze:    "IceHammer",
	AbilityJetPack:         "JetPack",
	AbilitySpeedRunner:     "MaxSpeed",
	AbilityRifleSpread:     "Laser2x",
	AbilityProtected:       "Protection",
	AbilityInvisible:       "Invisibility",
	AbilityRifleSwap:       "LaserSwap",
	AbilityPauseable:       "Pauseable",
	AbilityTeamProtect:     "TeamProtection",
	AbilityGrenadeLauncher: "Grenade",
}

func (a Ability) String() string {
	if name, ok := abilityNames[a]; ok {
		return name
	}
	return "unknown"
}

// Abilities is the set of awards a player currently holds.
type Abilities struct {
	bits Ability
}

// Has reports whether every ability in a is held.
func (s Abilities) Has(a Ability) bool {
	return a != 0 && s.bits&a == a
}

// Grant adds a and reports whether it was newly added.
func (s *Abilities) Grant(a Ability) bool {
	if s.Has(a) {
		return false
	}
	s.bits |= a
	return true
}

// Revoke removes a.
func (s *Abilities) Revoke(a Ability) {
	s.bits &^= a
}

// RevokeAll clears the set.
func (s *Abilities) RevokeAll() {
	s.bits = 0
}

// Empty reports whether nothing is held.
func (s Abilities) Empty() bool {
	return s.bits == 0
}
