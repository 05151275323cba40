package world

import "github.com/35niavlys/speedfng/internal/protocol"

// Settings are the server rules that shape combat.
type Settings struct {
	Damage        bool `yaml:"damage" json:"damage"`
	TeamDamage    bool `yaml:"team_damage" json:"teamDamage"`
	AutoHammer    bool `yaml:"auto_hammer" json:"autoHammer"`
	Ninja         bool `yaml:"ninja" json:"ninja"`
	UnlimitedAmmo bool `yaml:"unlimited_ammo" json:"unlimitedAmmo"`

	// Knockback scales in percent.
	HammerScaleX     int `yaml:"hammer_scale_x" json:"hammerScaleX"`
	HammerScaleY     int `yaml:"hammer_scale_y" json:"hammerScaleY"`
	MeltHammerScaleX int `yaml:"melt_hammer_scale_x" json:"meltHammerScaleX"`
	MeltHammerScaleY int `yaml:"melt_hammer_scale_y" json:"meltHammerScaleY"`

	// HammerMelt is the freeze time in seconds a teammate's hammer removes.
	HammerMelt int `yaml:"hammer_melt" json:"hammerMelt"`
	// MeltSafeTicks is how long a melted character is immune to a new freeze.
	MeltSafeTicks int `yaml:"melt_safe_ticks" json:"meltSafeTicks"`
	// HammerFreeze is the freeze time in seconds dealt by the ice hammer award.
	HammerFreeze int `yaml:"hammer_freeze" json:"hammerFreeze"`

	LaserSkipFrozen    bool `yaml:"laser_skip_frozen" json:"laserSkipFrozen"`
	LaserSkipTeammates bool `yaml:"laser_skip_teammates" json:"laserSkipTeammates"`

	BloodInterval int `yaml:"blood_interval" json:"bloodInterval"`

	KillingSpreeKills  int  `yaml:"killing_spree_kills" json:"killingSpreeKills"`
	KillingSpreeAward  bool `yaml:"killing_spree_award" json:"killingSpreeAward"`
	PrintKillingSpree  bool `yaml:"print_killing_spree" json:"printKillingSpree"`
	EmoticonDelay      int  `yaml:"emoticon_delay" json:"emoticonDelay"`
	StrictSpectateMode bool `yaml:"strict_spectate_mode" json:"strictSpectateMode"`
	Pauseable          bool `yaml:"pauseable" json:"pauseable"`
	ShowChatKills      bool `yaml:"show_chat_kills" json:"showChatKills"`
	RespawnDelayMs     int  `yaml:"respawn_delay_ms" json:"respawnDelayMs"`
}

// DefaultSettings returns the stock rules.
func DefaultSettings() Settings {
	return Settings{
		Damage:            true,
		HammerScaleX:      100,
		HammerScaleY:      100,
		MeltHammerScaleX:  50,
		MeltHammerScaleY:  50,
		HammerMelt:        1,
		HammerFreeze:      2,
		BloodInterval:     3,
		KillingSpreeKills: 5,
		KillingSpreeAward: true,
		PrintKillingSpree: true,
		EmoticonDelay:     3,
		Pauseable:         true,
		ShowChatKills:     true,
		RespawnDelayMs:    500,
	}
}

// Normalized clamps values that would break tick arithmetic.
func (s Settings) Normalized() Settings {
	if s.BloodInterval < 1 {
		s.BloodInterval = 1
	}
	if s.KillingSpreeKills < 1 {
		s.KillingSpreeKills = 1
	}
	if s.EmoticonDelay < 0 {
		s.EmoticonDelay = 0
	}
	if s.MeltSafeTicks < 0 {
		s.MeltSafeTicks = 0
	}
	if s.RespawnDelayMs < 0 {
		s.RespawnDelayMs = 0
	}
	return s
}

// WeaponSpec is the static data of one weapon.
type WeaponSpec struct {
	FireDelayMs  int  `yaml:"fire_delay_ms" json:"fireDelayMs"`
	Damage       int  `yaml:"damage" json:"damage"`
	AmmoRegenMs  int  `yaml:"ammo_regen_ms" json:"ammoRegenMs"`
	MaxAmmo      int  `yaml:"max_ammo" json:"maxAmmo"`
	ConsumesAmmo bool `yaml:"consumes_ammo" json:"consumesAmmo"`
}

// NinjaSpec holds the dash timings.
type NinjaSpec struct {
	DurationMs int     `yaml:"duration_ms" json:"durationMs"`
	MoveTimeMs int     `yaml:"move_time_ms" json:"moveTimeMs"`
	Velocity   float32 `yaml:"velocity" json:"velocity"`
}

// Weapons is the weapon table indexed by weapon id.
type Weapons struct {
	Specs [protocol.NumWeapons]WeaponSpec `yaml:"specs" json:"specs"`
	Ninja NinjaSpec                       `yaml:"ninja" json:"ninja"`
}

// DefaultWeapons returns the stock weapon table.
func DefaultWeapons() Weapons {
	var w Weapons
	w.Specs[protocol.WeaponHammer] = WeaponSpec{FireDelayMs: 125, Damage: 3, MaxAmmo: 10, ConsumesAmmo: true}
	w.Specs[protocol.WeaponGun] = WeaponSpec{FireDelayMs: 125, Damage: 1, AmmoRegenMs: 500, MaxAmmo: 10, ConsumesAmmo: true}
	w.Specs[protocol.WeaponShotgun] = WeaponSpec{FireDelayMs: 500, Damage: 1, MaxAmmo: 10, ConsumesAmmo: true}
	w.Specs[protocol.WeaponGrenade] = WeaponSpec{FireDelayMs: 500, Damage: 6, MaxAmmo: 10, ConsumesAmmo: true}
	w.Specs[protocol.WeaponRifle] = WeaponSpec{FireDelayMs: 800, Damage: 5, MaxAmmo: 10}
	w.Specs[protocol.WeaponNinja] = WeaponSpec{FireDelayMs: 800, Damage: 9, MaxAmmo: 10, ConsumesAmmo: true}
	w.Ninja = NinjaSpec{DurationMs: 15000, MoveTimeMs: 200, Velocity: 50}
	return w
}

// Spec returns the data for w, or the hammer's for an invalid id.
func (t Weapons) Spec(w protocol.Weapon) WeaponSpec {
	if !w.Valid() {
		return t.Specs[protocol.WeaponHammer]
	}
	return t.Specs[w]
}
