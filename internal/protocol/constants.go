// Package protocol defines the identifiers and net objects shared between the
// simulation and the network layer.
package protocol

// Weapon identifies a weapon slot. The negative values are kill causes that
// are not slots.
type Weapon int

const (
	WeaponGame  Weapon = -3
	WeaponSelf  Weapon = -2
	WeaponWorld Weapon = -1

	WeaponHammer  Weapon = 0
	WeaponGun     Weapon = 1
	WeaponShotgun Weapon = 2
	WeaponGrenade Weapon = 3
	WeaponRifle   Weapon = 4
	WeaponNinja   Weapon = 5
	NumWeapons           = 6
)

// Valid reports whether w names a weapon slot.
func (w Weapon) Valid() bool {
	return w >= 0 && int(w) < NumWeapons
}

func (w Weapon) String() string {
	switch w {
	case WeaponGame:
		return "game"
	case WeaponSelf:
		return "self"
	case WeaponWorld:
		return "world"
	case WeaponHammer:
		return "hammer"
	case WeaponGun:
		return "gun"
	case WeaponShotgun:
		return "shotgun"
	case WeaponGrenade:
		return "grenade"
	case WeaponRifle:
		return "rifle"
	case WeaponNinja:
		return "ninja"
	default:
		return "unknown"
	}
}

// Sound identifies a one-shot sound cue.
type Sound int

const (
	SoundGunFire Sound = iota
	SoundShotgunFire
	SoundGrenadeFire
	SoundHammerFire
	SoundHammerHit
	SoundNinjaFire
	SoundGrenadeExplode
	SoundNinjaHit
	SoundRifleFire
	SoundRifleBounce
	SoundWeaponSwitch
	SoundPlayerPainShort
	SoundPlayerPainLong
	SoundBodyLand
	SoundPlayerAirJump
	SoundPlayerJump
	SoundPlayerDie
	SoundPlayerSpawn
	SoundPlayerSkid
	SoundTeeCry
	SoundHookLoop
	SoundHookAttachGround
	SoundHookAttachPlayer
	SoundHookNoAttach
	SoundPickupHealth
	SoundPickupArmor
	SoundPickupGrenade
	SoundPickupShotgun
	SoundPickupNinja
	SoundWeaponSpawn
	SoundWeaponNoAmmo
	SoundHit
	SoundChatServer
)

// Emote is the face a character shows.
type Emote int

const (
	EmoteNormal Emote = iota
	EmotePain
	EmoteHappy
	EmoteSurprise
	EmoteAngry
	EmoteBlink
)

// Emoticon is the bubble shown above a player.
type Emoticon int

const (
	EmoticonOop Emoticon = iota
	EmoticonExclamation
	EmoticonHearts
	EmoticonDrop
	EmoticonDotDot
	EmoticonMusic
	EmoticonSorry
	EmoticonGhost
	EmoticonSushi
	EmoticonSplattee
	EmoticonDevilTee
	EmoticonZomg
	EmoticonZzz
	EmoticonWtf
	EmoticonEyes
	EmoticonQuestion

	NumEmoticons
)

// Team of a player.
type Team int

const (
	TeamSpectators Team = -1
	TeamRed        Team = 0
	TeamBlue       Team = 1
)

// Player flags reported by clients.
const (
	PlayerFlagPlaying    = 1 << 0
	PlayerFlagInMenu     = 1 << 1
	PlayerFlagChatting   = 1 << 2
	PlayerFlagScoreboard = 1 << 3
)

// InputStateMask bounds the wrapping press counters of fire and weapon
// switch inputs.
const InputStateMask = 0x3f

// MaxClients bounds the number of simultaneously connected players.
const MaxClients = 16

// PhysSize is the diameter of a character's collision body.
const PhysSize = 28
