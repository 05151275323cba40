package protocol

// ItemType tags a snapshot item.
type ItemType int32

const (
	ItemCharacter ItemType = iota + 1
	ItemLaser
	ItemProjectile
	ItemPickup
)

// Core flag bits carried in the extended character fields.
const (
	CoreFlagProtected   = 1 << 0
	CoreFlagProtectedBy = 1 << 1
)

// CharacterCore is the quantized physics state of a character. Two cores that
// encode equally are indistinguishable to a predicting client.
type CharacterCore struct {
	Tick         int32
	X            int32
	Y            int32
	VelX         int32
	VelY         int32
	Angle        int32
	Direction    int32
	Jumped       int32
	HookedPlayer int32
	HookState    int32
	HookTick     int32
	HookX        int32
	HookY        int32
	HookDx       int32
	HookDy       int32
}

// Character is the full character item. FreezeTicks and CoreFlags are the
// extended fields; legacy clients receive the item without them.
type Character struct {
	FreezeTicks int32
	CoreFlags   int32

	CharacterCore

	PlayerFlags int32
	Health      int32
	Armor       int32
	AmmoCount   int32
	Weapon      int32
	Emote       int32
	AttackTick  int32
}

// Laser is the beam item.
type Laser struct {
	X         int32
	Y         int32
	FromX     int32
	FromY     int32
	StartTick int32
}

// Projectile is the ballistic item, also sent out of band when fired.
type Projectile struct {
	X         int32
	Y         int32
	VelX      int32
	VelY      int32
	Type      int32
	StartTick int32
}

// Pickup is the item for spawned pickups.
type Pickup struct {
	X       int32
	Y       int32
	Type    int32
	Subtype int32
}

// Pickup types.
const (
	PickupHealth int32 = iota
	PickupArmor
	PickupWeapon
	PickupNinja
)
