package physics

// Tuning holds the movement and weapon parameters shared with clients.
type Tuning struct {
	GroundControlSpeed float32 `yaml:"ground_control_speed" json:"groundControlSpeed"`
	GroundControlAccel float32 `yaml:"ground_control_accel" json:"groundControlAccel"`
	GroundFriction     float32 `yaml:"ground_friction" json:"groundFriction"`
	GroundJumpImpulse  float32 `yaml:"ground_jump_impulse" json:"groundJumpImpulse"`
	AirJumpImpulse     float32 `yaml:"air_jump_impulse" json:"airJumpImpulse"`
	AirControlSpeed    float32 `yaml:"air_control_speed" json:"airControlSpeed"`
	AirControlAccel    float32 `yaml:"air_control_accel" json:"airControlAccel"`
	AirFriction        float32 `yaml:"air_friction" json:"airFriction"`
	HookLength         float32 `yaml:"hook_length" json:"hookLength"`
	HookFireSpeed      float32 `yaml:"hook_fire_speed" json:"hookFireSpeed"`
	HookDragAccel      float32 `yaml:"hook_drag_accel" json:"hookDragAccel"`
	HookDragSpeed      float32 `yaml:"hook_drag_speed" json:"hookDragSpeed"`
	Gravity            float32 `yaml:"gravity" json:"gravity"`

	VelrampStart     float32 `yaml:"velramp_start" json:"velrampStart"`
	VelrampRange     float32 `yaml:"velramp_range" json:"velrampRange"`
	VelrampCurvature float32 `yaml:"velramp_curvature" json:"velrampCurvature"`

	GunCurvature     float32 `yaml:"gun_curvature" json:"gunCurvature"`
	GunSpeed         float32 `yaml:"gun_speed" json:"gunSpeed"`
	GunLifetime      float32 `yaml:"gun_lifetime" json:"gunLifetime"`
	ShotgunCurvature float32 `yaml:"shotgun_curvature" json:"shotgunCurvature"`
	ShotgunSpeed     float32 `yaml:"shotgun_speed" json:"shotgunSpeed"`
	ShotgunSpeeddiff float32 `yaml:"shotgun_speeddiff" json:"shotgunSpeeddiff"`
	ShotgunLifetime  float32 `yaml:"shotgun_lifetime" json:"shotgunLifetime"`
	GrenadeCurvature float32 `yaml:"grenade_curvature" json:"grenadeCurvature"`
	GrenadeSpeed     float32 `yaml:"grenade_speed" json:"grenadeSpeed"`
	GrenadeLifetime  float32 `yaml:"grenade_lifetime" json:"grenadeLifetime"`

	LaserReach       float32 `yaml:"laser_reach" json:"laserReach"`
	LaserBounceDelay float32 `yaml:"laser_bounce_delay" json:"laserBounceDelay"`
	LaserBounceNum   float32 `yaml:"laser_bounce_num" json:"laserBounceNum"`
	LaserBounceCost  float32 `yaml:"laser_bounce_cost" json:"laserBounceCost"`
	LaserDamage      float32 `yaml:"laser_damage" json:"laserDamage"`

	PlayerCollision bool `yaml:"player_collision" json:"playerCollision"`
	PlayerHooking   bool `yaml:"player_hooking" json:"playerHooking"`
}

// DefaultTuning returns the stock parameters.
func DefaultTuning() Tuning {
	return Tuning{
		GroundControlSpeed: 10,
		GroundControlAccel: 2,
		GroundFriction:     0.5,
		GroundJumpImpulse:  13.2,
		AirJumpImpulse:     12,
		AirControlSpeed:    5,
		AirControlAccel:    1.5,
		AirFriction:        0.95,
		HookLength:         380,
		HookFireSpeed:      80,
		HookDragAccel:      3,
		HookDragSpeed:      15,
		Gravity:            0.5,

		VelrampStart:     550,
		VelrampRange:     2000,
		VelrampCurvature: 1.4,

		GunCurvature:     1.25,
		GunSpeed:         2200,
		GunLifetime:      2,
		ShotgunCurvature: 1.25,
		ShotgunSpeed:     2750,
		ShotgunSpeeddiff: 0.8,
		ShotgunLifetime:  0.2,
		GrenadeCurvature: 7,
		GrenadeSpeed:     1000,
		GrenadeLifetime:  2,

		LaserReach:       800,
		LaserBounceDelay: 150,
		LaserBounceNum:   1,
		LaserBounceCost:  0,
		LaserDamage:      5,

		PlayerCollision: true,
		PlayerHooking:   true,
	}
}
