package protocol

// PlayerInput is one client input frame.
type PlayerInput struct {
	Direction    int32 `json:"direction" msgpack:"direction"`
	TargetX      int32 `json:"targetX" msgpack:"targetX"`
	TargetY      int32 `json:"targetY" msgpack:"targetY"`
	Jump         int32 `json:"jump" msgpack:"jump"`
	Fire         int32 `json:"fire" msgpack:"fire"`
	Hook         int32 `json:"hook" msgpack:"hook"`
	PlayerFlags  int32 `json:"playerFlags" msgpack:"playerFlags"`
	WantedWeapon int32 `json:"wantedWeapon" msgpack:"wantedWeapon"`
	NextWeapon   int32 `json:"nextWeapon" msgpack:"nextWeapon"`
	PrevWeapon   int32 `json:"prevWeapon" msgpack:"prevWeapon"`
}

// InputCount is the number of press and release edges between two counter
// states.
type InputCount struct {
	Presses  int
	Releases int
}

// CountInput walks the wrapping counter from prev to cur. Odd states are
// pressed, even states released.
func CountInput(prev, cur int32) InputCount {
	var c InputCount
	prev &= InputStateMask
	cur &= InputStateMask
	for i := prev; i != cur; {
		i = (i + 1) & InputStateMask
		if i&1 != 0 {
			c.Presses++
		} else {
			c.Releases++
		}
	}
	return c
}
