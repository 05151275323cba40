package protocol

// Mask selects the clients an event is delivered to, one bit per client id.
type Mask uint64

// MaskAll targets every client.
const MaskAll Mask = ^Mask(0)

// MaskOne targets a single client. Invalid ids produce an empty mask.
func MaskOne(id int) Mask {
	if id < 0 || id >= 64 {
		return 0
	}
	return Mask(1) << uint(id)
}

// MaskAllExceptOne targets every client but id.
func MaskAllExceptOne(id int) Mask {
	return MaskAll &^ MaskOne(id)
}

// Has reports whether id is targeted.
func (m Mask) Has(id int) bool {
	return m&MaskOne(id) != 0
}
