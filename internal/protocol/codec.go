package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShortItem is returned when an item is truncated.
	ErrShortItem = errors.New("protocol: short item")
	// ErrUnknownItem is returned for an unrecognised item type.
	ErrUnknownItem = errors.New("protocol: unknown item type")
)

const (
	itemHeaderSize    = 12
	characterExtended = 2
	characterFields   = 24
	laserFields       = 5
	projectileFields  = 6
	pickupFields      = 4
)

// Item is one decoded snapshot entry. Exactly one of the pointers is set.
type Item struct {
	Type       ItemType
	ID         int32
	Character  *Character
	Laser      *Laser
	Projectile *Projectile
	Pickup     *Pickup
}

// Writer builds a snapshot as a sequence of little-endian int32 items, each
// prefixed by a type, id and size header.
type Writer struct {
	buf []byte
}

// NewWriter returns a writer with room for a typical snapshot.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 1024)}
}

// Bytes returns the encoded snapshot.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset clears the writer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

func (w *Writer) header(t ItemType, id int32, fields int) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(t))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(id))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(fields*4))
}

func (w *Writer) ints(values ...int32) {
	for _, v := range values {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	}
}

// WriteCharacter appends a character item. Legacy clients get the reduced
// layout without the extended fields.
func (w *Writer) WriteCharacter(id int32, c Character, legacy bool) {
	fields := characterFields
	if legacy {
		fields -= characterExtended
	}
	w.header(ItemCharacter, id, fields)
	if !legacy {
		w.ints(c.FreezeTicks, c.CoreFlags)
	}
	core := c.CharacterCore
	w.ints(core.Tick, core.X, core.Y, core.VelX, core.VelY, core.Angle, core.Direction,
		core.Jumped, core.HookedPlayer, core.HookState, core.HookTick,
		core.HookX, core.HookY, core.HookDx, core.HookDy)
	w.ints(c.PlayerFlags, c.Health, c.Armor, c.AmmoCount, c.Weapon, c.Emote, c.AttackTick)
}

// WriteLaser appends a beam item.
func (w *Writer) WriteLaser(id int32, l Laser) {
	w.header(ItemLaser, id, laserFields)
	w.ints(l.X, l.Y, l.FromX, l.FromY, l.StartTick)
}

// WriteProjectile appends a projectile item.
func (w *Writer) WriteProjectile(id int32, p Projectile) {
	w.header(ItemProjectile, id, projectileFields)
	w.ints(p.X, p.Y, p.VelX, p.VelY, p.Type, p.StartTick)
}

// WritePickup appends a pickup item.
func (w *Writer) WritePickup(id int32, p Pickup) {
	w.header(ItemPickup, id, pickupFields)
	w.ints(p.X, p.Y, p.Type, p.Subtype)
}

// ProjectileInts flattens a projectile for out of band messages.
func ProjectileInts(p Projectile) []int32 {
	return []int32{p.X, p.Y, p.VelX, p.VelY, p.Type, p.StartTick}
}

// Decode parses a snapshot produced by Writer. Character items are accepted
// in both layouts; legacy ones decode with zero extended fields.
func Decode(data []byte) ([]Item, error) {
	var items []Item
	for len(data) > 0 {
		if len(data) < itemHeaderSize {
			return items, ErrShortItem
		}
		t := ItemType(int32(binary.LittleEndian.Uint32(data[0:4])))
		id := int32(binary.LittleEndian.Uint32(data[4:8]))
		size := int(binary.LittleEndian.Uint32(data[8:12]))
		data = data[itemHeaderSize:]
		if size < 0 || size%4 != 0 || len(data) < size {
			return items, ErrShortItem
		}
		v := readInts(data[:size])
		data = data[size:]

		item := Item{Type: t, ID: id}
		switch t {
		case ItemCharacter:
			c, err := decodeCharacter(v)
			if err != nil {
				return items, err
			}
			item.Character = &c
		case ItemLaser:
			if len(v) != laserFields {
				return items, ErrShortItem
			}
			item.Laser = &Laser{X: v[0], Y: v[1], FromX: v[2], FromY: v[3], StartTick: v[4]}
		case ItemProjectile:
			if len(v) != projectileFields {
				return items, ErrShortItem
			}
			item.Projectile = &Projectile{X: v[0], Y: v[1], VelX: v[2], VelY: v[3], Type: v[4], StartTick: v[5]}
		case ItemPickup:
			if len(v) != pickupFields {
				return items, ErrShortItem
			}
			item.Pickup = &Pickup{X: v[0], Y: v[1], Type: v[2], Subtype: v[3]}
		default:
			return items, fmt.Errorf("%w: %d", ErrUnknownItem, t)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeCharacter(v []int32) (Character, error) {
	var c Character
	switch len(v) {
	case characterFields:
		c.FreezeTicks, c.CoreFlags = v[0], v[1]
		v = v[characterExtended:]
	case characterFields - characterExtended:
	default:
		return c, ErrShortItem
	}
	c.CharacterCore = CharacterCore{
		Tick: v[0], X: v[1], Y: v[2], VelX: v[3], VelY: v[4], Angle: v[5], Direction: v[6],
		Jumped: v[7], HookedPlayer: v[8], HookState: v[9], HookTick: v[10],
		HookX: v[11], HookY: v[12], HookDx: v[13], HookDy: v[14],
	}
	c.PlayerFlags, c.Health, c.Armor, c.AmmoCount = v[15], v[16], v[17], v[18]
	c.Weapon, c.Emote, c.AttackTick = v[19], v[20], v[21]
	return c, nil
}

func readInts(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
