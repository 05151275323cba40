package world

import "fmt"

// Handle is a stable reference to an entity. A handle whose entity was
// removed never resolves again, even after its slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was ever issued.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// Index is the slot number, reused after removal. Snapshots use it as the
// item id.
func (h Handle) Index() int { return int(h.index) }

func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

type slot struct {
	gen    uint32
	entity Entity
}

// registry owns entity slots and hands out generation-checked handles.
type registry struct {
	slots []slot
	free  []uint32
}

func (r *registry) insert(e Entity) Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.entity = e
	return Handle{index: idx, gen: s.gen}
}

func (r *registry) resolve(h Handle) Entity {
	if !h.Valid() || int(h.index) >= len(r.slots) {
		return nil
	}
	s := r.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.entity
}

func (r *registry) remove(h Handle) bool {
	if r.resolve(h) == nil {
		return false
	}
	s := &r.slots[h.index]
	s.entity = nil
	// bump so stale handles stop resolving before the slot is reused
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	r.free = append(r.free, h.index)
	return true
}
