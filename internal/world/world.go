package world

import (
	"github.com/35niavlys/speedfng/internal/geom"
	"github.com/35niavlys/speedfng/internal/protocol"
)

// Kind tags the entity types the world tracks.
type Kind int

const (
	KindCharacter Kind = iota
	KindLaser
	KindProjectile
	KindPickup
	numKinds
)

// Entity is anything the world ticks and snapshots.
type Entity interface {
	Handle() Handle
	Kind() Kind
	Position() geom.Vec2
	ProximityRadius() float32
	Tick()
	TickDeferred()
	TickPaused()
	Snap(ctx *SnapContext)

	bind(h Handle)
	markDestroyed() bool
	destroyed() bool
}

type base struct {
	handle Handle
	kind   Kind
	pos    geom.Vec2
	radius float32
	dead   bool
}

func (b *base) Handle() Handle { return b.handle }
func (b *base) Kind() Kind { return b.kind }
func (b *base) Position() geom.Vec2 { return b.pos }
func (b *base) ProximityRadius() float32 { return b.radius }
func (b *base) TickDeferred() {}
func (b *base) TickPaused() {}
func (b *base) bind(h Handle) { b.handle = h }
func (b *base) destroyed() bool { return b.dead }
func (b *base) markDestroyed() bool {
	if b.dead {
		return false
	}
	b.dead = true
	return true
}

// World owns every live entity. Iteration order is insertion order per kind;
// an entity removed during a pass is not visited by the rest of that pass,
// and an entity inserted during a pass is first visited on the next one.
type World struct {
	reg     registry
	order   [numKinds][]Handle
	pending []Handle

	// Paused freezes simulation; entities only shift their timers.
	Paused bool
}

// New returns an empty world.
func New() *World {
	return &World{}
}

// Insert registers e and returns its handle.
func (w *World) Insert(e Entity) Handle {
	h := w.reg.insert(e)
	e.bind(h)
	w.order[e.Kind()] = append(w.order[e.Kind()], h)
	return h
}

// Remove unlinks the entity immediately. It reports whether it was present.
func (w *World) Remove(h Handle) bool {
	e := w.reg.resolve(h)
	if e == nil {
		return false
	}
	list := w.order[e.Kind()]
	for i, candidate := range list {
		if candidate == h {
			w.order[e.Kind()] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return w.reg.remove(h)
}

// Destroy schedules removal at the end of the current tick. The entity is
// skipped by queries and passes from now on.
func (w *World) Destroy(h Handle) {
	e := w.reg.resolve(h)
	if e == nil || !e.markDestroyed() {
		return
	}
	w.pending = append(w.pending, h)
}

// Resolve returns the live entity behind h, or nil.
func (w *World) Resolve(h Handle) Entity {
	e := w.reg.resolve(h)
	if e == nil || e.destroyed() {
		return nil
	}
	return e
}

// Character resolves h to a character.
func (w *World) Character(h Handle) *Character {
	c, _ := w.Resolve(h).(*Character)
	return c
}

// Count returns the number of live entities of a kind.
func (w *World) Count(kind Kind) int {
	n := 0
	w.each(kind, func(Entity) { n++ })
	return n
}

func (w *World) each(kind Kind, fn func(Entity)) {
	handles := append([]Handle(nil), w.order[kind]...)
	for _, h := range handles {
		if e := w.Resolve(h); e != nil {
			fn(e)
		}
	}
}

// Characters returns the live characters in iteration order.
func (w *World) Characters() []*Character {
	out := make([]*Character, 0, len(w.order[KindCharacter]))
	w.each(KindCharacter, func(e Entity) {
		out = append(out, e.(*Character))
	})
	return out
}

// FindEntities returns the entities of a kind whose body overlaps the circle.
func (w *World) FindEntities(center geom.Vec2, radius float32, kind Kind) []Entity {
	var out []Entity
	w.each(kind, func(e Entity) {
		if geom.Distance(e.Position(), center) < radius+e.ProximityRadius() {
			out = append(out, e)
		}
	})
	return out
}

// FindCharacters is FindEntities narrowed to characters.
func (w *World) FindCharacters(center geom.Vec2, radius float32) []*Character {
	found := w.FindEntities(center, radius, KindCharacter)
	out := make([]*Character, 0, len(found))
	for _, e := range found {
		out = append(out, e.(*Character))
	}
	return out
}

// IntersectCharacter returns the character closest to from whose body
// touches the segment, widened by radius. Characters for which skip returns
// true are ignored.
func (w *World) IntersectCharacter(from, to geom.Vec2, radius float32, skip func(*Character) bool) (*Character, geom.Vec2, bool) {
	closestLen := geom.Distance(from, to) * 100
	var closest *Character
	var at geom.Vec2
	for _, c := range w.Characters() {
		if skip != nil && skip(c) {
			continue
		}
		p := geom.ClosestPointOnLine(from, to, c.Position())
		if geom.Distance(c.Position(), p) < c.ProximityRadius()+radius {
			if l := geom.Distance(from, p); l < closestLen {
				closestLen = l
				closest = c
				at = p
			}
		}
	}
	return closest, at, closest != nil
}

// Tick runs one simulation pass: character ticks, then the deferred
// character pass, then every other kind.
func (w *World) Tick() {
	if w.Paused {
		for kind := Kind(0); kind < numKinds; kind++ {
			w.each(kind, Entity.TickPaused)
		}
	} else {
		w.each(KindCharacter, Entity.Tick)
		w.each(KindCharacter, Entity.TickDeferred)
		for kind := KindCharacter + 1; kind < numKinds; kind++ {
			w.each(kind, Entity.Tick)
		}
		for kind := KindCharacter + 1; kind < numKinds; kind++ {
			w.each(kind, Entity.TickDeferred)
		}
	}
	w.flushDestroyed()
}

func (w *World) flushDestroyed() {
	for _, h := range w.pending {
		w.Remove(h)
	}
	w.pending = w.pending[:0]
}

// Snap writes every live entity visible to the context's client.
func (w *World) Snap(ctx *SnapContext) {
	for kind := Kind(0); kind < numKinds; kind++ {
		w.each(kind, func(e Entity) { e.Snap(ctx) })
	}
}

// SnapContext carries the per-client snapshot destination.
type SnapContext struct {
	// Client is the viewing client id, or -1 for a full unfiltered view.
	Client int
	Legacy bool
	Writer *protocol.Writer
}
