package world

import (
	"testing"

	"github.com/35niavlys/speedfng/internal/geom"
)

// probe is a minimal pickup-kind entity that records its ticks.
type probe struct {
	base
	ticks    int
	deferred int
	paused   int
	onTick   func()
}

func newProbe(pos geom.Vec2) *probe {
	return &probe{base: base{kind: KindPickup, pos: pos, radius: 4}}
}

func (p *probe) Tick() {
	p.ticks++
	if p.onTick != nil {
		p.onTick()
	}
}
func (p *probe) TickDeferred() { p.deferred++ }
func (p *probe) TickPaused() { p.paused++ }
func (p *probe) Snap(*SnapContext) {}

func TestStaleHandleNeverResolves(t *testing.T) {
	w := New()
	first := newProbe(geom.Vec2{})
	h := w.Insert(first)
	if w.Resolve(h) != first {
		t.Fatalf("expected fresh handle %v to resolve", h)
	}

	if !w.Remove(h) {
		t.Fatalf("expected remove to report presence")
	}
	if w.Remove(h) {
		t.Fatalf("expected second remove to report absence")
	}

	second := newProbe(geom.Vec2{})
	reused := w.Insert(second)
	if reused.Index() != h.Index() {
		t.Fatalf("expected slot %d to be reused, got %d", h.Index(), reused.Index())
	}
	if w.Resolve(h) != nil {
		t.Fatalf("stale handle %v resolved after slot reuse", h)
	}
	if w.Resolve(reused) != second {
		t.Fatalf("expected new handle %v to resolve to the new entity", reused)
	}
}

func TestRemoveDuringPassSkipsLaterEntity(t *testing.T) {
	w := New()
	a, b := newProbe(geom.Vec2{}), newProbe(geom.Vec2{})
	w.Insert(a)
	hb := w.Insert(b)
	a.onTick = func() { w.Remove(hb) }

	w.Tick()

	if a.ticks != 1 {
		t.Fatalf("expected first entity to tick once, got %d", a.ticks)
	}
	if b.ticks != 0 || b.deferred != 0 {
		t.Fatalf("removed entity was visited: ticks=%d deferred=%d", b.ticks, b.deferred)
	}
}

func TestInsertDuringPassWaitsForNextPass(t *testing.T) {
	w := New()
	a := newProbe(geom.Vec2{})
	w.Insert(a)
	late := newProbe(geom.Vec2{})
	a.onTick = func() {
		if !late.handle.Valid() {
			w.Insert(late)
		}
	}

	w.Tick()
	if late.ticks != 0 {
		t.Fatalf("entity inserted mid pass ticked in the same pass")
	}
	w.Tick()
	if late.ticks != 1 {
		t.Fatalf("expected late entity to tick on the next pass, got %d", late.ticks)
	}
}

func TestDestroyHidesImmediatelyAndFlushesAtEnd(t *testing.T) {
	w := New()
	p := newProbe(geom.V(10, 10))
	h := w.Insert(p)

	w.Destroy(h)
	w.Destroy(h)
	if w.Resolve(h) != nil {
		t.Fatalf("destroyed entity still resolves")
	}
	if n := w.Count(KindPickup); n != 0 {
		t.Fatalf("expected destroyed entity to be excluded from counts, got %d", n)
	}
	if got := w.FindEntities(geom.V(10, 10), 1, KindPickup); len(got) != 0 {
		t.Fatalf("destroyed entity returned by query: %v", got)
	}

	w.Tick()
	if p.ticks != 0 {
		t.Fatalf("destroyed entity ticked")
	}
	if len(w.pending) != 0 {
		t.Fatalf("expected pending removals to flush, got %d", len(w.pending))
	}
	if w.Remove(h) {
		t.Fatalf("expected flushed entity to be gone")
	}
}

func TestPausedWorldOnlyShiftsTimers(t *testing.T) {
	w := New()
	p := newProbe(geom.Vec2{})
	w.Insert(p)
	w.Paused = true

	w.Tick()
	w.Tick()

	if p.ticks != 0 || p.deferred != 0 {
		t.Fatalf("paused world ran simulation: ticks=%d deferred=%d", p.ticks, p.deferred)
	}
	if p.paused != 2 {
		t.Fatalf("expected two paused ticks, got %d", p.paused)
	}
}

func TestFindEntitiesUsesBodyRadius(t *testing.T) {
	w := New()
	near := newProbe(geom.V(0, 0))
	edge := newProbe(geom.V(13, 0))
	far := newProbe(geom.V(15, 0))
	w.Insert(near)
	w.Insert(edge)
	w.Insert(far)

	got := w.FindEntities(geom.V(0, 0), 10, KindPickup)
	if len(got) != 2 || got[0] != near || got[1] != edge {
		t.Fatalf("expected near and edge probes in insertion order, got %v", got)
	}
}
