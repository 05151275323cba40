package sim

import (
	"testing"

	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/logging"
)

func actors(cmds []Command) []int {
	ids := make([]int, len(cmds))
	for i, cmd := range cmds {
		ids[i] = cmd.ActorID
	}
	return ids
}

func TestIntentsKeepArrivalOrderAcrossTicks(t *testing.T) {
	q := NewIntents(3, nil)

	// three ticks that each leave the ring start at a different slot
	ticks := [][]int{{1, 2}, {3, 4, 5}, {6}}
	for n, ids := range ticks {
		for _, id := range ids {
			if !q.Offer(Command{ActorID: id, Type: CommandInput}) {
				t.Fatalf("tick %d: offer from %d rejected", n, id)
			}
		}
		got := actors(q.TakeAll())
		if len(got) != len(ids) {
			t.Fatalf("tick %d: expected %v, got %v", n, ids, got)
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("tick %d: expected %v, got %v", n, ids, got)
			}
		}
		if q.Waiting() != 0 {
			t.Fatalf("tick %d: expected an empty ring after TakeAll, %d waiting", n, q.Waiting())
		}
	}
	if q.TakeAll() != nil {
		t.Fatalf("expected nil from an idle tick")
	}
}

func TestIntentsRejectWhenFull(t *testing.T) {
	metrics := &logging.Metrics{}
	q := NewIntents(2, telemetry.WrapMetrics(metrics))

	for id := 1; id <= 3; id++ {
		accepted := q.Offer(Command{ActorID: id})
		if accepted != (id <= 2) {
			t.Fatalf("offer %d: accepted=%v", id, accepted)
		}
	}

	snapshot := metrics.Snapshot()
	if snapshot[telemetry.MetricIntentsWaiting] != 2 {
		t.Fatalf("expected 2 waiting, got %d", snapshot[telemetry.MetricIntentsWaiting])
	}
	if snapshot[telemetry.MetricIntentsOverflow] != 1 {
		t.Fatalf("expected one overflow, got %d", snapshot[telemetry.MetricIntentsOverflow])
	}
	if got := actors(q.TakeAll()); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected the first two offers to survive, got %v", got)
	}
	if got := metrics.Snapshot()[telemetry.MetricIntentsWaiting]; got != 0 {
		t.Fatalf("expected waiting reset after TakeAll, got %d", got)
	}
}

func TestNilIntents(t *testing.T) {
	var q *Intents
	if q.Offer(Command{}) {
		t.Fatalf("expected nil intents to reject offers")
	}
	if q.Waiting() != 0 || q.Size() != 0 || q.TakeAll() != nil {
		t.Fatalf("expected nil intents to report empty")
	}
	if NewIntents(0, nil).Size() != 1 {
		t.Fatalf("expected a minimum size of one")
	}
}
