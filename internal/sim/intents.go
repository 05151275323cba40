package sim

import (
	"sync"

	"github.com/35niavlys/speedfng/internal/telemetry"
)

// Intents holds the commands players sent since the last tick, oldest first.
// Connection goroutines Offer; the loop goroutine takes everything once per
// tick. The ring never grows, so a flood from the network shows up as
// rejected offers rather than tick latency.
type Intents struct {
	mu      sync.Mutex
	ring    []Command
	first   int
	waiting int
	metrics telemetry.Metrics
}

// NewIntents allocates room for size commands. size is at least one.
func NewIntents(size int, metrics telemetry.Metrics) *Intents {
	return &Intents{
		ring:    make([]Command, max(size, 1)),
		metrics: metrics,
	}
}

func (q *Intents) Size() int {
	if q == nil {
		return 0
	}
	return len(q.ring)
}

// Offer appends cmd for the next tick. It reports false when the ring is full.
func (q *Intents) Offer(cmd Command) bool {
	if q == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.waiting == len(q.ring) {
		q.count(telemetry.MetricIntentsOverflow)
		return false
	}
	q.ring[(q.first+q.waiting)%len(q.ring)] = cmd
	q.waiting++
	q.report()
	return true
}

// TakeAll empties the ring and returns its commands in arrival order, or nil
// when nothing arrived.
func (q *Intents) TakeAll() []Command {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.waiting == 0 {
		return nil
	}
	out := make([]Command, 0, q.waiting)
	for q.waiting > 0 {
		out = append(out, q.ring[q.first])
		// drop the reference so payloads can be collected
		q.ring[q.first] = Command{}
		q.first = (q.first + 1) % len(q.ring)
		q.waiting--
	}
	q.report()
	return out
}

// Waiting reports how many commands the next tick will apply.
func (q *Intents) Waiting() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiting
}

func (q *Intents) count(key string) {
	if q.metrics != nil {
		q.metrics.Add(key, 1)
	}
}

func (q *Intents) report() {
	if q.metrics != nil {
		q.metrics.Store(telemetry.MetricIntentsWaiting, uint64(q.waiting))
	}
}
