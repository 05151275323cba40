package logging

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Clock stamps events published without a time.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Sink stores or prints gameplay events. Write runs on the sink's own
// goroutine; Close runs once, after the last Write.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

const (
	minOutletBacklog = 32
	maxOutletBacklog = 1024
	// maxSinkBackoff caps the pause after repeated Write failures.
	maxSinkBackoff = 32 * time.Second
)

// Router carries kill, damage, spree and freeze events from the tick goroutine
// to the configured sinks. Publish never blocks the tick. When the inbox is
// full the event is counted as dropped and a warning is printed at most once
// per DropWarnInterval.
type Router struct {
	cfg     Config
	inbox   chan Event
	outlets []*outlet
	clock   Clock
	warn    *log.Logger
	floor   Severity
	stamp   map[string]any
	session string

	stop   context.CancelFunc
	group  errgroup.Group
	closed atomic.Bool

	forwarded  atomic.Uint64
	dropped    atomic.Uint64
	quietUntil atomic.Int64
}

// RouterStats counts events since the router started. SinkDrops holds the
// events a slow sink lost after they left the inbox.
type RouterStats struct {
	EventsTotal  uint64            `json:"eventsTotal"`
	DroppedTotal uint64            `json:"droppedTotal"`
	SinkDrops    map[string]uint64 `json:"sinkDrops,omitempty"`
}

// NewRouter starts the dispatcher and one goroutine per sink. A nil clock
// means SystemClock. Every event is stamped with a per router session id as
// its trace id unless it carries one.
func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink) (*Router, error) {
	if clock == nil {
		clock = SystemClock
	}
	inboxSize := cfg.BufferSize
	if inboxSize <= 0 {
		inboxSize = 512
	}
	r := &Router{
		cfg:     cfg,
		inbox:   make(chan Event, inboxSize),
		clock:   clock,
		warn:    log.New(os.Stderr, "[logging] ", log.LstdFlags),
		floor:   cfg.MinimumSeverity,
		stamp:   cfg.CloneFields(),
		session: uuid.NewString(),
	}
	backlog := min(max(inboxSize, minOutletBacklog), maxOutletBacklog)
	for _, named := range namedSinks {
		if named.Sink != nil {
			r.outlets = append(r.outlets, newOutlet(named.Name, named.Sink, backlog, r.warn))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.stop = cancel
	for _, o := range r.outlets {
		o := o
		r.group.Go(func() error {
			o.run()
			return nil
		})
	}
	r.group.Go(func() error {
		r.dispatch(ctx)
		return nil
	})
	return r, nil
}

// dispatch feeds outlets until ctx ends, then flushes the inbox and closes
// the outlet queues so their goroutines finish.
func (r *Router) dispatch(ctx context.Context) {
	defer func() {
		for _, o := range r.outlets {
			close(o.queue)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-r.inbox:
					r.forward(event)
				default:
					return
				}
			}
		case event := <-r.inbox:
			r.forward(event)
		}
	}
}

func (r *Router) forward(event Event) {
	if event.Severity < r.floor {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	if event.TraceID == "" {
		event.TraceID = r.session
	}
	if len(r.stamp) > 0 {
		event = cloneForFields(event)
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(r.stamp))
		}
		for k, v := range r.stamp {
			if _, set := event.Extra[k]; !set {
				event.Extra[k] = v
			}
		}
	}
	r.forwarded.Add(1)
	for _, o := range r.outlets {
		o.offer(event)
	}
}

// Publish queues event for the sinks. Events without a type, and events
// published after Close, are ignored.
func (r *Router) Publish(_ context.Context, event Event) {
	if r == nil || event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.inbox <- event:
	default:
		r.noteDrop(event)
	}
}

func (r *Router) noteDrop(event Event) {
	r.dropped.Add(1)
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := r.clock.Now().UnixNano()
	until := r.quietUntil.Load()
	if now >= until && r.quietUntil.CompareAndSwap(until, now+interval.Nanoseconds()) {
		r.warn.Printf("inbox full, dropping %s at tick %d", event.Type, event.Tick)
	}
}

// Close flushes queued events and closes every sink. It returns ctx.Err() if
// the sinks do not drain in time, otherwise the first sink Close error.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.stop()
	done := make(chan struct{})
	go func() {
		_ = r.group.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var firstErr error
	for _, o := range r.outlets {
		if err := o.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:  r.forwarded.Load(),
		DroppedTotal: r.dropped.Load(),
	}
	for _, o := range r.outlets {
		if n := o.lost.Load(); n > 0 {
			if stats.SinkDrops == nil {
				stats.SinkDrops = make(map[string]uint64)
			}
			stats.SinkDrops[o.name] += n
		}
	}
	return stats
}

// SessionID is stamped as the trace id of events that carry none.
func (r *Router) SessionID() string {
	return r.session
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, o := range r.outlets {
		if o.name == name {
			return o.sink
		}
	}
	return nil
}

// outlet owns one sink: a bounded queue and the goroutine writing to it.
type outlet struct {
	name  string
	sink  Sink
	queue chan Event
	warn  *log.Logger
	lost  atomic.Uint64

	failures int
	resumeAt time.Time
}

func newOutlet(name string, sink Sink, backlog int, warn *log.Logger) *outlet {
	return &outlet{
		name:  name,
		sink:  sink,
		queue: make(chan Event, max(backlog, minOutletBacklog)),
		warn:  warn,
	}
}

func (o *outlet) offer(event Event) {
	select {
	case o.queue <- cloneForFields(event):
	default:
		if o.lost.Add(1)&63 == 1 {
			o.warn.Printf("sink %s is behind, dropped %s (%d lost)", o.name, event.Type, o.lost.Load())
		}
	}
}

func (o *outlet) run() {
	for event := range o.queue {
		if wait := time.Until(o.resumeAt); o.failures > 0 && wait > 0 {
			time.Sleep(wait)
		}
		if err := o.sink.Write(event); err != nil {
			o.failures++
			delay := min(time.Duration(1<<min(o.failures, 5))*time.Second, maxSinkBackoff)
			o.resumeAt = time.Now().Add(delay)
			o.warn.Printf("sink %s write failed: %v (retry in %s)", o.name, err, delay)
		} else {
			o.failures = 0
			o.resumeAt = time.Time{}
		}
	}
}
