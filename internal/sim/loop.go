package sim

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/logging"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the intents ring is saturated.
	CommandRejectQueueFull = "queue_full"
)

const tracerName = "github.com/35niavlys/speedfng/internal/sim"

// LoopConfig tunes the intents ring and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
	WarningStep     int
}

// Deps carries shared infrastructure the loop reports through.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	Clock   logging.Clock
	Tracer  trace.Tracer
}

// LoopTickContext describes the tick about to run.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// LoopStepResult describes a finished tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Commands     []Command
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     float64
}

// LoopHooks let the owner observe the loop. Hooks run on the loop goroutine.
type LoopHooks struct {
	NextTick       func() uint64
	Prepare        func(LoopTickContext)
	AfterStep      func(LoopStepResult)
	OnQueueWarning func(length int)
	OnCommandDrop  func(reason string, cmd Command)
}

// Loop coordinates command ingestion and the fixed-timestep simulation runner.
type Loop struct {
	engine  Engine
	intents *Intents
	hooks   LoopHooks
	config  LoopConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics
	clock   logging.Clock
	tracer  trace.Tracer
	tick    uint64

	queueMu       sync.Mutex
	perActorCount map[int]int
	dropCounts    map[int]uint64
}

// NewLoop wraps engine with an intents ring and the tick loop.
func NewLoop(engine Engine, deps Deps, cfg LoopConfig, hooks LoopHooks) *Loop {
	if engine == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 50
	}
	if deps.Logger == nil {
		deps.Logger = telemetry.NopLogger()
	}
	if deps.Clock == nil {
		deps.Clock = logging.SystemClock
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer(tracerName)
	}
	return &Loop{
		engine:        engine,
		intents:       NewIntents(cfg.CommandCapacity, deps.Metrics),
		hooks:         hooks,
		config:        cfg,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		clock:         deps.Clock,
		tracer:        deps.Tracer,
		perActorCount: make(map[int]int),
		dropCounts:    make(map[int]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.intents.Waiting()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.Throttled() {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" {
		if !l.intents.Offer(cmd) {
			reason = CommandRejectQueueFull
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else if l.config.WarningStep > 0 {
			length := l.intents.Waiting()
			if length >= l.config.WarningStep && length%l.config.WarningStep == 0 {
				l.queueMu.Unlock()
				l.warnQueue(length)
				return true, ""
			}
		}
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(ctx context.Context, tc LoopTickContext) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	_, span := l.tracer.Start(ctx, "sim.tick", trace.WithAttributes(attribute.Int64("sim.tick", int64(tc.Tick))))
	defer span.End()

	commands := l.drainCommands()
	span.SetAttributes(attribute.Int("sim.commands", len(commands)))
	if l.hooks.Prepare != nil {
		l.hooks.Prepare(tc)
	}
	if err := l.engine.Apply(commands); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commands rejected")
		l.logger.Printf("[sim] tick=%d rejected commands: %v", tc.Tick, err)
	}
	l.engine.Step()
	return LoopStepResult{
		Tick:     tc.Tick,
		Now:      tc.Now,
		Delta:    tc.Delta,
		Commands: commands,
	}
}

// Run drives the fixed-timestep loop until ctx is done. A late wakeup runs the
// missed ticks back to back, at most CatchupMaxTicks per wakeup; the rest of
// the backlog is dropped.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return nil
	}
	tickRate := l.config.TickRate
	budgetDuration := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budgetDuration)
	defer ticker.Stop()

	budgetSeconds := 1.0 / float64(tickRate)
	limit := max(1, l.config.CatchupMaxTicks)
	maxDt := budgetSeconds * float64(limit)
	pace := catchup{last: l.clock.Now()}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := l.clock.Now()
			due, dropped := pace.due(now, budgetDuration, limit)
			if dropped > 0 {
				l.logger.Printf("[sim] tick=%d behind schedule, dropped %s of backlog", l.tick, dropped)
			}
			for i := 0; i < due && ctx.Err() == nil; i++ {
				l.runTick(ctx, now, budgetSeconds, dropped > 0, maxDt, budgetDuration)
			}
		}
	}
}

// catchup accumulates wall time the loop has not simulated yet.
type catchup struct {
	last    time.Time
	backlog time.Duration
}

// due returns how many ticks are owed at now, capped at limit, and how much
// backlog was discarded by the cap.
func (c *catchup) due(now time.Time, budget time.Duration, limit int) (int, time.Duration) {
	if elapsed := now.Sub(c.last); elapsed > 0 {
		c.backlog += elapsed
	}
	c.last = now

	ticks := int(c.backlog / budget)
	if ticks <= limit {
		c.backlog -= time.Duration(ticks) * budget
		return ticks, 0
	}
	dropped := c.backlog - time.Duration(limit)*budget - c.backlog%budget
	c.backlog %= budget
	return limit, dropped
}

func (l *Loop) runTick(ctx context.Context, now time.Time, dt float64, clamped bool, maxDt float64, budget time.Duration) LoopStepResult {
	if l.hooks.NextTick != nil {
		l.tick = l.hooks.NextTick()
	} else {
		l.tick++
	}

	start := l.clock.Now()
	result := l.Advance(ctx, LoopTickContext{Tick: l.tick, Now: now, Delta: dt})
	result.Duration = l.clock.Now().Sub(start)
	result.Budget = budget
	result.ClampedDelta = clamped
	result.MaxDelta = maxDt

	if result.Duration > budget && l.metrics != nil {
		l.metrics.Add(telemetry.MetricTickOverruns, 1)
	}
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
	return result
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.intents.TakeAll()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[int]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID int) uint64 {
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) warnQueue(length int) {
	if l.hooks.OnQueueWarning != nil {
		l.hooks.OnQueueWarning(length)
	}
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.metrics != nil {
		l.metrics.Add(telemetry.MetricCommandsDropped, 1)
	}
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 {
		l.logger.Printf(
			"[backpressure] dropping command actor=%d type=%s reason=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			reason,
			count,
			l.config.PerActorLimit,
		)
	}
}
