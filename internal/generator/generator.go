package generator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"eventgen/internal/sink"
)

// Generator owns the four producers and their shared lifecycle.
type Generator struct {
	// mu serializes Start, Stop and Shutdown. Stop holds it until in-flight
	// ticks return so a restart can never overlap a producer's old loop.
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool

	running   atomic.Bool
	startedAt atomic.Int64 // unix nanos of the last Start; 0 when never started

	sink      sink.Sink
	fallback  zerolog.Logger
	publisher EventPublisher
	now       func() time.Time
	grace     time.Duration

	producers []*producer
	byName    map[ProducerName]*producer

	shutdownOnce sync.Once
	shutdownErr  error
}

// New constructs a stopped Generator from cfg.
func New(cfg Config) *Generator {
	g := &Generator{
		sink:      cfg.Sink,
		publisher: cfg.Publisher,
		now:       cfg.Now,
		grace:     cfg.GracePeriod,
		byName:    make(map[ProducerName]*producer, len(ProducerNames)),
	}
	if g.sink == nil {
		g.sink = sink.NewMulti()
	}
	if cfg.Fallback != nil {
		g.fallback = *cfg.Fallback
	} else {
		g.fallback = defaultFallback()
	}
	if g.publisher == nil {
		g.publisher = noopPublisher{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.grace <= 0 {
		g.grace = defaultGracePeriod
	}
	for _, name := range ProducerNames {
		p := &producer{name: name, schedule: cfg.schedule(name)}
		g.producers = append(g.producers, p)
		g.byName[name] = p
	}
	return g
}

// Start schedules all producers. It is a no-op while running or after Shutdown.
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.running.Load() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	for _, p := range g.producers {
		g.wg.Add(1)
		go g.run(ctx, p)
	}
	g.startedAt.Store(g.now().UnixNano())
	g.running.Store(true)
	g.fallback.Debug().Msg("generator started")
	g.publisher.Publish(Event{Name: EventStart})
}

// Stop cancels all pending and future ticks and waits for ticks already in
// progress to return. Calling Stop on a stopped generator is a no-op.
func (g *Generator) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

func (g *Generator) stopLocked() {
	if !g.running.Load() {
		return
	}
	g.cancel()
	g.wg.Wait()
	g.cancel = nil
	g.running.Store(false)
	g.fallback.Debug().Msg("generator stopped")
	g.publisher.Publish(Event{Name: EventStop})
}

// Running reports whether producers are scheduled.
func (g *Generator) Running() bool { return g.running.Load() }

// State returns the lifecycle state.
func (g *Generator) State() State {
	if g.running.Load() {
		return StateRunning
	}
	return StateStopped
}

// StartedAt returns the time of the most recent Start, or the zero time.
func (g *Generator) StartedAt() time.Time {
	ns := g.startedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Schedule returns the effective cadence of a producer.
func (g *Generator) Schedule(name ProducerName) (Schedule, bool) {
	p, ok := g.byName[name]
	if !ok {
		return Schedule{}, false
	}
	return p.schedule, true
}

// Exceptions returns the number of completed exception ticks.
func (g *Generator) Exceptions() int64 { return g.byName[Exception].count.Load() }

// Warns returns the number of completed warn ticks.
func (g *Generator) Warns() int64 { return g.byName[Warn].count.Load() }

// Infos returns the number of completed info ticks.
func (g *Generator) Infos() int64 { return g.byName[Info].count.Load() }

// Debugs returns the number of completed debug ticks.
func (g *Generator) Debugs() int64 { return g.byName[Debug].count.Load() }

// Snapshot returns all four counters.
func (g *Generator) Snapshot() Snapshot {
	return Snapshot{
		Exception: g.Exceptions(),
		Warn:      g.Warns(),
		Info:      g.Infos(),
		Debug:     g.Debugs(),
	}
}

var _ Counters = (*Generator)(nil)
