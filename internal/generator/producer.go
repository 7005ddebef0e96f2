package generator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// TimestampLayout renders record timestamps independent of locale
// (month/day/year, 24h clock).
const TimestampLayout = "01/02/2006 15:04:05"

const (
	exceptionText    = "Test exception."
	exceptionMessage = "Exception caught."
)

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string { return t.Format(TimestampLayout) }

type producer struct {
	name     ProducerName
	schedule Schedule
	count    atomic.Int64
}

// run waits the initial delay, then ticks every interval until ctx is done.
// time.Ticker drops ticks a slow receiver misses, so ticks of one producer
// never overlap.
func (g *Generator) run(ctx context.Context, p *producer) {
	defer g.wg.Done()

	delay := time.NewTimer(p.schedule.Delay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}
	if ctx.Err() != nil {
		return
	}
	g.tick(p)

	ticker := time.NewTicker(p.schedule.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// select picks randomly when both are ready
			if ctx.Err() != nil {
				return
			}
			g.tick(p)
		}
	}
}

// tick runs one producer body. Errors already logged at their origin are
// dropped silently; sink failures go to the fallback logger and never stop
// the producer.
func (g *Generator) tick(p *producer) {
	p.count.Add(1)
	err := g.safeEmit(p)
	if err == nil || IsLogged(err) {
		return
	}
	g.fallback.Warn().Err(err).Str("producer", string(p.name)).Msg("sink write failed")
	g.publisher.Publish(Event{Name: EventTickFailed, Producer: p.name, Fields: map[string]any{"error": err.Error()}})
}

// safeEmit converts a panicking sink into a sink failure.
func (g *Generator) safeEmit(p *producer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = sinkFailureError{producer: p.name, err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return g.emit(p)
}

func (g *Generator) emit(p *producer) error {
	var err error
	switch p.name {
	case Exception:
		return g.raiseException()
	case Warn:
		err = g.sink.Warn("Warn event at " + FormatTimestamp(g.now()))
	case Info:
		err = g.sink.Info("Info event at " + FormatTimestamp(g.now()))
	case Debug:
		err = g.sink.Debug("Debug logged event at " + FormatTimestamp(g.now()))
	}
	if err != nil {
		return sinkFailureError{producer: p.name, err: err}
	}
	return nil
}

// raiseException produces the demo error, logs it where it is first seen and
// hands the logged error back up, where the caller discards it.
func (g *Generator) raiseException() error {
	err := newSyntheticException()
	if werr := g.sink.Error(exceptionMessage, err); werr != nil {
		return sinkFailureError{producer: Exception, err: werr}
	}
	return markLogged(err)
}
