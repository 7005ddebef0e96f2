package generator

import (
	"context"
	"fmt"
	"time"
)

// Shutdown stops all producers, flushes the sink and then waits the grace
// period (or until ctx is done) so asynchronous delivery can finish. It runs
// once; later calls return the first result without waiting again. After
// Shutdown the generator cannot be restarted.
func (g *Generator) Shutdown(ctx context.Context) error {
	g.shutdownOnce.Do(func() {
		g.mu.Lock()
		g.stopLocked()
		g.closed = true
		g.mu.Unlock()

		start := time.Now()
		if err := g.safeFlush(); err != nil {
			g.fallback.Error().Err(err).Msg("sink flush failed")
			g.shutdownErr = fmt.Errorf("flush sink: %w", err)
		}

		t := time.NewTimer(g.grace)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
		g.fallback.Debug().Dur("dur", time.Since(start)).Msg("generator shut down")
		g.publisher.Publish(Event{Name: EventShutdown})
	})
	return g.shutdownErr
}

func (g *Generator) safeFlush() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return g.sink.Flush()
}

// GracePeriod returns the wait applied by Shutdown after flushing.
func (g *Generator) GracePeriod() time.Duration { return g.grace }
