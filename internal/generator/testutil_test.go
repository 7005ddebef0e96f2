package generator

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eventgen/internal/sink"
)

// fastSchedules scales the stock cadence down so tests finish quickly.
func fastSchedules(delay time.Duration) map[ProducerName]Schedule {
	return map[ProducerName]Schedule{
		Exception: {Delay: delay, Interval: 750 * time.Millisecond},
		Warn:      {Delay: delay, Interval: 250 * time.Millisecond},
		Info:      {Delay: delay, Interval: 50 * time.Millisecond},
		Debug:     {Delay: delay, Interval: 5 * time.Millisecond},
	}
}

func newTestGenerator(t *testing.T, s sink.Sink, schedules map[ProducerName]Schedule) (*Generator, *MemoryPublisher) {
	t.Helper()
	quiet := zerolog.New(io.Discard)
	pub := NewMemoryPublisher()
	g := New(Config{
		Sink:        s,
		Schedules:   schedules,
		GracePeriod: 10 * time.Millisecond,
		Fallback:    &quiet,
		Publisher:   pub,
	})
	t.Cleanup(g.Stop)
	return g, pub
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", d)
}

func within(got, lo, hi int64) bool { return got >= lo && got <= hi }
