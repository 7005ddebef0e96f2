package generator

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"eventgen/internal/sink"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultGracePeriod = time.Second
	defaultDelay       = time.Second
)

// DefaultSchedules returns the stock cadence of each producer.
func DefaultSchedules() map[ProducerName]Schedule {
	return map[ProducerName]Schedule{
		Exception: {Delay: defaultDelay, Interval: 15 * time.Second},
		Warn:      {Delay: defaultDelay, Interval: 5 * time.Second},
		Info:      {Delay: defaultDelay, Interval: time.Second},
		Debug:     {Delay: defaultDelay, Interval: 100 * time.Millisecond},
	}
}

// Config encapsulates the tunables for Generator construction.
type Config struct {
	Sink sink.Sink
	// Schedules overrides per-producer cadence; missing or non-positive
	// entries fall back to DefaultSchedules.
	Schedules   map[ProducerName]Schedule
	GracePeriod time.Duration
	// Fallback receives sink failures that the generator swallows.
	// Defaults to a stderr logger.
	Fallback  *zerolog.Logger
	Publisher EventPublisher
	// Now is the clock used for record timestamps.
	Now func() time.Time
}

func (c Config) schedule(name ProducerName) Schedule {
	def := DefaultSchedules()[name]
	s, ok := c.Schedules[name]
	if !ok {
		return def
	}
	if s.Delay < 0 {
		s.Delay = def.Delay
	}
	if s.Interval <= 0 {
		s.Interval = def.Interval
	}
	return s
}

func defaultFallback() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", "generator").Logger()
}
