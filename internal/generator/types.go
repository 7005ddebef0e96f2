package generator

import "time"

// ProducerName identifies one of the four periodic producers.
type ProducerName string

const (
	Exception ProducerName = "exception"
	Warn      ProducerName = "warn"
	Info      ProducerName = "info"
	Debug     ProducerName = "debug"
)

// ProducerNames lists the producers in display order.
var ProducerNames = []ProducerName{Exception, Warn, Info, Debug}

// Valid reports whether n names a known producer.
func (n ProducerName) Valid() bool {
	switch n {
	case Exception, Warn, Info, Debug:
		return true
	}
	return false
}

// Schedule is a producer's initial delay and repeat interval.
type Schedule struct {
	Delay    time.Duration
	Interval time.Duration
}

// State is the generator lifecycle state.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
)

// Snapshot is a point-in-time copy of all four counters.
type Snapshot struct {
	Exception int64
	Warn      int64
	Info      int64
	Debug     int64
}

// Get returns the counter for name, or 0 for an unknown producer.
func (s Snapshot) Get(name ProducerName) int64 {
	switch name {
	case Exception:
		return s.Exception
	case Warn:
		return s.Warn
	case Info:
		return s.Info
	case Debug:
		return s.Debug
	}
	return 0
}

// Counters is the read-only view of producer counters. Safe for use from any
// goroutine.
type Counters interface {
	Exceptions() int64
	Warns() int64
	Infos() int64
	Debugs() int64
	Snapshot() Snapshot
}
