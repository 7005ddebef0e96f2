package sink

import "sync"

// Record is one entry captured by a Memory sink.
type Record struct {
	Level   Level
	Message string
	Err     error
}

// Memory stores records in-memory for tests. SetFailure makes subsequent
// writes fail without recording.
type Memory struct {
	mu      sync.Mutex
	records []Record
	flushes int
	fail    error
}

func NewMemory() *Memory { return &Memory{} }

// SetFailure makes writes and flushes return err; nil restores normal behavior.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

func (m *Memory) add(level Level, msg string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return writeError{sink: "memory", level: level, err: m.fail}
	}
	m.records = append(m.records, Record{Level: level, Message: msg, Err: err})
	return nil
}

func (m *Memory) Error(msg string, err error) error { return m.add(LevelError, msg, err) }

func (m *Memory) Warn(msg string) error { return m.add(LevelWarn, msg, nil) }

func (m *Memory) Info(msg string) error { return m.add(LevelInfo, msg, nil) }

func (m *Memory) Debug(msg string) error { return m.add(LevelDebug, msg, nil) }

func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.flushes++
	return nil
}

// Records returns a copy of everything written so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Count returns how many records of the given level were written.
func (m *Memory) Count(level Level) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// Flushes returns the number of successful Flush calls.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}
