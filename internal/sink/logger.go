package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"eventgen/internal/common/fsutil"
)

// Log output formats understood by NewLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// LoggerOptions configures a Logger sink.
type LoggerOptions struct {
	Out        io.Writer // defaults to os.Stdout
	Format     string    // console (default) or json
	Level      zerolog.Level
	BufferSize int // bytes buffered before an implicit drain
	// FlushInterval drains the buffer periodically so records reach Out
	// without waiting for Flush. Zero means DefaultFlushInterval; negative
	// disables the periodic drain.
	FlushInterval time.Duration
}

// DefaultFlushInterval is the periodic drain cadence of a Logger.
const DefaultFlushInterval = time.Second

// Logger is a Sink that writes structured records with zerolog. Records are
// buffered and reach Out every FlushInterval, when the buffer fills, or on
// Flush.
type Logger struct {
	mu   sync.Mutex
	zl   zerolog.Logger
	w    *flushWriter
	file *os.File // set when the Logger owns its output file

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLogger builds a Logger sink from opts.
func NewLogger(opts LoggerOptions) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	l := &Logger{w: newFlushWriter(out, opts.BufferSize)}
	var dst io.Writer = l.w
	if !strings.EqualFold(opts.Format, FormatJSON) {
		dst = zerolog.ConsoleWriter{Out: l.w, NoColor: true, TimeFormat: time.RFC3339}
	}
	l.zl = zerolog.New(dst).Level(opts.Level).With().Timestamp().Logger()

	interval := opts.FlushInterval
	if interval == 0 {
		interval = DefaultFlushInterval
	}
	if interval > 0 {
		l.stop, l.done = make(chan struct{}), make(chan struct{})
		go l.drainEvery(interval)
	}
	return l
}

// drainEvery pushes buffered records to Out until Close. A failed drain
// drops the buffered bytes, the same as a failed implicit drain in Write.
func (l *Logger) drainEvery(interval time.Duration) {
	defer close(l.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.mu.Lock()
			_ = l.w.drain()
			l.mu.Unlock()
		}
	}
}

// OpenLogger creates (or appends to) the log file at path and returns a Logger
// that owns it. Close releases the file.
func OpenLogger(path string, opts LoggerOptions) (*Logger, error) {
	f, err := fsutil.OpenAppend(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	opts.Out = f
	l := NewLogger(opts)
	l.file = f
	return l, nil
}

// ParseLevel maps debug|info|warn|error to a zerolog level, defaulting to debug
// so every producer is visible.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return zerolog.ErrorLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func (l *Logger) write(level Level, ev func() *zerolog.Event, msg string, err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.err = nil
	e := ev()
	if err != nil {
		e = e.Err(err)
	}
	e.Msg(msg)
	if l.w.err != nil {
		return writeError{sink: "logger", level: level, err: l.w.err}
	}
	return nil
}

func (l *Logger) Error(msg string, err error) error {
	return l.write(LevelError, l.zl.Error, msg, err)
}

func (l *Logger) Warn(msg string) error { return l.write(LevelWarn, l.zl.Warn, msg, nil) }

func (l *Logger) Info(msg string) error { return l.write(LevelInfo, l.zl.Info, msg, nil) }

func (l *Logger) Debug(msg string) error { return l.write(LevelDebug, l.zl.Debug, msg, nil) }

// Flush drains buffered records and syncs the owned file, if any.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("logger: flush: %w", err)
	}
	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("logger: sync: %w", err)
		}
	}
	return nil
}

// Close stops the periodic drain, flushes and closes the owned file.
// Caller-provided writers are flushed but left open.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() {
		if l.stop != nil {
			close(l.stop)
			<-l.done
		}
	})
	err := l.Flush()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		if cerr := l.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		l.file = nil
	}
	return err
}
