package sink

import "errors"

// Level is the severity of a sink record.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Sink receives log records. Implementations must be safe for concurrent use
// by several producers. Flush pushes buffered records to their destination.
type Sink interface {
	Error(msg string, err error) error
	Warn(msg string) error
	Info(msg string) error
	Debug(msg string) error
	Flush() error
}

// writeError reports a record that could not be written by a named sink.
type writeError struct {
	sink  string
	level Level
	err   error
}

func (e writeError) Error() string {
	return e.sink + ": write " + string(e.level) + " record: " + e.err.Error()
}

func (e writeError) Unwrap() error { return e.err }

// IsWriteError reports whether err came from a failed sink write.
func IsWriteError(err error) bool {
	var we writeError
	return errors.As(err, &we)
}
