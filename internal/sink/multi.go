package sink

import "errors"

// Multi fans every record out to all of its sinks. A failing sink does not
// stop delivery to the others; their errors are joined.
type Multi []Sink

// NewMulti drops nil entries and returns the fan-out sink.
func NewMulti(sinks ...Sink) Multi {
	out := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m Multi) each(fn func(Sink) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Error(msg string, err error) error {
	return m.each(func(s Sink) error { return s.Error(msg, err) })
}

func (m Multi) Warn(msg string) error { return m.each(func(s Sink) error { return s.Warn(msg) }) }

func (m Multi) Info(msg string) error { return m.each(func(s Sink) error { return s.Info(msg) }) }

func (m Multi) Debug(msg string) error { return m.each(func(s Sink) error { return s.Debug(msg) }) }

func (m Multi) Flush() error { return m.each(Sink.Flush) }
