package generator

import "errors"

// syntheticException is the error the exception producer raises on purpose.
type syntheticException struct{ msg string }

func (e syntheticException) Error() string { return e.msg }

func newSyntheticException() error { return syntheticException{msg: exceptionText} }

// IsSyntheticException reports whether err is (or wraps) the demo exception.
func IsSyntheticException(err error) bool {
	var se syntheticException
	return errors.As(err, &se)
}

// loggedError marks an error that has already been written to the sink.
// Code that receives it while propagating must not log it again.
type loggedError struct{ err error }

func (e loggedError) Error() string { return e.err.Error() }

func (e loggedError) Unwrap() error { return e.err }

func markLogged(err error) error {
	if err == nil || IsLogged(err) {
		return err
	}
	return loggedError{err: err}
}

// IsLogged reports whether err has already been logged at its origin.
func IsLogged(err error) bool {
	var le loggedError
	return errors.As(err, &le)
}

// sinkFailureError reports a producer tick whose record did not reach the sink.
type sinkFailureError struct {
	producer ProducerName
	err      error
}

func (e sinkFailureError) Error() string {
	return "sink failure in " + string(e.producer) + " producer: " + e.err.Error()
}

func (e sinkFailureError) Unwrap() error { return e.err }

// IsSinkFailure reports whether err indicates a failed sink write.
func IsSinkFailure(err error) bool {
	var sf sinkFailureError
	return errors.As(err, &sf)
}
