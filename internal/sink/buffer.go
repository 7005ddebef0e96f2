package sink

import (
	"bytes"
	"io"
)

const defaultBufferSize = 32 << 10

// flushWriter buffers encoded records and drains them to out when the buffer
// fills or on flush. A failed drain drops the buffered bytes; the next write
// starts clean, so a transient failure does not poison the writer.
// Not safe for concurrent use; Logger serializes access.
type flushWriter struct {
	out   io.Writer
	buf   bytes.Buffer
	limit int
	// last error seen by Write; reset by the caller before each record
	err error
}

func newFlushWriter(out io.Writer, limit int) *flushWriter {
	if limit <= 0 {
		limit = defaultBufferSize
	}
	return &flushWriter{out: out, limit: limit}
}

func (w *flushWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	if w.buf.Len() >= w.limit {
		if err := w.drain(); err != nil {
			w.err = err
			return len(p), err
		}
	}
	return len(p), nil
}

func (w *flushWriter) drain() error {
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.out.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *flushWriter) Flush() error { return w.drain() }
