package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName          = "eventgen/sink"
	defaultFlushTimeout = 5 * time.Second
)

// TracerProvider is the subset of the OpenTelemetry SDK provider the
// Telemetry sink needs. *sdktrace.TracerProvider satisfies it.
type TracerProvider interface {
	trace.TracerProvider
	ForceFlush(ctx context.Context) error
}

// Telemetry is a Sink that forwards records to an OpenTelemetry pipeline. Each
// record becomes one span; error records carry the error as a span event with
// a unique exception id.
type Telemetry struct {
	tp           TracerProvider
	tracer       trace.Tracer
	flushTimeout time.Duration
}

// NewTelemetry returns a Telemetry sink bound to tp.
func NewTelemetry(tp TracerProvider) *Telemetry {
	return &Telemetry{tp: tp, tracer: tp.Tracer(tracerName), flushTimeout: defaultFlushTimeout}
}

func (t *Telemetry) record(level Level, msg string, err error) error {
	_, span := t.tracer.Start(context.Background(), "log."+string(level),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("log.severity", string(level)),
			attribute.String("log.message", msg),
		),
	)
	if err != nil {
		span.RecordError(err, trace.WithAttributes(attribute.String("exception.id", uuid.NewString())))
		span.SetStatus(codes.Error, msg)
	}
	span.End()
	return nil
}

func (t *Telemetry) Error(msg string, err error) error { return t.record(LevelError, msg, err) }

func (t *Telemetry) Warn(msg string) error { return t.record(LevelWarn, msg, nil) }

func (t *Telemetry) Info(msg string) error { return t.record(LevelInfo, msg, nil) }

func (t *Telemetry) Debug(msg string) error { return t.record(LevelDebug, msg, nil) }

// Flush exports pending spans, bounded by the flush timeout.
func (t *Telemetry) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), t.flushTimeout)
	defer cancel()
	if err := t.tp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("telemetry: flush: %w", err)
	}
	return nil
}
