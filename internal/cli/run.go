package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"eventgen/internal/config"
	"eventgen/internal/generator"
	"eventgen/internal/httpapi"
	"eventgen/internal/metrics"
	"eventgen/internal/sink"
	"eventgen/internal/telemetry"
)

const serverShutdownTimeout = 5 * time.Second

// Function variables to allow stubbing in tests.
var (
	fnRun                                   = run
	metricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
)

// run wires sinks, the generator and the status API, blocks until ctx is
// done, then shuts everything down in order: generator (stop, flush, grace),
// HTTP server, telemetry provider, log file.
func run(ctx context.Context, cfg config.Config, status io.Writer) error {
	appLog := zerolog.New(os.Stderr).With().Timestamp().Str("component", "eventgen").Logger()

	logSink, err := openLogSink(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := logSink.Close(); err != nil {
			appLog.Warn().Err(err).Msg("close log sink")
		}
	}()

	sinks := []sink.Sink{logSink}
	tp, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if tp != nil {
		sinks = append(sinks, sink.NewTelemetry(tp))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(sctx); err != nil {
				appLog.Warn().Err(err).Msg("telemetry shutdown")
			}
		}()
		appLog.Info().Str("endpoint", cfg.OTelEndpoint).Msg("telemetry sink enabled")
	}

	fallback := appLog.With().Str("component", "generator").Logger()
	gen := generator.New(generator.Config{
		Sink:        sink.NewMulti(sinks...),
		Schedules:   cfg.Schedules(),
		GracePeriod: cfg.GracePeriod.Std(),
		Fallback:    &fallback,
		Publisher:   metrics.Publisher{},
	})
	if err := metrics.RegisterCounters(metricsRegisterer, gen); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return fmt.Errorf("register metrics: %w", err)
		}
		appLog.Warn().Err(err).Msg("counters collector already registered")
	}

	var srv *http.Server
	if !cfg.DisableHTTP {
		httpapi.SetLogger(appLog.With().Str("component", "http").Logger())
		httpapi.SetAccessLogLevel(cfg.AccessLogLevel)
		httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
		srv = &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(gen), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			appLog.Info().Str("addr", cfg.Addr).Msg("status api listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLog.Error().Err(err).Msg("server error")
			}
		}()
	}

	gen.Start()
	appLog.Info().Msg("generator running; interrupt to stop")

	statusDone := make(chan struct{})
	go func() {
		defer close(statusDone)
		reportStatus(ctx, gen, status, cfg.StatusInterval.Std())
	}()

	<-ctx.Done()
	<-statusDone
	appLog.Info().Msg("shutting down")

	if err := gen.Shutdown(context.Background()); err != nil {
		appLog.Warn().Err(err).Msg("generator shutdown")
	}
	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			appLog.Warn().Err(err).Msg("graceful shutdown error")
		}
	}
	fmt.Fprintln(status, formatStatus(gen.Snapshot()))
	return nil
}

func openLogSink(cfg config.Config) (*sink.Logger, error) {
	opts := sink.LoggerOptions{Format: cfg.LogFormat, Level: sink.ParseLevel(cfg.LogLevel)}
	if cfg.LogFile == "" {
		return sink.NewLogger(opts), nil
	}
	return sink.OpenLogger(cfg.LogFile, opts)
}

// reportStatus prints a counters line every interval until ctx is done.
// A non-positive interval disables it.
func reportStatus(ctx context.Context, c generator.Counters, w io.Writer, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fmt.Fprintln(w, formatStatus(c.Snapshot()))
		}
	}
}

func formatStatus(s generator.Snapshot) string {
	return fmt.Sprintf("exceptions=%d warn=%d info=%d debug=%d", s.Exception, s.Warn, s.Info, s.Debug)
}
