package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eventgen/internal/generator"
	"eventgen/internal/httpapi"
	"eventgen/internal/metrics"
	"eventgen/internal/sink"
)

// quickSchedules runs every producer immediately at a short cadence.
func quickSchedules() map[generator.ProducerName]generator.Schedule {
	return map[generator.ProducerName]generator.Schedule{
		generator.Exception: {Delay: 0, Interval: 200 * time.Millisecond},
		generator.Warn:      {Delay: 0, Interval: 50 * time.Millisecond},
		generator.Info:      {Delay: 0, Interval: 20 * time.Millisecond},
		generator.Debug:     {Delay: 0, Interval: 5 * time.Millisecond},
	}
}

func newServer(t *testing.T) (*httptest.Server, *generator.Generator, *sink.Memory) {
	t.Helper()
	mem := sink.NewMemory()
	quiet := zerolog.New(io.Discard)
	gen := generator.New(generator.Config{
		Sink:        mem,
		Schedules:   quickSchedules(),
		GracePeriod: time.Millisecond,
		Fallback:    &quiet,
		Publisher:   metrics.Publisher{},
	})
	httpapi.SetLogger(zerolog.New(io.Discard))
	srv := httptest.NewServer(httpapi.NewMux(gen))
	t.Cleanup(func() {
		srv.Close()
		_ = gen.Shutdown(context.Background())
	})
	return srv, gen, mem
}

func httpDo(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", d)
}
