package generator

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"eventgen/internal/sink"
)

func TestNew_DefaultSchedules(t *testing.T) {
	g := New(Config{})
	want := map[ProducerName]Schedule{
		Exception: {Delay: time.Second, Interval: 15 * time.Second},
		Warn:      {Delay: time.Second, Interval: 5 * time.Second},
		Info:      {Delay: time.Second, Interval: time.Second},
		Debug:     {Delay: time.Second, Interval: 100 * time.Millisecond},
	}
	for name, w := range want {
		got, ok := g.Schedule(name)
		if !ok || got != w {
			t.Fatalf("%s schedule=%+v, want %+v", name, got, w)
		}
	}
	if g.GracePeriod() != time.Second {
		t.Fatalf("grace=%s, want 1s", g.GracePeriod())
	}
	if g.State() != StateStopped || !g.StartedAt().IsZero() {
		t.Fatalf("new generator should be stopped and never started")
	}
}

func TestNew_PartialScheduleOverride(t *testing.T) {
	g := New(Config{Schedules: map[ProducerName]Schedule{
		Info:  {Delay: 0, Interval: 2 * time.Second},
		Debug: {Delay: -1, Interval: 0},
	}})
	if s, _ := g.Schedule(Info); s.Delay != 0 || s.Interval != 2*time.Second {
		t.Fatalf("info override not applied: %+v", s)
	}
	if s, _ := g.Schedule(Debug); s.Delay != time.Second || s.Interval != 100*time.Millisecond {
		t.Fatalf("invalid debug override should fall back to defaults: %+v", s)
	}
	if _, ok := g.Schedule("trace"); ok {
		t.Fatalf("unknown producer reported a schedule")
	}
}

// TestGenerator_ScaledScenario runs the stock cadence at 1/20 speed: after the
// equivalent of 10s exception=1, warn≈2, info≈10, debug≈91; after Stop the
// counters stay frozen.
func TestGenerator_ScaledScenario(t *testing.T) {
	mem := sink.NewMemory()
	g, _ := newTestGenerator(t, mem, fastSchedules(50*time.Millisecond))
	g.Start()
	time.Sleep(500 * time.Millisecond)
	g.Stop()

	s := g.Snapshot()
	if s.Exception != 1 {
		t.Fatalf("exception=%d, want 1", s.Exception)
	}
	if !within(s.Warn, 1, 3) {
		t.Fatalf("warn=%d, want ~2", s.Warn)
	}
	if !within(s.Info, 7, 11) {
		t.Fatalf("info=%d, want ~10", s.Info)
	}
	if !within(s.Debug, 30, 100) {
		t.Fatalf("debug=%d, want ~91", s.Debug)
	}

	records := len(mem.Records())
	time.Sleep(200 * time.Millisecond)
	if after := g.Snapshot(); after != s {
		t.Fatalf("counters changed after Stop: %+v -> %+v", s, after)
	}
	if n := len(mem.Records()); n != records {
		t.Fatalf("records written after Stop: %d -> %d", records, n)
	}
}

func TestGenerator_OneRecordPerTick(t *testing.T) {
	mem := sink.NewMemory()
	g, _ := newTestGenerator(t, mem, fastSchedules(0))
	g.Start()
	time.Sleep(120 * time.Millisecond)
	g.Stop()

	s := g.Snapshot()
	checks := []struct {
		level sink.Level
		count int64
	}{
		{sink.LevelError, s.Exception},
		{sink.LevelWarn, s.Warn},
		{sink.LevelInfo, s.Info},
		{sink.LevelDebug, s.Debug},
	}
	for _, c := range checks {
		if got := int64(mem.Count(c.level)); got != c.count {
			t.Fatalf("%s records=%d, counter=%d", c.level, got, c.count)
		}
	}
}

func TestGenerator_ExceptionLoggedOnce(t *testing.T) {
	mem := sink.NewMemory()
	g, pub := newTestGenerator(t, mem, map[ProducerName]Schedule{
		Exception: {Delay: 0, Interval: 10 * time.Millisecond},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: time.Hour, Interval: time.Hour},
		Debug:     {Delay: time.Hour, Interval: time.Hour},
	})
	g.Start()
	waitFor(t, 2*time.Second, func() bool { return g.Exceptions() >= 3 })
	g.Stop()

	recs := mem.Records()
	if int64(len(recs)) != g.Exceptions() {
		t.Fatalf("records=%d, exceptions=%d: exception must be logged exactly once per tick", len(recs), g.Exceptions())
	}
	for _, r := range recs {
		if r.Level != sink.LevelError || r.Message != "Exception caught." {
			t.Fatalf("unexpected record: %+v", r)
		}
		if !IsSyntheticException(r.Err) || r.Err.Error() != "Test exception." {
			t.Fatalf("record carries wrong error: %v", r.Err)
		}
		if IsLogged(r.Err) {
			t.Fatalf("sink received an already-logged error")
		}
	}
	if n := pub.Count(EventTickFailed); n != 0 {
		t.Fatalf("propagated exception was reported as a failure %d times", n)
	}
}

func TestGenerator_RecordTimestamps(t *testing.T) {
	fixed := time.Date(2026, 10, 16, 13, 4, 5, 0, time.UTC)
	mem := sink.NewMemory()
	pub := NewMemoryPublisher()
	g := New(Config{Sink: mem, Publisher: pub, Now: func() time.Time { return fixed }})
	for _, name := range []ProducerName{Warn, Info, Debug} {
		g.tick(g.byName[name])
	}
	want := []string{
		"Warn event at 10/16/2026 13:04:05",
		"Info event at 10/16/2026 13:04:05",
		"Debug logged event at 10/16/2026 13:04:05",
	}
	recs := mem.Records()
	if len(recs) != len(want) {
		t.Fatalf("records=%d, want %d", len(recs), len(want))
	}
	for i, w := range want {
		if recs[i].Message != w {
			t.Fatalf("record %d = %q, want %q", i, recs[i].Message, w)
		}
	}
}

func TestGenerator_StartIdempotent(t *testing.T) {
	mem := sink.NewMemory()
	g, pub := newTestGenerator(t, mem, map[ProducerName]Schedule{
		Exception: {Delay: time.Hour, Interval: time.Hour},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: 0, Interval: 50 * time.Millisecond},
		Debug:     {Delay: time.Hour, Interval: time.Hour},
	})
	g.Start()
	g.Start()
	time.Sleep(275 * time.Millisecond)
	g.Stop()
	// floor(275/50)+1 = 6; a duplicated producer would land near 12
	if n := g.Infos(); !within(n, 4, 7) {
		t.Fatalf("info=%d, want ~6", n)
	}
	if n := pub.Count(EventStart); n != 1 {
		t.Fatalf("start events=%d, want 1", n)
	}
}

func TestGenerator_StopIdempotentAndRestart(t *testing.T) {
	mem := sink.NewMemory()
	g, pub := newTestGenerator(t, mem, map[ProducerName]Schedule{
		Exception: {Delay: time.Hour, Interval: time.Hour},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: 0, Interval: 10 * time.Millisecond},
		Debug:     {Delay: time.Hour, Interval: time.Hour},
	})
	g.Stop() // stopped -> stopped
	g.Start()
	waitFor(t, time.Second, func() bool { return g.Infos() >= 2 })
	g.Stop()
	g.Stop()
	if g.Running() {
		t.Fatalf("still running after Stop")
	}
	if n := pub.Count(EventStop); n != 1 {
		t.Fatalf("stop events=%d, want 1", n)
	}
	before := g.Infos()
	g.Start()
	waitFor(t, time.Second, func() bool { return g.Infos() >= before+2 })
	g.Stop()
	if g.State() != StateStopped {
		t.Fatalf("state=%s", g.State())
	}
}

func TestGenerator_SinkFailureDoesNotStopTicks(t *testing.T) {
	mem := sink.NewMemory()
	mem.SetFailure(errors.New("backend down"))
	g, pub := newTestGenerator(t, mem, map[ProducerName]Schedule{
		Exception: {Delay: 0, Interval: 10 * time.Millisecond},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: 0, Interval: 10 * time.Millisecond},
		Debug:     {Delay: time.Hour, Interval: time.Hour},
	})
	g.Start()
	waitFor(t, 2*time.Second, func() bool { return g.Infos() >= 3 && g.Exceptions() >= 3 })
	if pub.Count(EventTickFailed) < 6 {
		t.Fatalf("expected failures to be reported, got %d", pub.Count(EventTickFailed))
	}
	mem.SetFailure(nil)
	waitFor(t, 2*time.Second, func() bool {
		return mem.Count(sink.LevelInfo) >= 2 && mem.Count(sink.LevelError) >= 2
	})
	g.Stop()
	for _, e := range pub.Events() {
		if e.Name != EventTickFailed {
			continue
		}
		if msg, _ := e.Fields["error"].(string); !strings.Contains(msg, "backend down") {
			t.Fatalf("failure event lacks cause: %+v", e)
		}
	}
}

type panicSink struct{ sink.Memory }

func (p *panicSink) Info(string) error { panic("sink exploded") }

func TestGenerator_PanickingSinkIsRecovered(t *testing.T) {
	ps := &panicSink{}
	g, pub := newTestGenerator(t, ps, map[ProducerName]Schedule{
		Exception: {Delay: time.Hour, Interval: time.Hour},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: 0, Interval: 5 * time.Millisecond},
		Debug:     {Delay: 0, Interval: 5 * time.Millisecond},
	})
	g.Start()
	waitFor(t, time.Second, func() bool { return g.Infos() >= 3 })
	g.Stop()
	if pub.Count(EventTickFailed) < 3 {
		t.Fatalf("panics were not reported as failures")
	}
	if ps.Count(sink.LevelDebug) == 0 {
		t.Fatalf("other producers should keep writing")
	}
}

// slowSink blocks info writes and tracks how many run at once.
type slowSink struct {
	sink.Memory
	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *slowSink) Info(msg string) error {
	n := s.inflight.Add(1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(15 * time.Millisecond)
	s.inflight.Add(-1)
	return s.Memory.Info(msg)
}

func TestGenerator_SlowTicksDoNotOverlap(t *testing.T) {
	ss := &slowSink{}
	g, _ := newTestGenerator(t, ss, map[ProducerName]Schedule{
		Exception: {Delay: time.Hour, Interval: time.Hour},
		Warn:      {Delay: time.Hour, Interval: time.Hour},
		Info:      {Delay: 0, Interval: time.Millisecond},
		Debug:     {Delay: time.Hour, Interval: time.Hour},
	})
	g.Start()
	time.Sleep(100 * time.Millisecond)
	g.Stop()
	if m := ss.maxSeen.Load(); m != 1 {
		t.Fatalf("info ticks overlapped: max concurrent=%d", m)
	}
	if int64(ss.Count(sink.LevelInfo)) != g.Infos() {
		t.Fatalf("in-flight tick did not complete before Stop returned")
	}
}

func TestErrors_Helpers(t *testing.T) {
	se := newSyntheticException()
	if !IsSyntheticException(se) || IsLogged(se) {
		t.Fatalf("fresh exception misclassified")
	}
	logged := markLogged(se)
	if !IsLogged(logged) || !IsSyntheticException(logged) {
		t.Fatalf("logged exception lost its identity")
	}
	if markLogged(logged) != logged {
		t.Fatalf("markLogged should not double-wrap")
	}
	sf := sinkFailureError{producer: Info, err: errors.New("x")}
	if !IsSinkFailure(sf) || IsLogged(sf) {
		t.Fatalf("sink failure misclassified")
	}
	if markLogged(nil) != nil {
		t.Fatalf("markLogged(nil) != nil")
	}
}
