package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"eventgen/internal/generator"
)

const namespace = "eventgen"

var (
	generatorRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "running",
			Help:      "1 while the event generator is running",
		},
	)

	sinkFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "sink_failures_total",
			Help:      "Total producer ticks whose record could not be written to the sink",
		},
		[]string{"producer"},
	)
)

func init() {
	prometheus.MustRegister(generatorRunning, sinkFailuresTotal)
}

// countersCollector exposes generator counters at scrape time so the
// generator itself stays unaware of Prometheus.
type countersCollector struct {
	counters generator.Counters
	desc     *prometheus.Desc
}

// NewCountersCollector returns a collector for eventgen_generator_events_total.
func NewCountersCollector(c generator.Counters) prometheus.Collector {
	return &countersCollector{
		counters: c,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "events_total"),
			"Total events emitted per producer",
			[]string{"producer"}, nil,
		),
	}
}

func (c *countersCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c *countersCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.counters.Snapshot()
	for _, name := range generator.ProducerNames {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(s.Get(name)), string(name))
	}
}

// RegisterCounters registers a counters collector with reg, or the default
// registerer when reg is nil.
func RegisterCounters(reg prometheus.Registerer, c generator.Counters) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(NewCountersCollector(c))
}

// Publisher keeps generator metrics in step with lifecycle events.
type Publisher struct{}

func (Publisher) Publish(e generator.Event) {
	switch e.Name {
	case generator.EventStart:
		generatorRunning.Set(1)
	case generator.EventStop, generator.EventShutdown:
		generatorRunning.Set(0)
	case generator.EventTickFailed:
		p := string(e.Producer)
		if p == "" {
			p = "unspecified"
		}
		sinkFailuresTotal.WithLabelValues(p).Inc()
	}
}

var _ generator.EventPublisher = Publisher{}
