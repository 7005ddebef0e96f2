package generator

import (
	"eventgen/pkg/types"
)

// Counts converts the current counters to their API form.
func (g *Generator) Counts() types.CountersResponse {
	s := g.Snapshot()
	return types.CountersResponse{Exception: s.Exception, Warn: s.Warn, Info: s.Info, Debug: s.Debug}
}

// Status builds a detailed status response for /status.
func (g *Generator) Status() types.StatusResponse {
	resp := types.StatusResponse{
		State:    string(g.State()),
		Running:  g.Running(),
		Counters: g.Counts(),
	}
	if ts := g.StartedAt(); !ts.IsZero() {
		resp.StartedAt = ts.UTC().Unix()
	}
	resp.Producers = make([]types.ProducerStatus, 0, len(g.producers))
	for _, p := range g.producers {
		resp.Producers = append(resp.Producers, types.ProducerStatus{
			Name:       string(p.name),
			Count:      p.count.Load(),
			DelayMS:    p.schedule.Delay.Milliseconds(),
			IntervalMS: p.schedule.Interval.Milliseconds(),
		})
	}
	return resp
}
