// Package metrics counts outgoing API calls for the CLI's -stats output.
package metrics

import (
	"sync/atomic"
	"time"
)

// Counter is safe for concurrent use; the zero value is ready.
type Counter struct{ n atomic.Uint64 }

func (c *Counter) Inc()         { c.n.Add(1) }
func (c *Counter) Add(n uint64) { c.n.Add(n) }
func (c *Counter) Load() uint64 { return c.n.Load() }

// Timer measures one call.
type Timer struct{ start time.Time }

func StartTimer() *Timer { return &Timer{start: time.Now()} }

func (t *Timer) Duration() time.Duration { return time.Since(t.start) }

// Requests tracks outgoing API calls.
type Requests struct {
	Total    Counter
	Failed   Counter
	Rejected Counter // completed with a non-2xx status
	latency  Counter // nanoseconds
}

// Observe records one finished call started by t.
func (r *Requests) Observe(t *Timer, failed, rejected bool) {
	r.Total.Inc()
	r.latency.Add(uint64(t.Duration()))
	if failed {
		r.Failed.Inc()
	}
	if rejected {
		r.Rejected.Inc()
	}
}

type Snapshot struct {
	Total       uint64
	Failed      uint64
	Rejected    uint64
	MeanLatency time.Duration
}

func (r *Requests) Snapshot() Snapshot {
	s := Snapshot{
		Total:    r.Total.Load(),
		Failed:   r.Failed.Load(),
		Rejected: r.Rejected.Load(),
	}
	if s.Total > 0 {
		s.MeanLatency = time.Duration(r.latency.Load() / s.Total)
	}
	return s
}
