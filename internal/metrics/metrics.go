// Package metrics wraps github.com/armon/go-metrics as the concrete sink
// for instrumentation, kept external to the core data structures and given
// a real job: counting Bloom bit-set ratio, Cuckoo kick-chain lengths, and
// skip-list contended retries.
package metrics

import (
	"time"

	gometrics "github.com/armon/go-metrics"
)

// Recorder is the minimal interface the core data structures accept. Kept
// narrow and local so bloom/cuckoo/skiplist depend only on an interface,
// never on armon/go-metrics directly.
type Recorder interface {
	IncrCounter(name string, val float32)
	SetGauge(name string, val float32)
	MeasureSince(name string, start time.Time)
}

// Noop discards everything. The zero value is ready to use and is the
// default when no Recorder is supplied at construction.
type Noop struct{}

func (Noop) IncrCounter(string, float32)       {}
func (Noop) SetGauge(string, float32)          {}
func (Noop) MeasureSince(string, time.Time)    {}

// GoMetrics adapts an *armon/go-metrics.Metrics instance to Recorder.
type GoMetrics struct {
	m      *gometrics.Metrics
	prefix []string
}

// NewGoMetrics builds an in-memory armon/go-metrics sink named serviceName,
// retaining 1-minute interval buckets for 10 minutes. Point-in-time
// Stats() snapshots from the filters get a time-series companion here.
func NewGoMetrics(serviceName string, prefix ...string) (*GoMetrics, error) {
	sink := gometrics.NewInmemSink(time.Minute, 10*time.Minute)
	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	m, err := gometrics.New(cfg, sink)
	if err != nil {
		return nil, err
	}
	return &GoMetrics{m: m, prefix: prefix}, nil
}

func (g *GoMetrics) key(name string) []string {
	return append(append([]string{}, g.prefix...), name)
}

func (g *GoMetrics) IncrCounter(name string, val float32) {
	g.m.IncrCounter(g.key(name), val)
}

func (g *GoMetrics) SetGauge(name string, val float32) {
	g.m.SetGauge(g.key(name), val)
}

func (g *GoMetrics) MeasureSince(name string, start time.Time) {
	g.m.MeasureSince(g.key(name), start)
}
