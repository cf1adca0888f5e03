// Package observe records OpenTelemetry metrics for expansion calls.
//
// [Metrics] implements contraction.Observer, so it plugs into an engine with
// contraction.WithObserver. Tests should build it with [NewMetrics] over a
// private [metric.MeterProvider]; production code uses [DefaultMetrics],
// which reads the global provider (a no-op unless one is installed).
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hpungsan/unclip/internal/contraction"
)

const meterName = "github.com/hpungsan/unclip"

// Metrics holds the expansion instruments. Safe for concurrent use.
type Metrics struct {
	// Expansions counts non-empty expansion calls. Attribute: method.
	Expansions metric.Int64Counter

	// Replacements counts individual substitutions. Attribute: method.
	Replacements metric.Int64Counter

	// Degradations counts calls that asked for the linguistic strategy but
	// ran the heuristic one.
	Degradations metric.Int64Counter

	// ExpandDuration tracks wall time per expansion call.
	ExpandDuration metric.Float64Histogram
}

// Expansion calls are sub-millisecond for sentences and grow linearly with
// transcript length.
var latencyBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

var _ contraction.Observer = (*Metrics)(nil)

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Expansions, err = m.Int64Counter("unclip.expansions",
		metric.WithDescription("Expansion calls by disambiguation method."),
	); err != nil {
		return nil, err
	}
	if met.Replacements, err = m.Int64Counter("unclip.replacements",
		metric.WithDescription("Contractions replaced, by disambiguation method."),
	); err != nil {
		return nil, err
	}
	if met.Degradations, err = m.Int64Counter("unclip.degradations",
		metric.WithDescription("Linguistic requests served by the heuristic strategy."),
	); err != nil {
		return nil, err
	}
	if met.ExpandDuration, err = m.Float64Histogram("unclip.expand.duration",
		metric.WithDescription("Latency of one expansion call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built on
// [otel.GetMeterProvider]. Panics if instrument creation fails, which the
// global provider never does.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// ObserveExpansion records one expansion call.
func (m *Metrics) ObserveExpansion(res contraction.Result, requested contraction.Strategy, degraded bool, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("method", string(res.Method)))

	m.Expansions.Add(ctx, 1, attrs)

	var n int64
	for _, r := range res.Replacements {
		n += int64(r.Count)
	}
	if n > 0 {
		m.Replacements.Add(ctx, n, attrs)
	}

	if degraded {
		m.Degradations.Add(ctx, 1,
			metric.WithAttributes(attribute.String("requested", requested.String())),
		)
	}

	m.ExpandDuration.Record(ctx, elapsed.Seconds(), attrs)
}
