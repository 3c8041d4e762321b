// Package observe provides application-wide observability primitives for
// dexvox: OpenTelemetry metrics, tracing helpers, and HTTP middleware that
// ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all dexvox metrics.
const meterName = "github.com/dexvox/dexvox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use; the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ResolveDuration tracks name-resolution latency over the candidate
	// universe.
	ResolveDuration metric.Float64Histogram

	// FetchDuration tracks remote record-fetch latency. Use with attribute:
	//   attribute.String("record", ...) ("pokemon", "species", "chain", ...)
	FetchDuration metric.Float64Histogram

	// QueryDuration tracks end-to-end query handling latency.
	QueryDuration metric.Float64Histogram

	// Queries counts handled queries. Use with attributes:
	//   attribute.String("intent", ...), attribute.String("status", ...)
	Queries metric.Int64Counter

	// ResolveMisses counts utterances for which no candidate cleared the
	// acceptance threshold.
	ResolveMisses metric.Int64Counter

	// UpstreamErrors counts remote catalog failures. Use with attribute:
	//   attribute.String("record", ...)
	UpstreamErrors metric.Int64Counter

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// in-process resolution up to remote fetch round-trips.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ResolveDuration, err = m.Float64Histogram("dexvox.resolve.duration",
		metric.WithDescription("Latency of fuzzy name resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.FetchDuration, err = m.Float64Histogram("dexvox.fetch.duration",
		metric.WithDescription("Latency of remote record fetches by record kind."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.QueryDuration, err = m.Float64Histogram("dexvox.query.duration",
		metric.WithDescription("End-to-end query handling latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Queries, err = m.Int64Counter("dexvox.queries",
		metric.WithDescription("Total handled queries by intent and status."),
	); err != nil {
		return nil, err
	}
	if met.ResolveMisses, err = m.Int64Counter("dexvox.resolve.misses",
		metric.WithDescription("Total utterances with no confident name match."),
	); err != nil {
		return nil, err
	}
	if met.UpstreamErrors, err = m.Int64Counter("dexvox.upstream.errors",
		metric.WithDescription("Total remote catalog failures by record kind."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("dexvox.active_sessions",
		metric.WithDescription("Number of live conversation sessions."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("dexvox.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
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

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordQuery records one handled query with the standard attribute set.
func (m *Metrics) RecordQuery(ctx context.Context, intent, status string) {
	m.Queries.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("status", status),
		),
	)
}

// RecordUpstreamError records one remote fetch failure by record kind.
func (m *Metrics) RecordUpstreamError(ctx context.Context, record string) {
	m.UpstreamErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("record", record)),
	)
}
