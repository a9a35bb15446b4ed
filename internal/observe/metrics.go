// Package observe provides the OpenTelemetry metric instruments of the sync
// engine. A package-level default instance ([DefaultMetrics]) records through
// the global meter provider; tests should use [NewMetrics] with their own
// [metric.MeterProvider].
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/satriahrh/voicesync"

// Sync run outcomes
const (
	OutcomeNoop       = "noop"
	OutcomeDispatched = "dispatched"
	OutcomeAbandoned  = "abandoned"
)

// Metrics holds the metric instruments. All fields are safe for concurrent use.
type Metrics struct {
	// SyncRuns counts sync invocations. Use with attribute:
	//   attribute.String("outcome", ...)
	SyncRuns metric.Int64Counter

	// AgentUpdates counts agent update calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("status", ...)
	AgentUpdates metric.Int64Counter

	// AgentUpdateDuration tracks the latency of one agent update call
	AgentUpdateDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates the instruments on the given provider
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SyncRuns, err = m.Int64Counter("voicesync.sync.runs",
		metric.WithDescription("Number of voice profile sync runs."),
	); err != nil {
		return nil, err
	}
	if met.AgentUpdates, err = m.Int64Counter("voicesync.sync.agent_updates",
		metric.WithDescription("Number of agent update calls issued by sync."),
	); err != nil {
		return nil, err
	}
	if met.AgentUpdateDuration, err = m.Float64Histogram("voicesync.sync.agent_update.duration",
		metric.WithDescription("Latency of one agent update call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordSyncRun counts one sync run with its outcome
func (m *Metrics) RecordSyncRun(ctx context.Context, outcome string) {
	m.SyncRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordAgentUpdate counts one agent update call and its latency
func (m *Metrics) RecordAgentUpdate(ctx context.Context, provider string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AgentUpdates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.AgentUpdateDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns the instance backed by the global meter provider.
// It panics if instrument creation fails, which only happens with a broken
// provider.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
