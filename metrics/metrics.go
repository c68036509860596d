// Package metrics holds the OpenTelemetry instruments for encoding and
// decoding, the provider setup with a Prometheus bridge, and the HTTP
// middleware that records request latency.
package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/jsphweid/phonomidi"

type Metrics struct {
	// Encodes counts encode calls. Attribute "status" is ok or error.
	Encodes metric.Int64Counter

	// Decodes counts decode calls. Attribute "status" is ok or error.
	Decodes metric.Int64Counter

	// NotesPerEncode is the number of melodic notes per encoded text.
	NotesPerEncode metric.Int64Histogram

	// WordsPerDecode is the number of words recovered per decoded file.
	WordsPerDecode metric.Int64Histogram

	// OutputsSwept counts output folders removed by the janitor.
	OutputsSwept metric.Int64Counter

	HTTPRequestDuration metric.Float64Histogram
}

var sizeBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Encodes, err = m.Int64Counter("phonomidi.encodes",
		metric.WithDescription("Total encode requests by status."),
	); err != nil {
		return nil, err
	}
	if met.Decodes, err = m.Int64Counter("phonomidi.decodes",
		metric.WithDescription("Total decode requests by status."),
	); err != nil {
		return nil, err
	}
	if met.NotesPerEncode, err = m.Int64Histogram("phonomidi.encode.notes",
		metric.WithDescription("Melodic notes produced per encode."),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WordsPerDecode, err = m.Int64Histogram("phonomidi.decode.words",
		metric.WithDescription("Words recovered per decode."),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	); err != nil {
		return nil, err
	}
	if met.OutputsSwept, err = m.Int64Counter("phonomidi.outputs.swept",
		metric.WithDescription("Output folders removed by cleanup."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("phonomidi.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics uses the global meter provider. Call InitProvider first if
// the values should be exported.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("metrics: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "error")
	}
	return attribute.String("status", "ok")
}

func (m *Metrics) RecordEncode(ctx context.Context, notes int, err error) {
	m.Encodes.Add(ctx, 1, metric.WithAttributes(status(err)))
	if err == nil {
		m.NotesPerEncode.Record(ctx, int64(notes))
	}
}

func (m *Metrics) RecordDecode(ctx context.Context, words int, err error) {
	m.Decodes.Add(ctx, 1, metric.WithAttributes(status(err)))
	if err == nil {
		m.WordsPerDecode.Record(ctx, int64(words))
	}
}

func (m *Metrics) RecordSweep(ctx context.Context, removed int) {
	if removed > 0 {
		m.OutputsSwept.Add(ctx, int64(removed))
	}
}
