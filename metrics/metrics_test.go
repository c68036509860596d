package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func counterByStatus(t *testing.T, m *metricdata.Metrics) map[string]int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	res := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("status"))
		res[v.AsString()] = dp.Value
	}
	return res
}

func TestRecordEncode(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordEncode(ctx, 12, nil)
	m.RecordEncode(ctx, 3, nil)
	m.RecordEncode(ctx, 0, errors.New("boom"))

	assert.Equal(t, map[string]int64{"ok": 2, "error": 1}, counterByStatus(t, findMetric(t, reader, "phonomidi.encodes")))

	hist := findMetric(t, reader, "phonomidi.encode.notes")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(2), data.DataPoints[0].Count)
	assert.Equal(t, int64(15), data.DataPoints[0].Sum)
}

func TestRecordDecodeAndSweep(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordDecode(ctx, 4, nil)
	m.RecordSweep(ctx, 0)
	m.RecordSweep(ctx, 2)

	assert.Equal(t, map[string]int64{"ok": 1}, counterByStatus(t, findMetric(t, reader, "phonomidi.decodes")))

	swept := findMetric(t, reader, "phonomidi.outputs.swept")
	require.NotNil(t, swept)
	sum := swept.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestMiddlewareRecordsDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	handler := Middleware(m, func(*http.Request) string { return "/encode" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/encode", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	hist := findMetric(t, reader, "phonomidi.http.request.duration")
	require.NotNil(t, hist)
	data := hist.Data.(metricdata.Histogram[float64])
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
	route, _ := data.DataPoints[0].Attributes.Value(attribute.Key("route"))
	assert.Equal(t, "/encode", route.AsString())
}
