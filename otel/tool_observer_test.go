package otel_test

import (
	"context"
	"testing"

	toolkitotel "github.com/JulianKimmig/asynctoolkit/otel"
	"github.com/JulianKimmig/asynctoolkit/tool"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestMeter() (*metric.ManualReader, *metric.MeterProvider) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *metric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestToolObserverRecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	meter := mp.Meter("test-tool-observer")
	tracer := noop.NewTracerProvider().Tracer("test-tool-observer")

	observer, err := toolkitotel.NewToolObserver(meter, tracer)
	if err != nil {
		t.Fatalf("NewToolObserver() error = %v", err)
	}

	observer.ObserveInvoke(tool.InvokeObservation{
		Tool:       "http",
		Extension:  "nethttp",
		DurationMS: 120,
		Success:    false,
		ErrorKind:  "status",
	})
	observer.ObserveInvoke(tool.InvokeObservation{
		Tool:       "packageinstaller",
		Extension:  "pip",
		DurationMS: 900,
		Success:    true,
	})

	rm := collectMetrics(t, reader)

	invocations := findMetric(rm, "asynctoolkit.tool.invocations")
	if invocations == nil {
		t.Fatal("asynctoolkit.tool.invocations metric not found")
	}
	sum, ok := invocations.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("asynctoolkit.tool.invocations type = %T, want Sum[int64]", invocations.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("invocation count = %d, want 2", total)
	}

	latency := findMetric(rm, "asynctoolkit.tool.latency")
	if latency == nil {
		t.Fatal("asynctoolkit.tool.latency metric not found")
	}
	if _, ok := latency.Data.(metricdata.Histogram[float64]); !ok {
		t.Fatalf("asynctoolkit.tool.latency type = %T, want Histogram[float64]", latency.Data)
	}
}

func TestToolObserverEmitsSpans(t *testing.T) {
	_, mp := newTestMeter()
	meter := mp.Meter("test-tool-observer")

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer("test-tool-observer")

	observer, err := toolkitotel.NewToolObserver(meter, tracer)
	if err != nil {
		t.Fatalf("NewToolObserver() error = %v", err)
	}

	observer.ObserveInvoke(tool.InvokeObservation{
		Tool:      "http",
		Extension: "nethttp",
		Success:   true,
	})
	observer.ObserveInvoke(tool.InvokeObservation{
		Tool:      "http",
		Extension: "nethttp",
		Success:   false,
		ErrorKind: "resolve",
	})

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	for _, span := range spans {
		if span.Name != "tool.invoke" {
			t.Errorf("span name = %q, want tool.invoke", span.Name)
		}
	}
}
