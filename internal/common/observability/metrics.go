package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability holds the session-level OpenTelemetry instruments.
// A zero value is usable and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	submissions    otelmetric.Int64Counter
	stageDuration  otelmetric.Float64Histogram
	renderDuration otelmetric.Float64Histogram
}

// New wires an OTel meter provider exporting through the Prometheus registry.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissions, _ := meter.Int64Counter(
		"session.submissions",
		otelmetric.WithDescription("Evaluation submissions by status"),
	)

	stageDuration, _ := meter.Float64Histogram(
		"session.stage.duration",
		otelmetric.WithDescription("Startup stage duration"),
		otelmetric.WithUnit("ms"),
	)

	renderDuration, _ := meter.Float64Histogram(
		"session.render.duration",
		otelmetric.WithDescription("Time spent mapping a result onto the surface"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		submissions:    submissions,
		stageDuration:  stageDuration,
		renderDuration: renderDuration,
	}, nil
}

func (o *Observability) RecordSubmission(ctx context.Context, status string) {
	if o == nil || o.submissions == nil {
		return
	}
	o.submissions.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordStage(ctx context.Context, stage string, duration time.Duration, status string) {
	if o == nil || o.stageDuration == nil {
		return
	}
	o.stageDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordRender(ctx context.Context, duration time.Duration) {
	if o == nil || o.renderDuration == nil {
		return
	}
	o.renderDuration.Record(ctx, float64(duration.Microseconds())/1000.0)
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
