package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"marboris-intents/internal/common/config"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	intentCounter  otelmetric.Int64Counter
	intentDuration otelmetric.Float64Histogram
}

type options struct {
	processors []sdktrace.SpanProcessor
}

// Option customizes New.
type Option func(*options)

// WithSpanProcessor enables tracing with an extra span processor, even without a Jaeger endpoint.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) {
		o.processors = append(o.processors, sp)
	}
}

func New(serviceName string, tracing config.TracingConfig, opts ...Option) *Observability {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	obs := &Observability{tracer: noop.NewTracerProvider().Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
	} else {
		obs.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(obs.meterProvider)

		obs.meter = obs.meterProvider.Meter(serviceName)
		obs.intentCounter, _ = obs.meter.Int64Counter(
			"intents.dispatched",
			otelmetric.WithDescription("Number of intents dispatched"),
		)
		obs.intentDuration, _ = obs.meter.Float64Histogram(
			"intents.duration",
			otelmetric.WithDescription("Intent handling duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	tp, err := newTracerProvider(serviceName, tracing, o.processors)
	if err != nil {
		log.Printf("Failed to create tracer provider: %v", err)
	} else if tp != nil {
		obs.tracerProvider = tp
		obs.tracer = tp.Tracer(serviceName)
		otel.SetTracerProvider(tp)
	}

	return obs
}

// StartSpan starts a span named name. The caller must end it.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordIntent(ctx context.Context, intentName, tag, kind string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("intent", intentName),
		attribute.String("tag", tag),
		attribute.String("kind", kind),
	)
	if o.intentCounter != nil {
		o.intentCounter.Add(ctx, 1, attrs)
	}
	if o.intentDuration != nil {
		o.intentDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
}
