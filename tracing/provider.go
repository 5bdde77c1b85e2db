package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerProvider builds a sdktrace.TracerProvider exporting to
// Config.Metrics.OTLPAddress (the same endpoint metrics are shipped to,
// kept as one flag rather than duplicating --otlp-address for traces)
// using the sampler Config.Sampler selects. It returns (nil, nil, nil)
// when no OTLP endpoint is configured, leaving the global no-op tracer
// in place.
func (c Config) TracerProvider() (*sdktrace.TracerProvider, func(context.Context) error, error) {
	if c.Metrics.OTLPAddress == "" {
		return nil, nil, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(c.Metrics.OTLPAddress),
	}
	if len(c.Metrics.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(c.Metrics.OTLPHeaders))
	}
	if !c.Metrics.OTLPUseTLS {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(c.Sampler()),
	)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}
