// Package tracing configures OTel trace/metric export for an evaluation
// process: which sampler to use and where to ship spans and metrics,
// without the core engine caring about the destination.
package tracing

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config bundles the sampling and export settings a front end exposes
// as CLI flags.
type Config struct {
	Sampling SamplingConfig `group:"Tracing Sampling"`
	Metrics  MetricsConfig  `group:"Tracing Metrics"`
}

// SamplingConfig holds trace sampling configuration.
type SamplingConfig struct {
	Strategy string  `long:"sampling-strategy" description:"trace sampling strategy: always, never, probability" default:"always"`
	Rate     float64 `long:"sampling-rate"     description:"sampling rate for probability strategy (0.0 to 1.0)" default:"1.0"`
}

// Sampler returns a configured sdktrace.Sampler based on the Config's sampling settings.
func (c Config) Sampler() sdktrace.Sampler {
	switch c.Sampling.Strategy {
	case "never":
		return sdktrace.NeverSample()
	case "probability":
		rate := c.Sampling.Rate
		if rate == 0 {
			rate = 1.0
		}
		return sdktrace.TraceIDRatioBased(rate)
	default:
		return sdktrace.AlwaysSample()
	}
}
