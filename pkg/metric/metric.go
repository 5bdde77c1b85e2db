// Package metric instruments the core compute/asset subsystem with
// OTel metrics plus a Prometheus /metrics endpoint: package-level
// instruments created once by Init, and a small HTTP handler for the
// scrape side.
package metric

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	evaluationDuration otelmetric.Float64Histogram
	assetCacheHits     otelmetric.Int64Counter
	assetCacheMisses   otelmetric.Int64Counter

	promEvaluationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "liquers",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of a single interp.Evaluate call, by outcome.",
	}, []string{"outcome"})

	promAssetCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liquers",
		Name:      "asset_cache_total",
		Help:      "Count of asset store lookups by hit/miss.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(promEvaluationDuration, promAssetCache)
}

// Init creates the OTel instruments this package emits to. It is safe
// to call multiple times; later calls replace the instrument handles.
func Init() {
	meter := otel.Meter("liquers")

	if h, err := meter.Float64Histogram(
		"liquers.evaluation.duration",
		otelmetric.WithDescription("Duration of plan evaluation in seconds"),
		otelmetric.WithUnit("s"),
	); err == nil {
		evaluationDuration = h
	}

	if c, err := meter.Int64Counter(
		"liquers.asset.cache_hits",
		otelmetric.WithDescription("Asset store lookups served from an already-evaluated asset"),
	); err == nil {
		assetCacheHits = c
	}

	if c, err := meter.Int64Counter(
		"liquers.asset.cache_misses",
		otelmetric.WithDescription("Asset store lookups that required evaluation"),
	); err == nil {
		assetCacheMisses = c
	}
}

// ObserveEvaluation records one interp.Evaluate call's wall-clock
// duration, tagged success or error, to both OTel and Prometheus.
func ObserveEvaluation(ctx context.Context, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	promEvaluationDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if evaluationDuration != nil {
		evaluationDuration.Record(ctx, d.Seconds(), otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordCacheHit/RecordCacheMiss tag one asset store lookup.
func RecordCacheHit(ctx context.Context) {
	promAssetCache.WithLabelValues("hit").Inc()
	if assetCacheHits != nil {
		assetCacheHits.Add(ctx, 1)
	}
}

func RecordCacheMiss(ctx context.Context) {
	promAssetCache.WithLabelValues("miss").Inc()
	if assetCacheMisses != nil {
		assetCacheMisses.Add(ctx, 1)
	}
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
