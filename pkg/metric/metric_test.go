package metric_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liquers-go/liquers/pkg/metric"
)

func TestObserveEvaluationDoesNotPanic(t *testing.T) {
	metric.Init()
	metric.ObserveEvaluation(context.Background(), 5*time.Millisecond, nil)
	metric.ObserveEvaluation(context.Background(), 5*time.Millisecond, errors.New("boom"))
	metric.RecordCacheHit(context.Background())
	metric.RecordCacheMiss(context.Background())
}

func TestHandlerServesPrometheusFormat(t *testing.T) {
	metric.RecordCacheHit(context.Background())
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()

	metric.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "liquers_asset_cache_total")
}
