package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPipeline(reg)

	p.ObserveAnalysis("openai", OutcomeSuccess, 2*time.Second)
	p.ObserveAnalysis("openai", OutcomeFallback, time.Second)
	p.ObserveFallback("overloaded-exhausted")
	p.ObserveRetry("openai")
	p.ObserveRetry("openai")
	p.ObserveCache(true)
	p.ObserveCache(false)
	p.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.analyses.WithLabelValues("openai", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.fallback.WithLabelValues("overloaded-exhausted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.retries.WithLabelValues("openai")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.cache.WithLabelValues("miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.duration))
}
