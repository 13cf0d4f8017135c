// Package metrics holds the Prometheus collectors for the analysis pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded on boardroom_ai_analyses_total.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeConfig   = "config_error"
	OutcomeCached   = "cached"
)

type Pipeline struct {
	analyses *prometheus.CounterVec
	fallback *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewPipeline registers the collectors on reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	f := promauto.With(reg)
	return &Pipeline{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardroom_ai_analyses_total",
				Help: "Analyses handled, by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		fallback: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardroom_ai_fallbacks_total",
				Help: "Fallback answers served, by failure reason",
			},
			[]string{"reason"},
		),
		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardroom_ai_retries_total",
				Help: "Retries after provider overload",
			},
			[]string{"provider"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boardroom_ai_analysis_duration_seconds",
				Help:    "End to end pipeline duration",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardroom_ai_cache_lookups_total",
				Help: "Result cache lookups, by result",
			},
			[]string{"result"},
		),
	}
}

func (p *Pipeline) ObserveAnalysis(provider, outcome string, d time.Duration) {
	p.analyses.WithLabelValues(provider, outcome).Inc()
	p.duration.WithLabelValues(provider).Observe(d.Seconds())
}

func (p *Pipeline) ObserveFallback(reason string) {
	p.fallback.WithLabelValues(reason).Inc()
}

func (p *Pipeline) ObserveRetry(provider string) {
	p.retries.WithLabelValues(provider).Inc()
}

func (p *Pipeline) ObserveCache(hit bool) {
	if hit {
		p.cache.WithLabelValues("hit").Inc()
		return
	}
	p.cache.WithLabelValues("miss").Inc()
}
