package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeEmpty     = "empty"
	OutcomeThrottled = "throttled"
)

var generationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "avan_generation_calls_total",
	Help: "Remote generation calls by provider and outcome",
}, []string{"provider", "outcome"})

var generationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "avan_generation_duration_seconds",
	Help:    "Remote generation call latency",
	Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
}, []string{"provider"})

var turnsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "avan_chat_turns_rejected_total",
	Help: "Chat turns rejected before generation, by reason",
}, []string{"reason"})

var savedProjects = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "avan_saved_projects",
	Help: "Saved projects across all users at the last store report",
})

func RecordGeneration(provider, outcome string, took time.Duration) {
	generationCalls.WithLabelValues(provider, outcome).Inc()
	generationLatency.WithLabelValues(provider).Observe(took.Seconds())
}

func RecordTurnRejected(reason string) {
	turnsRejected.WithLabelValues(reason).Inc()
}

func SetSavedProjects(n int) {
	savedProjects.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
