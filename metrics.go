package gridastar

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("gridastar")

var (
	// searchTotal counts finished searches by outcome and heuristic
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridastar_search_total",
		Help: "Total finished searches by outcome",
	}, []string{"outcome", "heuristic"})

	// searchDuration tracks FindPath latency
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridastar_search_duration_seconds",
		Help:    "FindPath duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"heuristic"})

	// expandedNodes tracks how many cells each finished search closed
	expandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridastar_expanded_nodes",
		Help:    "Cells closed per finished search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// stepTotal counts single loop iterations across all runs
	stepTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridastar_step_total",
		Help: "Total search loop iterations",
	})
)
