// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_queries_processed_total",
			Help: "Total number of farmer queries processed",
		},
		[]string{"category", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_query_duration_seconds",
			Help:    "End-to-end query processing duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 30},
		},
		[]string{"category"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_tool_executions_total",
			Help: "Total number of data tool executions",
		},
		[]string{"tool", "status"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_tool_duration_seconds",
			Help:    "Duration of individual tool calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool"},
	)

	ToolsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_tools_in_flight",
			Help: "Number of concurrently executing tool calls",
		},
	)

	TranslationCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_hits_total",
			Help: "Translation cache lookups by layer and outcome",
		},
		[]string{"layer", "outcome"},
	)

	FactCheckResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_check_results_total",
			Help: "Fact check terminal states",
		},
		[]string{"status"},
	)

	DetectedLanguages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detected_languages_total",
			Help: "Detected query languages",
		},
		[]string{"language"},
	)
)
