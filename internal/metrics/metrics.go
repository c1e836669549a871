// Package metrics declares the Prometheus collectors updated by the pipeline
// executor and the expression evaluator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline execution statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Datastore Find strategies.
const (
	ScanIndexMatch = "index_match"
	ScanIndexRange = "index_range"
	ScanFull       = "full"
)

// Stage document directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	// PipelineExecutions counts pipeline runs by source stage and outcome.
	PipelineExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gequery_pipeline_executions_total",
			Help: "Total number of pipeline executions",
		},
		[]string{"source", "status"},
	)
	// StageDocuments counts the documents entering and leaving each stage.
	StageDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gequery_stage_documents_total",
			Help: "Total number of documents consumed and produced by pipeline stages",
		},
		[]string{"stage", "direction"},
	)
	// StageDuration is the time spent running each stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gequery_stage_duration_seconds",
			Help:    "Pipeline stage latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	// EvaluationErrors counts evaluation failures that are worth
	// surfacing, such as invalid patterns.
	EvaluationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gequery_evaluation_errors_total",
			Help: "Total number of expression evaluation errors by function",
		},
		[]string{"function"},
	)
	// FindScans counts datastore lookups by the way candidates were
	// gathered.
	FindScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gequery_find_scans_total",
			Help: "Total number of datastore Find calls by candidate strategy",
		},
		[]string{"strategy"},
	)
)
