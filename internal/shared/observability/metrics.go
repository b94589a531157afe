package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "py_import_cycles_parsing_seconds",
		Help:    "Time spent parsing a Python source file.",
		Buckets: prometheus.DefBuckets,
	})

	GraphModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "py_import_cycles_graph_modules_total",
		Help: "Total number of modules in the import graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "py_import_cycles_graph_edges_total",
		Help: "Total number of import edges in the graph.",
	})

	CyclesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "py_import_cycles_cycles_total",
		Help: "Number of import cycles found by the last analysis.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "py_import_cycles_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "py_import_cycles_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
