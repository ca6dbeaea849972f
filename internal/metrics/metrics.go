package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for sentence analysis.
type Collector struct {
	registry *prometheus.Registry

	SentencesAnalyzed  prometheus.Counter
	SentencesFailed    *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	ClausesPerSentence prometheus.Histogram
	StoreOperations    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		SentencesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_analyzed_total",
			Help:      "Sentences analyzed successfully",
		}),
		SentencesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_failed_total",
			Help:      "Sentences skipped because parsing or analysis failed",
		}, []string{"stage"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentence_analysis_duration_seconds",
			Help:      "Time spent parsing and analyzing one sentence",
			Buckets:   prometheus.DefBuckets,
		}),
		ClausesPerSentence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "clauses_per_sentence",
			Help:      "Number of clauses found per sentence",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Result store operations by outcome",
		}, []string{"operation", "status"}),
	}

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		c.SentencesAnalyzed,
		c.SentencesFailed,
		c.AnalysisDuration,
		c.ClausesPerSentence,
		c.StoreOperations,
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveSentence records a successful analysis.
func (c *Collector) ObserveSentence(d time.Duration, clauses int) {
	if c == nil {
		return
	}
	c.SentencesAnalyzed.Inc()
	c.AnalysisDuration.Observe(d.Seconds())
	c.ClausesPerSentence.Observe(float64(clauses))
}

// ObserveFailure records a skipped sentence. stage is "parse" or "analyze".
func (c *Collector) ObserveFailure(stage string) {
	if c == nil {
		return
	}
	c.SentencesFailed.WithLabelValues(stage).Inc()
}

// ObserveStore records a storage call.
func (c *Collector) ObserveStore(operation string, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.StoreOperations.WithLabelValues(operation, status).Inc()
}
