package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
)

// DigestMetrics holds the Prometheus collectors of the digest service
type DigestMetrics struct {
	OperationsTotal  *prometheus.CounterVec
	OperationSeconds *prometheus.HistogramVec
	ChunksPerSummary prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	ModelCallsTotal  *prometheus.CounterVec
	ModelSeconds     prometheus.Histogram
}

// NewDigestMetrics registers the collectors on reg
func NewDigestMetrics(reg prometheus.Registerer) *DigestMetrics {
	factory := promauto.With(reg)

	return &DigestMetrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digest_operations_total",
				Help: "Summarize and answer calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "digest_operation_seconds",
				Help:    "End to end latency of summarize and answer calls",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
		ChunksPerSummary: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "digest_chunks_per_summary",
				Help:    "Transcript chunks sent to the model per summary",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
			},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digest_cache_lookups_total",
				Help: "Summary cache lookups by result",
			},
			[]string{"result"},
		),
		ModelCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digest_model_calls_total",
				Help: "Chat completion calls by status",
			},
			[]string{"status"},
		),
		ModelSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "digest_model_call_seconds",
				Help:    "Chat completion latency including client retries",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
		),
	}
}

// ObserveOperation records one summarize or answer call
func (m *DigestMetrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationSeconds.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveChunks records how many chunks a summary used
func (m *DigestMetrics) ObserveChunks(n int) {
	m.ChunksPerSummary.Observe(float64(n))
}

// ObserveCache records a cache hit or miss
func (m *DigestMetrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// InstrumentCompleter counts and times every call made through next
func (m *DigestMetrics) InstrumentCompleter(next pkgai.Completer) pkgai.Completer {
	return &instrumentedCompleter{next: next, metrics: m}
}

type instrumentedCompleter struct {
	next    pkgai.Completer
	metrics *DigestMetrics
}

func (c *instrumentedCompleter) Complete(ctx context.Context, messages []pkgai.Message, opts *pkgai.CompletionOptions) (string, error) {
	start := time.Now()
	out, err := c.next.Complete(ctx, messages, opts)
	c.metrics.ModelSeconds.Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.ModelCallsTotal.WithLabelValues(status).Inc()
	return out, err
}
