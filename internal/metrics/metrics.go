package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Metrics records indexing and retrieval activity on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	documentsIndexed prometheus.Counter
	chunksIndexed    prometheus.Counter
	indexChunks      prometheus.Gauge
	searchTotal      *prometheus.CounterVec
	searchDuration   prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	documentsIndexed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lexrag",
		Name:      "documents_indexed_total",
		Help:      "Documents chunked and stored.",
	})
	chunksIndexed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lexrag",
		Name:      "chunks_indexed_total",
		Help:      "Chunks produced by indexing.",
	})
	indexChunks := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lexrag",
		Name:      "index_chunks",
		Help:      "Chunks currently held in the index.",
	})
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexrag",
			Name:      "search_total",
			Help:      "Searches by outcome.",
		},
		[]string{"outcome"},
	)
	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexrag",
		Name:      "search_duration_seconds",
		Help:      "Time spent ranking a candidate pool.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	registry.MustRegister(documentsIndexed, chunksIndexed, indexChunks, searchTotal, searchDuration)

	return &Metrics{
		registry:         registry,
		documentsIndexed: documentsIndexed,
		chunksIndexed:    chunksIndexed,
		indexChunks:      indexChunks,
		searchTotal:      searchTotal,
		searchDuration:   searchDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveIndexed(chunks int) {
	m.documentsIndexed.Inc()
	m.chunksIndexed.Add(float64(chunks))
}

func (m *Metrics) SetIndexSize(chunks int) {
	m.indexChunks.Set(float64(chunks))
}

func (m *Metrics) ObserveSearch(outcome string, took time.Duration) {
	m.searchTotal.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(took.Seconds())
}
