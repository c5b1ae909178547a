package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector tracks ingestion outcomes: per-reader document counts, read
// durations and bytes ingested.
type Collector struct {
	documentsRead     *prometheus.CounterVec
	readDuration      *prometheus.HistogramVec
	bytesRead         *prometheus.CounterVec
	encodingFallbacks *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a Collector registered on reg. A nil reg falls back
// to the default Prometheus registerer.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	return &Collector{
		documentsRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_read_total",
				Help:      "Total number of documents read, by reader and outcome",
			},
			[]string{"reader", "status"},
		),
		readDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "read_duration_seconds",
				Help:      "Time spent reading a single file",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"reader"},
		),
		bytesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "read_bytes_total",
				Help:      "Total bytes of file content ingested",
			},
			[]string{"reader"},
		),
		encodingFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "encoding_fallbacks_total",
				Help:      "Text files that needed a fallback encoding to decode",
			},
			[]string{"encoding"},
		),
		logger: logger.With(zap.String("component", "metrics")),
	}
}

// RecordRead records the outcome of a single file read.
func (c *Collector) RecordRead(reader, status string, bytes int64, elapsed time.Duration) {
	c.documentsRead.WithLabelValues(reader, status).Inc()
	c.readDuration.WithLabelValues(reader).Observe(elapsed.Seconds())
	if bytes > 0 {
		c.bytesRead.WithLabelValues(reader).Add(float64(bytes))
	}
}

// RecordEncodingFallback records a text file that the first candidate
// encodings failed to decode, labeled with the encoding that finally won.
func (c *Collector) RecordEncodingFallback(encoding string) {
	c.encodingFallbacks.WithLabelValues(encoding).Inc()
}
