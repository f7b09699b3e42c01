package metrics

import (
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	downloaderBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "downloader",
		Name:      "batches_total",
		Help:      "Count of downloaded block batches.",
	}, []string{"network", "alias", "status"})

	downloaderBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "downloader",
		Name:      "batch_duration_seconds",
		Help:      "Duration of downloading and caching a batch, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "alias", "status"})

	downloaderBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "downloader",
		Name:      "blocks_total",
		Help:      "Count of blocks written to the cache.",
	}, []string{"network", "alias"})

	downloaderRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "downloader",
		Name:      "retries_total",
		Help:      "Count of batch download retries.",
	}, []string{"network", "alias"})
)

// Downloader tracks metrics for the block downloader.
type Downloader struct {
	network model.Network
	alias   model.Alias
}

// NewDownloader constructs a Downloader with defaults.
func NewDownloader(network model.Network, alias model.Alias) *Downloader {
	if network == "" {
		network = "unknown"
	}
	if alias == "" {
		alias = "unknown"
	}
	return &Downloader{network: network, alias: alias}
}

// ObserveBatch records one batch outcome and the number of blocks it cached.
func (m Downloader) ObserveBatch(err error, blocks int, started time.Time) {
	s := status(err)
	downloaderBatchTotal.WithLabelValues(string(m.network), string(m.alias), s).Inc()
	downloaderBatchDuration.WithLabelValues(string(m.network), string(m.alias), s).
		Observe(time.Since(started).Seconds())
	downloaderBlocksTotal.WithLabelValues(string(m.network), string(m.alias)).Add(float64(blocks))
}

// ObserveRetry records a retried batch attempt.
func (m Downloader) ObserveRetry() {
	downloaderRetriesTotal.WithLabelValues(string(m.network), string(m.alias)).Inc()
}
