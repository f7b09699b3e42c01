package metrics

import (
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache_repository",
		Name:      "operations_total",
		Help:      "Count of block cache repository operations.",
	}, []string{"operation", "network", "alias", "status"})
	cacheRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cache_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of block cache repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "network", "alias", "status"})
)

// CacheRepository tracks metrics for ClickHouse block cache operations.
type CacheRepository struct{}

// NewCacheRepository creates a CacheRepository metrics collector.
func NewCacheRepository() *CacheRepository {
	return &CacheRepository{}
}

// Observe records duration and status of a repository operation.
func (m CacheRepository) Observe(operation string, network model.Network, alias model.Alias, err error, started time.Time) {
	s := status(err)
	if network == "" {
		network = "unknown"
	}
	if alias == "" {
		alias = "unknown"
	}

	cacheRepositoryRequestsTotal.WithLabelValues(operation, string(network), string(alias), s).Inc()
	cacheRepositoryRequestDuration.WithLabelValues(operation, string(network), string(alias), s).Observe(time.Since(started).Seconds())
}
