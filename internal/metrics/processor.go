package metrics

import (
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var allStates = []model.SyncState{
	model.StateIdle,
	model.StatePreparing,
	model.StateDownloading,
	model.StateValidating,
	model.StateScanning,
	model.StateEnhancing,
	model.StateSynced,
	model.StateRewinding,
	model.StateDisconnected,
	model.StateError,
	model.StateStopped,
}

var (
	processorCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "cycles_total",
		Help:      "Count of sync cycles by final stage result.",
	}, []string{"network", "alias", "result"})

	processorCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of sync cycles by final stage result.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
	}, []string{"network", "alias", "result"})

	processorState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "state",
		Help:      "Current processor state (1 for the active state).",
	}, []string{"network", "alias", "state"})

	processorProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "progress_ratio",
		Help:      "Progress of the current stage in [0, 1].",
	}, []string{"network", "alias"})

	processorHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "height",
		Help:      "Chain tip, last downloaded and last scanned heights.",
	}, []string{"network", "alias", "kind"})

	processorConsecutiveErrors = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "consecutive_errors",
		Help:      "Consecutive continuity or scan failures in the current streak.",
	}, []string{"network", "alias"})

	processorRewindsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "rewinds_total",
		Help:      "Count of rewinds triggered by continuity or scan failures.",
	}, []string{"network", "alias"})

	processorRewindDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "rewind_depth_blocks",
		Help:      "Distance between the failing height and the rewind target.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network", "alias"})

	processorEnhancedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "enhanced_transactions_total",
		Help:      "Count of transactions fetched for enhancement.",
	}, []string{"network", "alias", "status"})
)

// Processor tracks metrics for the sync state machine.
type Processor struct {
	network model.Network
	alias   model.Alias
}

// NewProcessor constructs a Processor with defaults.
func NewProcessor(network model.Network, alias model.Alias) *Processor {
	if network == "" {
		network = "unknown"
	}
	if alias == "" {
		alias = "unknown"
	}
	return &Processor{network: network, alias: alias}
}

// ObserveCycle records the final result of one cycle.
func (m Processor) ObserveCycle(result string, started time.Time) {
	processorCyclesTotal.WithLabelValues(string(m.network), string(m.alias), result).Inc()
	processorCycleDuration.WithLabelValues(string(m.network), string(m.alias), result).
		Observe(time.Since(started).Seconds())
}

// ObserveStatus exports a status snapshot.
func (m Processor) ObserveStatus(s model.SyncStatus) {
	for _, state := range allStates {
		v := 0.0
		if state == s.State {
			v = 1
		}
		processorState.WithLabelValues(string(m.network), string(m.alias), string(state)).Set(v)
	}
	processorProgress.WithLabelValues(string(m.network), string(m.alias)).Set(s.Progress)
	processorHeight.WithLabelValues(string(m.network), string(m.alias), "chain_tip").Set(float64(s.ChainTip))
	processorHeight.WithLabelValues(string(m.network), string(m.alias), "downloaded").Set(float64(s.LastDownloaded))
	processorHeight.WithLabelValues(string(m.network), string(m.alias), "scanned").Set(float64(s.LastScanned))
	processorConsecutiveErrors.WithLabelValues(string(m.network), string(m.alias)).Set(float64(s.ConsecutiveErrors))
}

// ObserveRewind records a rewind from failedAt down to target.
func (m Processor) ObserveRewind(failedAt, target model.BlockHeight) {
	processorRewindsTotal.WithLabelValues(string(m.network), string(m.alias)).Inc()
	depth := 0.0
	if failedAt > target {
		depth = float64(failedAt - target)
	}
	processorRewindDepth.WithLabelValues(string(m.network), string(m.alias)).Observe(depth)
}

// ObserveEnhance records fetched and failed transaction enhancements.
func (m Processor) ObserveEnhance(fetched, failed int) {
	processorEnhancedTotal.WithLabelValues(string(m.network), string(m.alias), "success").Add(float64(fetched))
	processorEnhancedTotal.WithLabelValues(string(m.network), string(m.alias), "error").Add(float64(failed))
}
