package processor

import (
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/pkg/retry"
)

const (
	DefaultPollInterval   = 75 * time.Second
	DefaultRewindDistance = 10
	DefaultMaxReorgSize   = 100
	DefaultRetryCeiling   = 5
	DefaultScanBatchSize  = 100
	DefaultEnhanceWorkers = 4
	DefaultMaxBackoff     = 10 * time.Minute
)

// Config holds the sync policy.
type Config struct {
	Params     model.NetworkParams
	Checkpoint model.Checkpoint
	// ConsensusBranchID is checked against the server when set.
	ConsensusBranchID string

	PollInterval time.Duration
	// RewindDistance is the rewind depth for the first failure of a streak. It grows linearly with every
	// further failure, up to MaxReorgSize.
	RewindDistance uint64
	MaxReorgSize   uint64
	// RetryCeiling is the number of consecutive failures after which the processor gives up.
	RetryCeiling  int
	Backoff       retry.Policy
	ScanBatchSize uint32
	// MaxCycleBlocks caps the blocks handled per cycle so scanning starts before a long download ends.
	// Zero means no cap.
	MaxCycleBlocks uint64
	EnhanceWorkers int
	ShutdownGrace  time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RewindDistance == 0 {
		c.RewindDistance = DefaultRewindDistance
	}
	if c.MaxReorgSize == 0 {
		c.MaxReorgSize = DefaultMaxReorgSize
	}
	if c.RetryCeiling <= 0 {
		c.RetryCeiling = DefaultRetryCeiling
	}
	if c.Backoff == (retry.Policy{}) {
		c.Backoff = retry.DefaultPolicy()
		c.Backoff.Max = DefaultMaxBackoff
	}
	if c.ScanBatchSize == 0 {
		c.ScanBatchSize = DefaultScanBatchSize
	}
	if c.EnhanceWorkers <= 0 {
		c.EnhanceWorkers = DefaultEnhanceWorkers
	}
	if c.Checkpoint.Height == 0 && c.Checkpoint.Network == "" {
		c.Checkpoint = model.DefaultCheckpoint(c.Params)
	}
	return c
}
