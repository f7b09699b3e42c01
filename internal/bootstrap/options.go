// Package bootstrap turns command-line options into wired sync components.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/cache"
	"github.com/goodnatureofminers/lightsync/internal/downloader"
	"github.com/goodnatureofminers/lightsync/internal/lightwalletd"
	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/internal/processor"
	"github.com/goodnatureofminers/lightsync/pkg/retry"
)

const (
	BackendLevelDB    = "leveldb"
	BackendClickhouse = "clickhouse"
)

// CacheOptions select the cache identity and the block store behind it.
type CacheOptions struct {
	DataDir       string `long:"data-dir" env:"LIGHTSYNC_DATA_DIR" default:"./data" description:"directory holding the per-identity caches"`
	Network       string `long:"network" env:"LIGHTSYNC_NETWORK" default:"mainnet" choice:"mainnet" choice:"testnet" description:"chain network"`
	Alias         string `long:"alias" env:"LIGHTSYNC_ALIAS" default:"lightsync" description:"wallet alias, one cache per alias"`
	Backend       string `long:"cache-backend" env:"LIGHTSYNC_CACHE_BACKEND" default:"leveldb" choice:"leveldb" choice:"clickhouse" description:"block store"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"LIGHTSYNC_CLICKHOUSE_DSN" description:"clickhouse dsn for the clickhouse backend"`
	LRUSize       int    `long:"lru-size" env:"LIGHTSYNC_LRU_SIZE" default:"1024" description:"blocks kept in memory, 0 disables"`
}

// Identity resolves the cache identity and the network parameters.
func (o CacheOptions) Identity() (cache.Identity, model.NetworkParams, error) {
	params, err := model.ParamsFor(model.Network(o.Network))
	if err != nil {
		return cache.Identity{}, model.NetworkParams{}, err
	}
	id := cache.Identity{DataDir: o.DataDir, Network: params.Network, Alias: model.Alias(o.Alias)}
	if err := id.Validate(); err != nil {
		return cache.Identity{}, model.NetworkParams{}, err
	}
	return id, params, nil
}

// ServerOptions describe the lightwalletd endpoint.
type ServerOptions struct {
	Target        string        `long:"lightwalletd" env:"LIGHTSYNC_LIGHTWALLETD" default:"localhost:9067" description:"lightwalletd host:port"`
	TLS           bool          `long:"tls" env:"LIGHTSYNC_TLS" description:"use TLS for lightwalletd"`
	CallTimeout   time.Duration `long:"call-timeout" env:"LIGHTSYNC_CALL_TIMEOUT" default:"10s" description:"deadline of single-value calls"`
	StreamTimeout time.Duration `long:"stream-timeout" env:"LIGHTSYNC_STREAM_TIMEOUT" default:"90s" description:"deadline of streaming calls"`
}

func (o ServerOptions) config() lightwalletd.Config {
	return lightwalletd.Config{
		Target:        o.Target,
		TLS:           o.TLS,
		CallTimeout:   o.CallTimeout,
		StreamTimeout: o.StreamTimeout,
	}
}

// SyncOptions are the download and processor tunables.
type SyncOptions struct {
	CheckpointFile    string        `long:"checkpoint" env:"LIGHTSYNC_CHECKPOINT" description:"checkpoint json file, defaults to sapling activation"`
	ConsensusBranchID string        `long:"consensus-branch-id" env:"LIGHTSYNC_CONSENSUS_BRANCH_ID" description:"expected consensus branch id"`
	Watch             []string      `long:"watch" env:"LIGHTSYNC_WATCH" env-delim:"," description:"transaction id to fetch when scanned"`
	BatchSize         uint32        `long:"batch-size" env:"LIGHTSYNC_BATCH_SIZE" default:"100" description:"blocks per download batch"`
	BatchRetries      uint64        `long:"batch-retries" env:"LIGHTSYNC_BATCH_RETRIES" default:"5" description:"retries of a batch on connection errors"`
	BatchRPS          int           `long:"batch-rps" env:"LIGHTSYNC_BATCH_RPS" default:"0" description:"download batches per second, 0 is unlimited"`
	ScanBatchSize     uint32        `long:"scan-batch-size" env:"LIGHTSYNC_SCAN_BATCH_SIZE" default:"100" description:"blocks per scan batch"`
	MaxCycleBlocks    uint64        `long:"max-cycle-blocks" env:"LIGHTSYNC_MAX_CYCLE_BLOCKS" default:"0" description:"blocks per cycle, 0 is unlimited"`
	PollInterval      time.Duration `long:"poll-interval" env:"LIGHTSYNC_POLL_INTERVAL" default:"75s" description:"interval between polls once synced"`
	RewindDistance    uint64        `long:"rewind-distance" env:"LIGHTSYNC_REWIND_DISTANCE" default:"10" description:"rewind depth of the first failure"`
	MaxReorgSize      uint64        `long:"max-reorg-size" env:"LIGHTSYNC_MAX_REORG_SIZE" default:"100" description:"deepest rewind"`
	RetryCeiling      int           `long:"retry-ceiling" env:"LIGHTSYNC_RETRY_CEILING" default:"5" description:"consecutive failures before giving up"`
	BackoffInitial    time.Duration `long:"backoff-initial" env:"LIGHTSYNC_BACKOFF_INITIAL" default:"500ms" description:"first retry delay"`
	BackoffMax        time.Duration `long:"backoff-max" env:"LIGHTSYNC_BACKOFF_MAX" default:"10m" description:"longest retry delay"`
	EnhanceWorkers    int           `long:"enhance-workers" env:"LIGHTSYNC_ENHANCE_WORKERS" default:"4" description:"concurrent transaction fetches"`
	ShutdownGrace     time.Duration `long:"shutdown-grace" env:"LIGHTSYNC_SHUTDOWN_GRACE" default:"1s" description:"delay before closing the connection on exit"`
}

// Checkpoint loads the configured checkpoint or falls back to the network default.
func (o SyncOptions) Checkpoint(params model.NetworkParams) (model.Checkpoint, error) {
	if o.CheckpointFile == "" {
		return model.DefaultCheckpoint(params), nil
	}
	f, err := os.Open(o.CheckpointFile)
	if err != nil {
		return model.Checkpoint{}, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()
	return model.LoadCheckpoint(f, params)
}

// WatchedIDs decodes the display-order transaction ids.
func (o SyncOptions) WatchedIDs() ([][]byte, error) {
	ids := make([][]byte, 0, len(o.Watch))
	for _, s := range o.Watch {
		id, err := model.ParseHash(s)
		if err != nil {
			return nil, fmt.Errorf("watched tx %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (o SyncOptions) downloaderConfig() downloader.Config {
	return downloader.Config{
		BatchSize:         o.BatchSize,
		BatchRetries:      o.BatchRetries,
		RequestsPerSecond: o.BatchRPS,
	}
}

func (o SyncOptions) processorConfig(params model.NetworkParams, cp model.Checkpoint) processor.Config {
	policy := retry.DefaultPolicy()
	if o.BackoffInitial > 0 {
		policy.Initial = o.BackoffInitial
	}
	if o.BackoffMax > 0 {
		policy.Max = o.BackoffMax
	}
	return processor.Config{
		Params:            params,
		Checkpoint:        cp,
		ConsensusBranchID: o.ConsensusBranchID,
		PollInterval:      o.PollInterval,
		RewindDistance:    o.RewindDistance,
		MaxReorgSize:      o.MaxReorgSize,
		RetryCeiling:      o.RetryCeiling,
		Backoff:           policy,
		ScanBatchSize:     o.ScanBatchSize,
		MaxCycleBlocks:    o.MaxCycleBlocks,
		EnhanceWorkers:    o.EnhanceWorkers,
		ShutdownGrace:     o.ShutdownGrace,
	}
}
