package bootstrap

import (
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/cache"
	"github.com/goodnatureofminers/lightsync/internal/cache/clickhouse"
	"github.com/goodnatureofminers/lightsync/internal/downloader"
	"github.com/goodnatureofminers/lightsync/internal/lightwalletd"
	"github.com/goodnatureofminers/lightsync/internal/metrics"
	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/internal/processor"
	"github.com/goodnatureofminers/lightsync/internal/scanner"
	"go.uber.org/zap"
)

// Node is a fully wired sync pipeline for one cache identity.
type Node struct {
	Identity  cache.Identity
	Params    model.NetworkParams
	Client    *lightwalletd.Client
	Cache     *cache.Local
	Scanner   *scanner.Scanner
	Processor *processor.Processor
}

// Build opens the cache, dials lightwalletd and assembles the processor.
func Build(co CacheOptions, so ServerOptions, sync SyncOptions, logger *zap.Logger) (*Node, error) {
	id, params, err := co.Identity()
	if err != nil {
		return nil, err
	}
	cp, err := sync.Checkpoint(params)
	if err != nil {
		return nil, err
	}
	watched, err := sync.WatchedIDs()
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("network", string(id.Network)), zap.String("alias", string(id.Alias)))

	local, err := OpenCache(co, id, logger)
	if err != nil {
		return nil, err
	}
	client, err := Dial(so, id.Network, logger)
	if err != nil {
		_ = local.Close()
		return nil, err
	}

	scan := scanner.New(local.Reader, local.State, local.Exec, logger.Named("scanner"))
	scan.Watch(watched...)

	dl := downloader.New(
		client,
		local.Blocks,
		metrics.NewDownloader(id.Network, id.Alias),
		sync.downloaderConfig(),
		logger.Named("downloader"),
	)
	proc := processor.New(
		client,
		dl,
		scan,
		metrics.NewProcessor(id.Network, id.Alias),
		sync.processorConfig(params, cp),
		logger.Named("processor"),
	)

	return &Node{
		Identity:  id,
		Params:    params,
		Client:    client,
		Cache:     local,
		Scanner:   scan,
		Processor: proc,
	}, nil
}

// OpenCache opens the block store selected by co for id.
func OpenCache(co CacheOptions, id cache.Identity, logger *zap.Logger) (*cache.Local, error) {
	switch co.Backend {
	case "", BackendLevelDB:
		return cache.OpenLocal(id, co.LRUSize, logger)
	case BackendClickhouse:
		repo, err := clickhouse.NewRepository(co.ClickhouseDSN, id.Network, id.Alias, metrics.NewCacheRepository())
		if err != nil {
			return nil, err
		}
		return cache.OpenRemote(id, repo, co.LRUSize)
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", model.ErrConfigMismatch, co.Backend)
	}
}

// Close shuts the client down and closes the cache. Processor.Run already shuts the client down on exit;
// a second shutdown is a no-op.
func (n *Node) Close() error {
	n.Client.Shutdown()
	return n.Cache.Close()
}

// Dial creates a lightwalletd client observed by the RPC metrics of network.
func Dial(so ServerOptions, network model.Network, logger *zap.Logger) (*lightwalletd.Client, error) {
	return lightwalletd.New(so.config(), metrics.NewRPCClient(network), logger)
}
