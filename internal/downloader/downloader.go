// Package downloader fetches compact block ranges from the server into the block cache.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/pkg/retry"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize    uint32 = 100
	DefaultBatchRetries uint64 = 5
	DefaultRetryDelay          = time.Second
)

// Config tunes batching and retries.
type Config struct {
	BatchSize    uint32
	BatchRetries uint64
	RetryDelay   time.Duration
	// RequestsPerSecond limits batch requests; zero disables the limit.
	RequestsPerSecond int
}

// Progress is called after every cached batch. An error aborts the download before the next batch.
type Progress = func(batch model.HeightRange, written int) error

// Downloader writes server blocks into the cache batch by batch.
type Downloader struct {
	client  ChainClient
	cache   Cache
	metrics Metrics
	limiter ratelimit.Limiter
	logger  *zap.Logger
	cfg     Config
}

// New creates a Downloader. Zero config fields fall back to the defaults.
func New(client ChainClient, cache Cache, metrics Metrics, cfg Config, logger *zap.Logger) *Downloader {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchRetries == 0 {
		cfg.BatchRetries = DefaultBatchRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	return &Downloader{
		client:  client,
		cache:   cache,
		metrics: metrics,
		limiter: limiter,
		logger:  logger,
		cfg:     cfg,
	}
}

// BatchSize returns the effective batch size.
func (d *Downloader) BatchSize() uint32 {
	return d.cfg.BatchSize
}

// DownloadRange downloads r in batches and returns the number of cached blocks. A failed batch is
// reported as a *model.HeightError at the batch's first height.
func (d *Downloader) DownloadRange(ctx context.Context, r model.HeightRange, progress Progress) (int, error) {
	total := 0
	for batch := range r.Batches(d.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		started := time.Now()
		written, err := retry.UpTo(ctx, d.cfg.BatchRetries, d.cfg.RetryDelay, isConnectionError,
			func(ctx context.Context, _ int) (int, error) {
				d.limiter.Take()
				return d.downloadBatch(ctx, batch)
			},
			func(err error, attempt int, next time.Duration) {
				d.metrics.ObserveRetry()
				d.logger.Warn("batch download failed, retrying",
					zap.Stringer("batch", batch),
					zap.Int("attempt", attempt),
					zap.Duration("next", next),
					zap.Error(err),
				)
			},
		)
		d.metrics.ObserveBatch(err, written, started)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return total, ctxErr
			}
			return total, model.NewHeightError(batch.Start, fmt.Errorf("download %s: %w", batch, err))
		}

		total += written
		d.logger.Debug("batch cached", zap.Stringer("batch", batch), zap.Int("blocks", written))

		if progress != nil {
			if err := progress(batch, written); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (d *Downloader) downloadBatch(ctx context.Context, batch model.HeightRange) (int, error) {
	stream, err := d.client.BlockRange(ctx, batch)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	blocks := make([]model.CachedBlock, 0, batch.Len())
	for {
		block, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		blocks = append(blocks, block)
	}
	if uint64(len(blocks)) != batch.Len() {
		return 0, fmt.Errorf("%w: got %d blocks for %s", model.ErrMalformedResponse, len(blocks), batch)
	}

	if err := d.cache.Write(ctx, blocks); err != nil {
		if !errors.Is(err, model.ErrStorage) {
			err = fmt.Errorf("%w: %w", model.ErrStorage, err)
		}
		return 0, fmt.Errorf("write batch: %w", err)
	}
	return len(blocks), nil
}

// RewindToHeight drops every cached block above height.
func (d *Downloader) RewindToHeight(ctx context.Context, height model.BlockHeight) error {
	if err := d.cache.RewindTo(ctx, height); err != nil {
		return fmt.Errorf("rewind cache to %d: %w", height, err)
	}
	return nil
}

// LastDownloadedHeight returns the highest cached height.
func (d *Downloader) LastDownloadedHeight(ctx context.Context) (model.BlockHeight, bool, error) {
	h, ok, err := d.cache.LatestHeight(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("last downloaded height: %w", err)
	}
	return h, ok, nil
}

func isConnectionError(err error) bool {
	return errors.Is(err, model.ErrConnectionUnavailable)
}
