// Package processor drives the download, validate, scan and enhance cycle and repairs the local chain
// after reorganizations.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/lightsync/internal/clock"
	"github.com/goodnatureofminers/lightsync/internal/model"
	"go.uber.org/zap"
)

// Processor is the sync state machine. Run owns the loop; Status, Subscribe and Stop are safe to call from
// any goroutine.
type Processor struct {
	client     ChainClient
	downloader Downloader
	backend    ScanningBackend
	txStore    TransactionStore
	metrics    Metrics
	logger     *zap.Logger
	cfg        Config

	sleep   func(context.Context, time.Duration) error
	now     func() time.Time
	backoff backoff.BackOff

	status   *publisher
	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	running  sync.Mutex

	// loop state, owned by Run
	serverVerified    bool
	consecutiveErrors int
	failures          int
	lastRewind        *model.BlockHeight
}

// New creates a Processor. When backend also implements TransactionStore, discovered transactions are
// fetched and stored after every scan.
func New(
	client ChainClient,
	downloader Downloader,
	backend ScanningBackend,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) *Processor {
	cfg = cfg.withDefaults()
	txStore, _ := backend.(TransactionStore)

	return &Processor{
		client:     client,
		downloader: downloader,
		backend:    backend,
		txStore:    txStore,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		sleep:      clock.SleepWithContext,
		now:        time.Now,
		backoff:    cfg.Backoff.NewBackOff(),
		status:     newPublisher(time.Now),
		stopCh:     make(chan struct{}),
	}
}

// Status returns the latest status snapshot.
func (p *Processor) Status() model.SyncStatus {
	return p.status.snapshot()
}

// Subscribe returns a channel carrying the latest status. Updates are conflated for slow readers. The
// returned func unsubscribes and closes the channel.
func (p *Processor) Subscribe() (<-chan model.SyncStatus, func()) {
	return p.status.subscribe()
}

// Stop asks Run to return at the next batch or cycle boundary.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stopCh)
	})
}

// Run syncs until Stop is called, ctx is done or an unrecoverable error occurs. It returns nil after Stop.
func (p *Processor) Run(ctx context.Context) error {
	if !p.running.TryLock() {
		return errors.New("processor is already running")
	}
	defer p.running.Unlock()
	defer p.shutdown()

	p.backoff.Reset()
	for {
		if p.stopped.Load() {
			p.setState(model.StateStopped, nil)
			return nil
		}
		if err := ctx.Err(); err != nil {
			p.setState(model.StateStopped, nil)
			return err
		}

		started := time.Now()
		res := p.cycle(ctx)
		p.metrics.ObserveCycle(res.Name(), started)

		wait, err := p.handle(ctx, res)
		if errors.Is(err, model.ErrStopRequested) {
			continue
		}
		if err != nil {
			return err
		}
		if wait <= 0 {
			continue
		}
		if err := p.wait(ctx, wait); err != nil {
			p.setState(model.StateStopped, nil)
			return err
		}
	}
}

func (p *Processor) shutdown() {
	if p.cfg.ShutdownGrace > 0 {
		_ = p.sleep(context.Background(), p.cfg.ShutdownGrace)
	}
	p.client.Shutdown()
}

// wait sleeps for d unless Stop is called first.
func (p *Processor) wait(ctx context.Context, d time.Duration) error {
	ctx, cancel := clock.WithInterrupt(ctx, p.stopCh)
	defer cancel()

	err := p.sleep(ctx, d)
	if err != nil && p.stopped.Load() {
		return nil
	}
	return err
}

// cycle runs the stages in order and returns the result that ends the cycle.
func (p *Processor) cycle(ctx context.Context) StageResult {
	pl, res := p.prepare(ctx)
	if res != nil {
		return res
	}
	if pl.download.IsEmpty() && pl.scan.IsEmpty() {
		return AllSuccess{}
	}

	res = p.download(ctx, pl)
	if _, ok := res.(DownloadSuccess); !ok {
		return res
	}
	p.report(res)

	if res := p.validate(ctx, pl.scan); res != nil {
		return res
	}

	res = p.scan(ctx, pl.scan)
	scanned, ok := res.(ScanSuccess)
	if !ok {
		return res
	}
	p.report(res)

	p.report(p.enhance(ctx, scanned.Summary.Discovered))
	if pl.capped {
		return RestartRequested{}
	}
	return AllSuccess{}
}

// handle applies a cycle result and returns how long to wait before the next cycle. A non-nil error ends
// Run; model.ErrStopRequested only ends the current cycle.
func (p *Processor) handle(ctx context.Context, res StageResult) (time.Duration, error) {
	switch r := res.(type) {
	case AllSuccess:
		p.resetStreak()
		p.publish(func(s *model.SyncStatus) {
			s.State = model.StateSynced
			s.Progress = 1
			s.ConsecutiveErrors = 0
			s.LastError = ""
		})
		wait := clock.UntilNextInterval(p.now(), p.cfg.PollInterval)
		p.logger.Debug("synced", zap.Duration("next_poll", wait))
		return wait, nil
	case RestartRequested:
		p.resetStreak()
		return 0, nil
	case PrepareFailed:
		return p.handleFailure(ctx, res, 0, r.Err, false)
	case DownloadFailed:
		return p.handleFailure(ctx, res, r.Height, r.Err, false)
	case ContinuityError:
		return p.handleFailure(ctx, res, r.Height, r.Err, true)
	case ScanFailed:
		return p.handleFailure(ctx, res, r.Height, r.Err, true)
	case DeleteFailed:
		return p.handleFailure(ctx, res, r.Height, r.Err, false)
	case DownloadSuccess, ScanSuccess, DeleteSuccess, UpdateBirthday, EnhanceSuccess, EnhanceFailed:
		p.report(res)
		return 0, nil
	default:
		panic(fmt.Sprintf("processor: unhandled stage result %T", res))
	}
}

func (p *Processor) handleFailure(
	ctx context.Context,
	res StageResult,
	height model.BlockHeight,
	err error,
	rewindable bool,
) (time.Duration, error) {
	switch {
	case errors.Is(err, model.ErrStopRequested):
		return 0, model.ErrStopRequested
	case ctx.Err() != nil:
		p.setState(model.StateStopped, nil)
		return 0, ctx.Err()
	case errors.Is(err, model.ErrStorage), errors.Is(err, model.ErrConfigMismatch):
		return 0, p.fail(err)
	case errors.Is(err, model.ErrConnectionUnavailable):
		p.setState(model.StateDisconnected, err)
		p.serverVerified = false
		if rerr := p.client.Reconnect(); rerr != nil {
			p.logger.Warn("reconnect failed", zap.Error(rerr))
		}
		wait := p.backoff.NextBackOff()
		p.logger.Warn("connection unavailable, backing off",
			zap.String("result", res.Name()),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		return wait, nil
	case rewindable:
		return p.repair(ctx, height, err)
	default:
		p.failures++
		if p.failures >= p.cfg.RetryCeiling {
			return 0, p.fail(fmt.Errorf("giving up after %d consecutive failures: %w", p.failures, err))
		}
		p.setState(model.StateIdle, err)
		wait := p.backoff.NextBackOff()
		p.logger.Warn("sync cycle failed, backing off",
			zap.String("result", res.Name()),
			zap.Int("failures", p.failures),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		return wait, nil
	}
}

// repair rewinds after a continuity or scan failure at height.
func (p *Processor) repair(ctx context.Context, height model.BlockHeight, cause error) (time.Duration, error) {
	if p.consecutiveErrors >= p.cfg.RetryCeiling {
		return 0, p.fail(fmt.Errorf("%w: %d consecutive failures, last at height %d: %w",
			model.ErrReorgRepairFailed, p.consecutiveErrors, height, cause))
	}

	target := rewindTarget(height, p.cfg.Checkpoint.Height, p.consecutiveErrors,
		p.cfg.RewindDistance, p.cfg.MaxReorgSize, p.lastRewind)
	p.logger.Warn("chain continuity broken, rewinding",
		zap.Stringer("failed_at", height),
		zap.Stringer("target", target),
		zap.Int("consecutive_errors", p.consecutiveErrors),
		zap.Error(cause),
	)
	p.setState(model.StateRewinding, cause)

	res := p.rewind(ctx, target)
	if failed, ok := res.(DeleteFailed); ok {
		return p.handleFailure(ctx, failed, failed.Height, failed.Err, false)
	}
	p.report(res)

	p.consecutiveErrors++
	p.lastRewind = &target
	p.metrics.ObserveRewind(height, target)
	p.publish(func(s *model.SyncStatus) {
		s.ConsecutiveErrors = p.consecutiveErrors
		s.LastDownloaded = min(s.LastDownloaded, target)
		s.LastScanned = min(s.LastScanned, target)
	})
	return 0, nil
}

func (p *Processor) resetStreak() {
	p.consecutiveErrors = 0
	p.failures = 0
	p.lastRewind = nil
	p.backoff.Reset()
}

func (p *Processor) fail(err error) error {
	p.setState(model.StateError, err)
	p.logger.Error("sync stopped on unrecoverable error", zap.Error(err))
	return err
}

func (p *Processor) report(res StageResult) {
	switch r := res.(type) {
	case DownloadSuccess:
		p.logger.Info("downloaded blocks", zap.Stringer("range", r.Range), zap.Int("blocks", r.Blocks))
	case ScanSuccess:
		p.logger.Info("scanned blocks",
			zap.Stringer("range", r.Summary.Range),
			zap.Uint64("blocks", r.Summary.Blocks),
			zap.Uint64("transactions", r.Summary.Transactions),
			zap.Int("discovered", len(r.Summary.Discovered)),
		)
	case DeleteSuccess:
		p.logger.Info("rewound cache and scan cursor", zap.Stringer("height", r.Height))
	case UpdateBirthday:
		p.logger.Info("initialized scan cursor from checkpoint", zap.Stringer("height", r.Checkpoint.Height))
	case EnhanceSuccess:
		if r.Fetched > 0 {
			p.logger.Info("enhanced transactions", zap.Int("fetched", r.Fetched))
		}
	case EnhanceFailed:
		p.logger.Warn("transaction enhancement incomplete",
			zap.Int("fetched", r.Fetched),
			zap.Int("failed", r.Failed),
			zap.Error(r.Err),
		)
	default:
		p.logger.Debug("stage result", zap.String("result", res.Name()))
	}
}

func (p *Processor) setState(state model.SyncState, err error) {
	p.publish(func(s *model.SyncStatus) {
		s.State = state
		if err != nil {
			s.LastError = err.Error()
		}
	})
}

func (p *Processor) publish(fn func(s *model.SyncStatus)) {
	p.metrics.ObserveStatus(p.status.update(fn))
}
