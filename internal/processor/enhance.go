package processor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/goodnatureofminers/lightsync/pkg/workerpool"
	"go.uber.org/zap"
)

// enhance fetches the full transactions behind refs and hands them to the backend's transaction store.
// Fetch failures are counted and skipped; a store failure stops the remaining work.
func (p *Processor) enhance(ctx context.Context, refs []model.TxRef) StageResult {
	if p.txStore == nil || len(refs) == 0 {
		return EnhanceSuccess{}
	}
	p.setState(model.StateEnhancing, nil)

	var fetched, failed, done atomic.Int64
	total := float64(len(refs))
	err := workerpool.Process(ctx, p.cfg.EnhanceWorkers, refs, func(ctx context.Context, ref model.TxRef) error {
		defer func() {
			n := done.Add(1)
			p.publish(func(s *model.SyncStatus) {
				s.Progress = float64(n) / total
			})
		}()

		tx, err := p.client.FetchTransaction(ctx, ref.ID)
		if err != nil {
			failed.Add(1)
			p.logger.Warn("fetch transaction failed",
				zap.String("txid", model.HashString(ref.ID)),
				zap.Error(err),
			)
			return nil
		}
		if tx.MinedHeight == 0 {
			tx.MinedHeight = ref.MinedHeight
		}
		if err := p.txStore.StoreTransaction(ctx, tx); err != nil {
			return fmt.Errorf("store transaction %s: %w", model.HashString(ref.ID), err)
		}
		fetched.Add(1)
		return nil
	})

	p.metrics.ObserveEnhance(int(fetched.Load()), int(failed.Load()))
	if err != nil || failed.Load() > 0 {
		if err == nil {
			err = fmt.Errorf("%d of %d transactions could not be fetched", failed.Load(), len(refs))
		}
		return EnhanceFailed{Fetched: int(fetched.Load()), Failed: int(failed.Load()), Err: err}
	}
	return EnhanceSuccess{Fetched: int(fetched.Load())}
}
