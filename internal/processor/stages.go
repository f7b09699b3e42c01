package processor

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"go.uber.org/zap"
)

type plan struct {
	tip            model.ChainTip
	lastDownloaded model.BlockHeight
	lastScanned    model.BlockHeight
	download       model.HeightRange
	scan           model.HeightRange
	// capped is set when the ranges stop short of the tip.
	capped bool
}

// prepare checks the server, reads both cursors and computes the ranges of this cycle. A nil result means
// the cycle can go on.
func (p *Processor) prepare(ctx context.Context) (plan, StageResult) {
	p.setState(model.StatePreparing, nil)

	if !p.serverVerified {
		info, err := p.client.ServerInfo(ctx)
		if err != nil {
			return plan{}, PrepareFailed{Err: err}
		}
		if err := p.cfg.Params.Verify(info, p.cfg.ConsensusBranchID); err != nil {
			return plan{}, PrepareFailed{Err: err}
		}
		p.serverVerified = true
		p.logger.Info("server verified",
			zap.String("vendor", info.Vendor),
			zap.String("version", info.Version),
			zap.String("chain", info.ChainName),
			zap.String("branch_id", info.ConsensusBranchID),
		)
	}

	tip, err := p.client.LatestBlock(ctx)
	if err != nil {
		return plan{}, PrepareFailed{Err: err}
	}

	checkpoint := p.cfg.Checkpoint.Height
	lastScanned, ok, err := p.backend.ScanCursor(ctx)
	if err != nil {
		return plan{}, PrepareFailed{Err: fmt.Errorf("read scan cursor: %w", err)}
	}
	if !ok {
		if err := p.backend.Initialize(ctx, p.cfg.Checkpoint); err != nil {
			return plan{}, PrepareFailed{Err: fmt.Errorf("initialize scan cursor: %w", err)}
		}
		p.report(UpdateBirthday{Checkpoint: p.cfg.Checkpoint})
		lastScanned = checkpoint
	}
	lastScanned = max(lastScanned, checkpoint)

	lastDownloaded, ok, err := p.downloader.LastDownloadedHeight(ctx)
	if err != nil {
		return plan{}, PrepareFailed{Err: err}
	}
	if !ok {
		lastDownloaded = checkpoint
	}
	lastDownloaded = max(lastDownloaded, checkpoint)

	pl := plan{
		tip:            tip,
		lastDownloaded: lastDownloaded,
		lastScanned:    lastScanned,
	}
	end := tip.Height
	if limit := p.cfg.MaxCycleBlocks; limit > 0 && lastScanned < end && uint64(end-lastScanned) > limit {
		end = lastScanned + model.BlockHeight(limit)
		pl.capped = true
	}
	pl.download = model.RangeAfter(max(lastDownloaded, lastScanned), end)
	pl.scan = model.RangeAfter(lastScanned, end)

	p.publish(func(s *model.SyncStatus) {
		s.ChainTip = tip.Height
		s.LastDownloaded = lastDownloaded
		s.LastScanned = lastScanned
		s.DownloadRange = pl.download
		s.ScanRange = pl.scan
		s.Progress = 0
	})
	p.logger.Debug("cycle prepared",
		zap.Stringer("tip", tip.Height),
		zap.Stringer("download", pl.download),
		zap.Stringer("scan", pl.scan),
	)
	return pl, nil
}

func (p *Processor) download(ctx context.Context, pl plan) StageResult {
	if pl.download.IsEmpty() {
		return DownloadSuccess{Range: pl.download}
	}
	p.setState(model.StateDownloading, nil)

	batches := pl.download.BatchCount(p.downloader.BatchSize())
	var done uint64
	n, err := p.downloader.DownloadRange(ctx, pl.download, func(batch model.HeightRange, _ int) error {
		done++
		p.publish(func(s *model.SyncStatus) {
			s.LastDownloaded = batch.End
			if batches > 0 {
				s.Progress = float64(done) / float64(batches)
			}
		})
		if p.stopped.Load() {
			return model.ErrStopRequested
		}
		return nil
	})
	if err != nil {
		height, ok := model.FailedHeight(err)
		if !ok {
			height = pl.download.Start
		}
		return DownloadFailed{Height: height, Err: err}
	}
	return DownloadSuccess{Range: pl.download, Blocks: n}
}

// validate returns nil when the scan range is a continuous chain.
func (p *Processor) validate(ctx context.Context, r model.HeightRange) StageResult {
	if r.IsEmpty() {
		return nil
	}
	p.setState(model.StateValidating, nil)

	if err := p.backend.ValidateContinuity(ctx, r); err != nil {
		height, ok := model.FailedHeight(err)
		if !ok {
			height = r.Start
		}
		return ContinuityError{Height: height, Err: err}
	}
	return nil
}

func (p *Processor) scan(ctx context.Context, r model.HeightRange) StageResult {
	summary := model.ScanSummary{Range: r}
	if r.IsEmpty() {
		return ScanSuccess{Summary: summary}
	}
	p.setState(model.StateScanning, nil)

	for batch := range r.Batches(p.cfg.ScanBatchSize) {
		if p.stopped.Load() {
			return ScanFailed{Height: batch.Start, Err: model.ErrStopRequested}
		}

		s, err := p.backend.Scan(ctx, batch)
		if err != nil {
			height, ok := model.FailedHeight(err)
			if !ok {
				height = batch.Start
			}
			return ScanFailed{Height: height, Err: err}
		}
		summary.Blocks += s.Blocks
		summary.Transactions += s.Transactions
		summary.Discovered = append(summary.Discovered, s.Discovered...)

		p.publish(func(st *model.SyncStatus) {
			st.LastScanned = batch.End
			st.Progress = float64(uint64(batch.End)-uint64(r.Start)+1) / float64(r.Len())
		})
	}
	return ScanSuccess{Summary: summary}
}
