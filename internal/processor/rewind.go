package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"go.uber.org/zap"
)

// rewindTarget picks the height to rewind to after a failure at failedAt. The depth grows with the number
// of failures already seen in the streak, is capped at maxReorg, never goes below the checkpoint and never
// exceeds a previous target of the same streak.
func rewindTarget(
	failedAt, checkpoint model.BlockHeight,
	consecutive int,
	distance, maxReorg uint64,
	previous *model.BlockHeight,
) model.BlockHeight {
	depth := min(maxReorg, distance*uint64(1+consecutive))
	target := max(failedAt.SubFloor(depth, checkpoint), checkpoint)
	if previous != nil && *previous < target {
		target = max(*previous, checkpoint)
	}
	return target
}

// rewind moves the scan cursor and then the cache down to height.
func (p *Processor) rewind(ctx context.Context, height model.BlockHeight) StageResult {
	if err := p.backend.RewindScanCursor(ctx, height); err != nil {
		return DeleteFailed{Height: height, Err: fmt.Errorf("rewind scan cursor: %w", err)}
	}
	if err := p.downloader.RewindToHeight(ctx, height); err != nil {
		return DeleteFailed{Height: height, Err: err}
	}
	return DeleteSuccess{Height: height}
}

// RewindTo rewinds cache and scan cursor to height, clamped to the checkpoint, and returns the height
// actually used. It fails while Run is active.
func (p *Processor) RewindTo(ctx context.Context, height model.BlockHeight) (model.BlockHeight, error) {
	if !p.running.TryLock() {
		return 0, errors.New("rewind: processor is running")
	}
	defer p.running.Unlock()

	target := max(height, p.cfg.Checkpoint.Height)
	p.setState(model.StateRewinding, nil)

	switch res := p.rewind(ctx, target).(type) {
	case DeleteSuccess:
		p.logger.Info("manual rewind complete", zap.Stringer("height", res.Height))
		p.publish(func(s *model.SyncStatus) {
			s.State = model.StateIdle
			s.LastDownloaded = min(s.LastDownloaded, res.Height)
			s.LastScanned = min(s.LastScanned, res.Height)
		})
		return res.Height, nil
	case DeleteFailed:
		p.setState(model.StateError, res.Err)
		return 0, res.Err
	default:
		panic(fmt.Sprintf("unexpected rewind result %T", res))
	}
}
