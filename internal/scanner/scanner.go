// Package scanner is the reference scanning backend. It checks chain continuity, tracks the scan cursor and
// reports watched transactions, without any trial decryption.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/lightsync/internal/cache"
	"github.com/goodnatureofminers/lightsync/internal/model"
	dbm "github.com/tendermint/tm-db"
	"github.com/zcash/lightwalletd/walletrpc"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// chunkSize bounds the number of blocks handled per executor job.
const chunkSize = 1000

// Scanner keeps its state in a tm-db database and reads blocks from the cache. Every storage access runs on
// the shared executor, so blocks must be the unconfined store.
type Scanner struct {
	blocks cache.Store
	state  dbm.DB
	exec   *cache.Executor
	logger *zap.Logger

	mu      sync.RWMutex
	watched map[string]struct{}
}

// New creates a Scanner.
func New(blocks cache.Store, state dbm.DB, exec *cache.Executor, logger *zap.Logger) *Scanner {
	return &Scanner{
		blocks:  blocks,
		state:   state,
		exec:    exec,
		logger:  logger,
		watched: make(map[string]struct{}),
	}
}

// Watch adds transaction ids (wire byte order) that Scan reports when it meets them.
func (s *Scanner) Watch(ids ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.watched[string(id)] = struct{}{}
	}
}

func (s *Scanner) isWatched(id []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.watched[string(id)]
	return ok
}

// Initialize places the cursor on the checkpoint unless a cursor already exists.
func (s *Scanner) Initialize(ctx context.Context, cp model.Checkpoint) error {
	return s.exec.Do(ctx, func() error {
		_, ok, err := loadAnchor(s.state, cursorKey())
		if err != nil {
			return storageErr("load cursor", err)
		}
		if ok {
			return nil
		}

		a := encodeAnchor(anchor{height: cp.Height, hash: cp.Hash, sapling: unknownSize, orchard: unknownSize})
		batch := s.state.NewBatch()
		defer batch.Close()
		if err := batch.Set(checkpointKey(), a); err != nil {
			return storageErr("initialize", err)
		}
		if err := batch.Set(cursorKey(), a); err != nil {
			return storageErr("initialize", err)
		}
		if err := batch.WriteSync(); err != nil {
			return storageErr("initialize", err)
		}
		s.logger.Info("scan cursor initialized", zap.Stringer("height", cp.Height))
		return nil
	})
}

// ScanCursor returns the height of the last scanned block.
func (s *Scanner) ScanCursor(ctx context.Context) (model.BlockHeight, bool, error) {
	var (
		cur anchor
		ok  bool
	)
	err := s.exec.Do(ctx, func() error {
		var err error
		cur, ok, err = loadAnchor(s.state, cursorKey())
		if err != nil {
			return storageErr("load cursor", err)
		}
		return nil
	})
	return cur.height, ok, err
}

// ValidateContinuity checks that the cached blocks of r exist, link by previous hash onto the block below r
// and keep consistent commitment tree sizes.
func (s *Scanner) ValidateContinuity(ctx context.Context, r model.HeightRange) error {
	if r.IsEmpty() {
		return nil
	}

	var prev anchor
	first := true
	for chunk := range r.Batches(chunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.exec.Do(ctx, func() error {
			if first {
				var err error
				if prev, err = s.anchorBelow(ctx, chunk.Start); err != nil {
					return err
				}
				first = false
			}
			for h := chunk.Start; h <= chunk.End; h++ {
				cb, err := s.loadBlock(ctx, h, model.ErrContinuity)
				if err != nil {
					return err
				}
				if err := prev.follows(cb); err != nil {
					return model.NewHeightError(h, fmt.Errorf("%w: %w", model.ErrContinuity, err))
				}
				prev = anchorOf(h, cb)
				if h == chunk.End {
					break
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Scan walks r, which must start right above the cursor, and advances the cursor to its end.
func (s *Scanner) Scan(ctx context.Context, r model.HeightRange) (model.ScanSummary, error) {
	summary := model.ScanSummary{Range: r}
	if r.IsEmpty() {
		return summary, nil
	}

	for chunk := range r.Batches(chunkSize) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		var (
			blocks, txs uint64
			discovered  []model.TxRef
		)
		err := s.exec.Do(ctx, func() error {
			cur, ok, err := loadAnchor(s.state, cursorKey())
			if err != nil {
				return storageErr("load cursor", err)
			}
			if !ok {
				return model.NewHeightError(chunk.Start, fmt.Errorf("%w: scan cursor is not initialized", model.ErrScan))
			}
			if cur.height+1 != chunk.Start {
				return model.NewHeightError(chunk.Start,
					fmt.Errorf("%w: range does not continue the cursor at %d", model.ErrScan, cur.height))
			}

			for h := chunk.Start; h <= chunk.End; h++ {
				cb, err := s.loadBlock(ctx, h, model.ErrScan)
				if err != nil {
					return err
				}
				if err := cur.follows(cb); err != nil {
					return model.NewHeightError(h, fmt.Errorf("%w: %w", model.ErrScan, err))
				}
				for _, tx := range cb.GetVtx() {
					txs++
					if s.isWatched(tx.GetHash()) {
						discovered = append(discovered, model.TxRef{ID: tx.GetHash(), MinedHeight: h})
					}
				}
				blocks++
				cur = anchorOf(h, cb)
				if h == chunk.End {
					break
				}
			}

			if err := s.state.SetSync(cursorKey(), encodeAnchor(cur)); err != nil {
				return storageErr("save cursor", err)
			}
			return nil
		})
		if err != nil {
			return summary, err
		}
		summary.Blocks += blocks
		summary.Transactions += txs
		summary.Discovered = append(summary.Discovered, discovered...)
	}
	return summary, nil
}

// RewindScanCursor moves the cursor down to height, never below the checkpoint, and drops stored
// transactions mined above it.
func (s *Scanner) RewindScanCursor(ctx context.Context, height model.BlockHeight) error {
	return s.exec.Do(ctx, func() error {
		cur, ok, err := loadAnchor(s.state, cursorKey())
		if err != nil {
			return storageErr("load cursor", err)
		}
		if !ok || cur.height <= height {
			return nil
		}

		target, err := s.rewindTarget(ctx, height)
		if err != nil {
			return err
		}
		if err := s.dropTransactionsAbove(target.height); err != nil {
			return storageErr("drop transactions", err)
		}
		if err := s.state.SetSync(cursorKey(), encodeAnchor(target)); err != nil {
			return storageErr("save cursor", err)
		}
		s.logger.Info("scan cursor rewound",
			zap.Stringer("from", cur.height),
			zap.Stringer("to", target.height),
		)
		return nil
	})
}

// StoreTransaction persists a fetched transaction under its mined height.
func (s *Scanner) StoreTransaction(ctx context.Context, tx model.RawTransaction) error {
	if len(tx.ID) == 0 {
		return errors.New("store transaction: empty id")
	}
	return s.exec.Do(ctx, func() error {
		if err := s.state.SetSync(txKey(tx.MinedHeight, tx.ID), tx.Data); err != nil {
			return storageErr("store transaction", err)
		}
		s.logger.Debug("transaction stored",
			zap.String("txid", model.HashString(tx.ID)),
			zap.Stringer("mined_height", tx.MinedHeight),
		)
		return nil
	})
}

func (s *Scanner) rewindTarget(ctx context.Context, height model.BlockHeight) (anchor, error) {
	cp, ok, err := loadAnchor(s.state, checkpointKey())
	if err != nil {
		return anchor{}, storageErr("load checkpoint", err)
	}
	if ok && height <= cp.height {
		return cp, nil
	}

	block, found, err := s.blocks.Find(ctx, height)
	if err != nil {
		return anchor{}, err
	}
	if !found {
		s.logger.Warn("rewind target is not cached; cursor hash unknown", zap.Stringer("height", height))
		return anchor{height: height, sapling: unknownSize, orchard: unknownSize}, nil
	}
	cb, err := decodeBlock(block)
	if err != nil {
		return anchor{height: height, hash: block.Hash, sapling: unknownSize, orchard: unknownSize}, nil
	}
	return anchorOf(height, cb), nil
}

func (s *Scanner) dropTransactionsAbove(height model.BlockHeight) error {
	if height == model.MaxBlockHeight {
		return nil
	}
	iter, err := s.state.Iterator(txHeightKey(height+1), txEnd())
	if err != nil {
		return err
	}
	var keys [][]byte
	for ; iter.Valid(); iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return err
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	batch := s.state.NewBatch()
	defer batch.Close()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

// anchorBelow returns what the block at height has to link onto: the cursor if it sits right below,
// otherwise the cached block below. The zero anchor disables the hash check.
func (s *Scanner) anchorBelow(ctx context.Context, height model.BlockHeight) (anchor, error) {
	if height == 0 {
		return anchor{sapling: unknownSize, orchard: unknownSize}, nil
	}
	below := height - 1

	cur, ok, err := loadAnchor(s.state, cursorKey())
	if err != nil {
		return anchor{}, storageErr("load cursor", err)
	}
	if ok && cur.height == below && len(cur.hash) > 0 {
		return cur, nil
	}

	block, found, err := s.blocks.Find(ctx, below)
	if err != nil {
		return anchor{}, err
	}
	if found {
		if cb, err := decodeBlock(block); err == nil {
			return anchorOf(below, cb), nil
		}
	}
	return anchor{height: below, sapling: unknownSize, orchard: unknownSize}, nil
}

func (s *Scanner) loadBlock(ctx context.Context, height model.BlockHeight, kind error) (*walletrpc.CompactBlock, error) {
	block, found, err := s.blocks.Find(ctx, height)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewHeightError(height, fmt.Errorf("%w: block is not cached", kind))
	}
	cb, err := decodeBlock(block)
	if err != nil {
		return nil, model.NewHeightError(height, fmt.Errorf("%w: %w", kind, err))
	}
	return cb, nil
}

func decodeBlock(block model.CachedBlock) (*walletrpc.CompactBlock, error) {
	cb := &walletrpc.CompactBlock{}
	if err := proto.Unmarshal(block.Data, cb); err != nil {
		return nil, fmt.Errorf("decode compact block: %w", err)
	}
	if cb.GetHeight() != block.Height.Uint64() {
		return nil, fmt.Errorf("cached under %d but encodes height %d", block.Height, cb.GetHeight())
	}
	if !bytes.Equal(cb.GetHash(), block.Hash) {
		return nil, fmt.Errorf("hash %s does not match cached hash %s",
			model.HashString(cb.GetHash()), model.HashString(block.Hash))
	}
	return cb, nil
}

func anchorOf(height model.BlockHeight, cb *walletrpc.CompactBlock) anchor {
	a := anchor{height: height, hash: cb.GetHash(), sapling: unknownSize, orchard: unknownSize}
	meta := cb.GetChainMetadata()
	if meta != nil && (meta.GetSaplingCommitmentTreeSize() != 0 || meta.GetOrchardCommitmentTreeSize() != 0) {
		a.sapling = int64(meta.GetSaplingCommitmentTreeSize())
		a.orchard = int64(meta.GetOrchardCommitmentTreeSize())
	}
	return a
}

func (a anchor) follows(cb *walletrpc.CompactBlock) error {
	if len(a.hash) > 0 && !bytes.Equal(cb.GetPrevHash(), a.hash) {
		return fmt.Errorf("previous hash %s does not match %s at %d",
			model.HashString(cb.GetPrevHash()), model.HashString(a.hash), a.height)
	}

	next := anchorOf(a.height+1, cb)
	if a.sapling == unknownSize || next.sapling == unknownSize {
		return nil
	}
	var outputs, actions int64
	for _, tx := range cb.GetVtx() {
		outputs += int64(len(tx.GetOutputs()))
		actions += int64(len(tx.GetActions()))
	}
	if a.sapling+outputs != next.sapling {
		return fmt.Errorf("sapling tree size %d + %d outputs != %d", a.sapling, outputs, next.sapling)
	}
	if a.orchard+actions != next.orchard {
		return fmt.Errorf("orchard tree size %d + %d actions != %d", a.orchard, actions, next.orchard)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}
