package lightwalletd

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/zcash/lightwalletd/walletrpc"
)

// BlockStream reads one GetBlockRange response. It checks that blocks arrive in order and that the
// server sends exactly the requested range.
type BlockStream struct {
	stream   walletrpc.CompactTxStreamer_GetBlockRangeClient
	cancel   context.CancelFunc
	want     model.HeightRange
	received uint64
	started  time.Time
	metrics  Metrics
	done     bool
	err      error
}

// Next returns the next block, or io.EOF after the last one.
func (s *BlockStream) Next() (model.CachedBlock, error) {
	if s.done {
		if s.err != nil {
			return model.CachedBlock{}, s.err
		}
		return model.CachedBlock{}, io.EOF
	}

	msg, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		if s.received != s.want.Len() {
			s.finish(malformed("get block range", "stream ended after %d of %d blocks of %s", s.received, s.want.Len(), s.want))
			return model.CachedBlock{}, s.err
		}
		s.finish(nil)
		return model.CachedBlock{}, io.EOF
	}
	if err != nil {
		s.finish(classify("get block range", err))
		return model.CachedBlock{}, s.err
	}

	block, err := toCachedBlock(msg)
	if err != nil {
		s.finish(malformed("get block range", "%v", err))
		return model.CachedBlock{}, s.err
	}
	expected := uint64(s.want.Start) + s.received
	if s.received >= s.want.Len() || uint64(block.Height) != expected {
		s.finish(malformed("get block range", "got block %d, expected %d within %s", block.Height, expected, s.want))
		return model.CachedBlock{}, s.err
	}
	s.received++
	return block, nil
}

// Close abandons the stream. It is safe to call more than once.
func (s *BlockStream) Close() {
	if !s.done {
		s.finish(context.Canceled)
	}
}

func (s *BlockStream) finish(err error) {
	s.done = true
	s.err = err
	if s.cancel != nil {
		s.cancel()
	}
	if s.metrics != nil {
		s.metrics.Observe("get_block_range", err, s.started)
	}
}
