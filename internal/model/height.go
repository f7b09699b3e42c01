// Package model holds the domain types shared by the sync pipeline.
package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goodnatureofminers/lightsync/pkg/safe"
)

// MaxBlockHeight is the largest height representable on the wire.
const MaxBlockHeight BlockHeight = math.MaxUint32

// BlockHeight is a block height in the protocol's u32 domain.
type BlockHeight uint32

// NewBlockHeight validates v against the height domain.
func NewBlockHeight(v uint64) (BlockHeight, error) {
	return HeightFrom(v)
}

// HeightFrom validates an integer of any width against the height domain.
func HeightFrom[T safe.Integer](v T) (BlockHeight, error) {
	h, err := safe.Uint32(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrHeightOutOfRange, err)
	}
	return BlockHeight(h), nil
}

// Uint64 returns the height as uint64, the width used by the wire protocol.
func (h BlockHeight) Uint64() uint64 {
	return uint64(h)
}

// Add returns h+n or an error if the result leaves the height domain.
func (h BlockHeight) Add(n uint64) (BlockHeight, error) {
	if n > uint64(MaxBlockHeight-h) {
		return 0, fmt.Errorf("%w: %d + %d", ErrHeightOutOfRange, h, n)
	}
	return h + BlockHeight(n), nil
}

// Sub returns h-n or an error if the result would be negative.
func (h BlockHeight) Sub(n uint64) (BlockHeight, error) {
	if n > uint64(h) {
		return 0, fmt.Errorf("%w: %d - %d", ErrHeightOutOfRange, h, n)
	}
	return h - BlockHeight(n), nil
}

// SubFloor returns h-n, saturating at floor.
func (h BlockHeight) SubFloor(n uint64, floor BlockHeight) BlockHeight {
	if n >= uint64(h) || h-BlockHeight(n) < floor {
		return min(floor, h)
	}
	return h - BlockHeight(n)
}

func (h BlockHeight) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
