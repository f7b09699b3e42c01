package model

import (
	"fmt"
	"iter"
)

// HeightRange is an inclusive range of heights. It is empty when End < Start.
type HeightRange struct {
	Start BlockHeight
	End   BlockHeight
}

// EmptyRange returns the canonical empty range.
func EmptyRange() HeightRange {
	return HeightRange{Start: 1, End: 0}
}

// NewHeightRange builds the range start..end.
func NewHeightRange(start, end BlockHeight) HeightRange {
	return HeightRange{Start: start, End: end}
}

// RangeAfter returns (from+1)..to, or an empty range when nothing follows from.
func RangeAfter(from, to BlockHeight) HeightRange {
	if from >= to {
		return EmptyRange()
	}
	return HeightRange{Start: from + 1, End: to}
}

// IsEmpty reports whether the range holds no heights.
func (r HeightRange) IsEmpty() bool {
	return r.End < r.Start
}

// Len returns the number of heights in the range.
func (r HeightRange) Len() uint64 {
	if r.IsEmpty() {
		return 0
	}
	return uint64(r.End) - uint64(r.Start) + 1
}

// Contains reports whether h lies inside the range.
func (r HeightRange) Contains(h BlockHeight) bool {
	return !r.IsEmpty() && r.Start <= h && h <= r.End
}

// Overlaps reports whether two ranges share at least one height.
func (r HeightRange) Overlaps(other HeightRange) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Start <= other.End && other.Start <= r.End
}

// Batches yields consecutive sub-ranges of at most size heights covering r.
func (r HeightRange) Batches(size uint32) iter.Seq[HeightRange] {
	return func(yield func(HeightRange) bool) {
		if r.IsEmpty() || size == 0 {
			return
		}
		for start := uint64(r.Start); start <= uint64(r.End); start += uint64(size) {
			end := min(start+uint64(size)-1, uint64(r.End))
			if !yield(HeightRange{Start: BlockHeight(start), End: BlockHeight(end)}) {
				return
			}
		}
	}
}

// BatchCount returns how many batches Batches(size) yields.
func (r HeightRange) BatchCount(size uint32) uint64 {
	if size == 0 {
		return 0
	}
	return (r.Len() + uint64(size) - 1) / uint64(size)
}

func (r HeightRange) String() string {
	if r.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
