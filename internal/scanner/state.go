package scanner

import (
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"
)

const (
	// key prefixes
	prefixCursor     = int64(0)
	prefixCheckpoint = int64(1)
	prefixTx         = int64(2)
	prefixEnd        = int64(3)

	unknownSize = int64(-1)
)

// anchor is the last block a range has to link onto.
type anchor struct {
	height  model.BlockHeight
	hash    []byte
	sapling int64
	orchard int64
}

func cursorKey() []byte {
	return mustKey(prefixCursor)
}

func checkpointKey() []byte {
	return mustKey(prefixCheckpoint)
}

func txKey(height model.BlockHeight, id []byte) []byte {
	return mustKey(prefixTx, int64(height), string(id))
}

func txHeightKey(height model.BlockHeight) []byte {
	return mustKey(prefixTx, int64(height))
}

func txEnd() []byte {
	return mustKey(prefixEnd)
}

func mustKey(items ...any) []byte {
	key, err := orderedcode.Append(nil, items...)
	if err != nil {
		panic(err)
	}
	return key
}

func encodeAnchor(a anchor) []byte {
	return mustKey(int64(a.height), string(a.hash), a.sapling, a.orchard)
}

func decodeAnchor(value []byte) (anchor, error) {
	var (
		height           int64
		hash             string
		sapling, orchard int64
	)
	remaining, err := orderedcode.Parse(string(value), &height, &hash, &sapling, &orchard)
	if err != nil {
		return anchor{}, err
	}
	if len(remaining) != 0 {
		return anchor{}, fmt.Errorf("trailing bytes in anchor: %x", remaining)
	}
	h, err := model.HeightFrom(height)
	if err != nil {
		return anchor{}, err
	}
	a := anchor{height: h, sapling: sapling, orchard: orchard}
	if hash != "" {
		a.hash = []byte(hash)
	}
	return a, nil
}

func loadAnchor(db dbm.DB, key []byte) (anchor, bool, error) {
	value, err := db.Get(key)
	if err != nil {
		return anchor{}, false, err
	}
	if value == nil {
		return anchor{}, false, nil
	}
	a, err := decodeAnchor(value)
	if err != nil {
		return anchor{}, false, err
	}
	return a, true, nil
}
