package model

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CachedBlock is a compact block as persisted in the block cache.
type CachedBlock struct {
	Height   BlockHeight
	Hash     []byte
	PrevHash []byte
	// Data is the serialized compact block.
	Data []byte
}

// ChainTip is the server's current best block.
type ChainTip struct {
	Height BlockHeight
	Hash   []byte
}

// RawTransaction is a full transaction as returned by the server.
type RawTransaction struct {
	ID   []byte
	Data []byte
	// MinedHeight is zero for transactions that are not mined on the main chain.
	MinedHeight BlockHeight
}

// TxRef points at a transaction discovered while scanning.
type TxRef struct {
	ID          []byte
	MinedHeight BlockHeight
}

// SendResult is the server's verdict on a submitted transaction. Code 0 means accepted.
type SendResult struct {
	Code    int32
	Message string
}

// Accepted reports whether the server accepted the transaction.
func (r SendResult) Accepted() bool {
	return r.Code == 0
}

// ScanSummary describes the outcome of scanning a range.
type ScanSummary struct {
	Range        HeightRange
	Blocks       uint64
	Transactions uint64
	Discovered   []TxRef
}

// HashString renders a block or transaction hash in display (byte-reversed) order.
func HashString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	h, err := chainhash.NewHash(b)
	if err != nil {
		return hex.EncodeToString(b)
	}
	return h.String()
}

// ParseHash decodes a display-order hash string into wire byte order.
func ParseHash(s string) ([]byte, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, err
	}
	return h.CloneBytes(), nil
}

// BlockStream yields blocks in ascending height order. Next returns io.EOF after the last block.
// A stream is consumed once and must be closed.
type BlockStream interface {
	Next() (CachedBlock, error)
	Close()
}
