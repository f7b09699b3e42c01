// Package leveldb keeps the compact block cache in an embedded key-value database.
package leveldb

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"
)

const (
	// key prefixes
	prefixBlock = int64(0)
	prefixEnd   = int64(1)

	deleteBatchSize = 1000
)

// Store is a block cache on top of a tm-db database.
type Store struct {
	db dbm.DB
}

// New wraps an open database. The store takes ownership and closes it on Close.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) a goleveldb database named name inside dir.
func Open(name, dir string) (*Store, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, storageErr("open cache", err)
	}
	return New(db), nil
}

// LatestHeight returns the highest cached height.
func (s *Store) LatestHeight(_ context.Context) (model.BlockHeight, bool, error) {
	iter, err := s.db.ReverseIterator(blockKey(0), blocksEnd())
	if err != nil {
		return 0, false, storageErr("latest height", err)
	}
	defer iter.Close()

	if !iter.Valid() {
		if err := iter.Error(); err != nil {
			return 0, false, storageErr("latest height", err)
		}
		return 0, false, nil
	}
	height, err := decodeBlockKey(iter.Key())
	if err != nil {
		return 0, false, storageErr("latest height", err)
	}
	return height, true, nil
}

// Find returns the block cached at height.
func (s *Store) Find(_ context.Context, height model.BlockHeight) (model.CachedBlock, bool, error) {
	value, err := s.db.Get(blockKey(height))
	if err != nil {
		return model.CachedBlock{}, false, storageErr("find block", err)
	}
	if value == nil {
		return model.CachedBlock{}, false, nil
	}
	block, err := decodeBlock(height, value)
	if err != nil {
		return model.CachedBlock{}, false, storageErr("find block", err)
	}
	return block, true, nil
}

// Write upserts blocks in a single synced batch.
func (s *Store) Write(_ context.Context, blocks []model.CachedBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, block := range blocks {
		value, err := encodeBlock(block)
		if err != nil {
			return storageErr("encode block", err)
		}
		if err := batch.Set(blockKey(block.Height), value); err != nil {
			return storageErr("write blocks", err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return storageErr("write blocks", err)
	}
	return nil
}

// RewindTo deletes every block above height. Deletion runs from the top down, so an interrupted
// rewind still leaves a contiguous cache.
func (s *Store) RewindTo(_ context.Context, height model.BlockHeight) error {
	if height == model.MaxBlockHeight {
		return nil
	}
	start := blockKey(height + 1)

	for {
		keys, err := s.highestKeys(start, deleteBatchSize)
		if err != nil {
			return storageErr("rewind", err)
		}
		if len(keys) == 0 {
			return nil
		}
		if err := s.deleteKeys(keys); err != nil {
			return storageErr("rewind", err)
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close cache", err)
	}
	return nil
}

func (s *Store) highestKeys(start []byte, limit int) ([][]byte, error) {
	iter, err := s.db.ReverseIterator(start, blocksEnd())
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	keys := make([][]byte, 0, limit)
	for ; iter.Valid() && len(keys) < limit; iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	return keys, iter.Error()
}

func (s *Store) deleteKeys(keys [][]byte) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}

//---------------------------------- KEY ENCODING -----------------------------------------

func blockKey(height model.BlockHeight) []byte {
	key, err := orderedcode.Append(nil, prefixBlock, int64(height))
	if err != nil {
		panic(err)
	}
	return key
}

func blocksEnd() []byte {
	key, err := orderedcode.Append(nil, prefixEnd)
	if err != nil {
		panic(err)
	}
	return key
}

func decodeBlockKey(key []byte) (model.BlockHeight, error) {
	var prefix, height int64
	remaining, err := orderedcode.Parse(string(key), &prefix, &height)
	if err != nil {
		return 0, err
	}
	if len(remaining) != 0 {
		return 0, fmt.Errorf("expected complete key but got remainder: %x", remaining)
	}
	if prefix != prefixBlock {
		return 0, fmt.Errorf("incorrect prefix. Expected %v, got %v", prefixBlock, prefix)
	}
	return model.HeightFrom(height)
}

func encodeBlock(block model.CachedBlock) ([]byte, error) {
	return orderedcode.Append(nil, string(block.Hash), string(block.PrevHash), string(block.Data))
}

func decodeBlock(height model.BlockHeight, value []byte) (model.CachedBlock, error) {
	var hash, prevHash, data string
	remaining, err := orderedcode.Parse(string(value), &hash, &prevHash, &data)
	if err != nil {
		return model.CachedBlock{}, fmt.Errorf("decode block %d: %w", height, err)
	}
	if len(remaining) != 0 {
		return model.CachedBlock{}, fmt.Errorf("decode block %d: trailing bytes", height)
	}
	return model.CachedBlock{
		Height:   height,
		Hash:     []byte(hash),
		PrevHash: []byte(prevHash),
		Data:     []byte(data),
	}, nil
}
