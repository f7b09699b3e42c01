package cache

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU keeps recently written or read blocks in memory in front of a store.
type LRU struct {
	Store
	blocks *lru.Cache[model.BlockHeight, model.CachedBlock]
}

// NewLRU wraps store with a read-through cache holding up to size blocks.
func NewLRU(store Store, size int) (*LRU, error) {
	blocks, err := lru.New[model.BlockHeight, model.CachedBlock](size)
	if err != nil {
		return nil, fmt.Errorf("create block lru: %w", err)
	}
	return &LRU{Store: store, blocks: blocks}, nil
}

func (c *LRU) Find(ctx context.Context, height model.BlockHeight) (model.CachedBlock, bool, error) {
	if block, ok := c.blocks.Get(height); ok {
		return block, true, nil
	}
	block, ok, err := c.Store.Find(ctx, height)
	if err != nil || !ok {
		return block, ok, err
	}
	c.blocks.Add(height, block)
	return block, true, nil
}

func (c *LRU) Write(ctx context.Context, blocks []model.CachedBlock) error {
	if err := c.Store.Write(ctx, blocks); err != nil {
		for _, block := range blocks {
			c.blocks.Remove(block.Height)
		}
		return err
	}
	for _, block := range blocks {
		c.blocks.Add(block.Height, block)
	}
	return nil
}

// RewindTo evicts cached entries above height before rewinding the store.
func (c *LRU) RewindTo(ctx context.Context, height model.BlockHeight) error {
	for _, h := range c.blocks.Keys() {
		if h > height {
			c.blocks.Remove(h)
		}
	}
	return c.Store.RewindTo(ctx, height)
}
