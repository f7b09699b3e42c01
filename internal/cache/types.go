// Package cache holds the compact block cache contract and the wrappers shared by its backends.
package cache

import (
	"context"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store persists compact blocks keyed by height. At most one block is kept per height.
	Store interface {
		LatestHeight(ctx context.Context) (model.BlockHeight, bool, error)
		Find(ctx context.Context, height model.BlockHeight) (model.CachedBlock, bool, error)
		// Write upserts blocks.
		Write(ctx context.Context, blocks []model.CachedBlock) error
		// RewindTo deletes every block with a height above height.
		RewindTo(ctx context.Context, height model.BlockHeight) error
		Close() error
	}
)
