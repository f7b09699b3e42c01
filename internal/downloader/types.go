package downloader

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainClient interface {
		BlockRange(ctx context.Context, r model.HeightRange) (model.BlockStream, error)
	}
	Cache interface {
		LatestHeight(ctx context.Context) (model.BlockHeight, bool, error)
		Write(ctx context.Context, blocks []model.CachedBlock) error
		RewindTo(ctx context.Context, height model.BlockHeight) error
	}
	Metrics interface {
		ObserveBatch(err error, blocks int, started time.Time)
		ObserveRetry()
	}
)
