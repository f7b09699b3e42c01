package processor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainClient interface {
		LatestBlock(ctx context.Context) (model.ChainTip, error)
		ServerInfo(ctx context.Context) (model.ServerInfo, error)
		FetchTransaction(ctx context.Context, id []byte) (model.RawTransaction, error)
		Reconnect() error
		Shutdown()
	}
	Downloader interface {
		DownloadRange(ctx context.Context, r model.HeightRange, progress func(batch model.HeightRange, written int) error) (int, error)
		RewindToHeight(ctx context.Context, height model.BlockHeight) error
		LastDownloadedHeight(ctx context.Context) (model.BlockHeight, bool, error)
		BatchSize() uint32
	}
	ScanningBackend interface {
		Initialize(ctx context.Context, cp model.Checkpoint) error
		ScanCursor(ctx context.Context) (model.BlockHeight, bool, error)
		ValidateContinuity(ctx context.Context, r model.HeightRange) error
		Scan(ctx context.Context, r model.HeightRange) (model.ScanSummary, error)
		RewindScanCursor(ctx context.Context, height model.BlockHeight) error
	}
	// TransactionStore is implemented by backends that keep enhanced transactions.
	TransactionStore interface {
		StoreTransaction(ctx context.Context, tx model.RawTransaction) error
	}
	Metrics interface {
		ObserveCycle(result string, started time.Time)
		ObserveStatus(s model.SyncStatus)
		ObserveRewind(failedAt, target model.BlockHeight)
		ObserveEnhance(fetched, failed int)
	}
)
