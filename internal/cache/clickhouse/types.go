package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, network model.Network, alias model.Alias, err error, started time.Time)
	}
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		Exec(ctx context.Context, query string, args ...any) error
		Insert(ctx context.Context, query string, rows [][]any) error
		Close() error
	}
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close() error
	}
)
