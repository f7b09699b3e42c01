// Package clickhouse keeps the compact block cache in a ClickHouse table shared by many identities.
package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/lightsync/internal/model"
)

// Repository is the block cache of one (network, alias) identity.
type Repository struct {
	conn    Conn
	network model.Network
	alias   model.Alias
	metrics Metrics
}

func NewRepository(dsn string, network model.Network, alias model.Alias, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	if err := alias.Validate(); err != nil {
		return nil, err
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{
		conn:    driverConn{conn: conn},
		network: network,
		alias:   alias,
		metrics: metrics,
	}, nil
}

// Close closes the connection pool.
func (r *Repository) Close() error {
	if err := r.conn.Close(); err != nil {
		return storageErr("close clickhouse connection", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}

type driverConn struct {
	conn driver.Conn
}

func (c driverConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, query, args...)
}

func (c driverConn) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// Insert sends rows as one batch.
func (c driverConn) Insert(ctx context.Context, query string, rows [][]any) error {
	batch, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (c driverConn) Close() error {
	return c.conn.Close()
}
