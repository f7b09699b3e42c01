package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// Write upserts blocks. Replaced versions collapse on merge and are hidden by FINAL reads.
func (r *Repository) Write(ctx context.Context, blocks []model.CachedBlock) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("write", r.network, r.alias, err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	const query = `
INSERT INTO compact_blocks (
	network,
	alias,
	height,
	hash,
	prev_hash,
	data,
	inserted_at
) VALUES`

	now := time.Now().UTC()
	rows := make([][]any, 0, len(blocks))
	for _, block := range blocks {
		rows = append(rows, []any{
			string(r.network),
			string(r.alias),
			uint32(block.Height),
			string(block.Hash),
			string(block.PrevHash),
			string(block.Data),
			now,
		})
	}

	if err = r.conn.Insert(ctx, query, rows); err != nil {
		return storageErr("insert blocks", err)
	}
	return nil
}
