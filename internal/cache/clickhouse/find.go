package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// Find returns the block cached at height.
func (r *Repository) Find(ctx context.Context, height model.BlockHeight) (model.CachedBlock, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("find", r.network, r.alias, err, start)
	}()

	const query = `
SELECT hash, prev_hash, data
FROM compact_blocks FINAL
WHERE network = ? AND alias = ? AND height = ?
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(r.network), string(r.alias), uint32(height))
	if err != nil {
		return model.CachedBlock{}, false, storageErr("query block", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = storageErr("close rows", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.CachedBlock{}, false, storageErr("iterate block", err)
		}
		return model.CachedBlock{}, false, nil
	}

	var hash, prevHash, data string
	if err = rows.Scan(&hash, &prevHash, &data); err != nil {
		return model.CachedBlock{}, false, storageErr("scan block", err)
	}
	if err = rows.Err(); err != nil {
		return model.CachedBlock{}, false, storageErr("iterate block", err)
	}

	return model.CachedBlock{
		Height:   height,
		Hash:     []byte(hash),
		PrevHash: []byte(prevHash),
		Data:     []byte(data),
	}, true, nil
}
