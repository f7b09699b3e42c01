package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// LatestHeight returns the highest cached height of the identity.
func (r *Repository) LatestHeight(ctx context.Context) (model.BlockHeight, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_height", r.network, r.alias, err, start)
	}()

	const query = `
SELECT max(height) AS max_height, count() AS blocks
FROM compact_blocks FINAL
WHERE network = ? AND alias = ?`

	rows, err := r.conn.Query(ctx, query, string(r.network), string(r.alias))
	if err != nil {
		return 0, false, storageErr("query latest height", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = storageErr("close rows", closeErr)
		}
	}()

	if !rows.Next() {
		err = storageErr("query latest height", fmt.Errorf("no rows returned"))
		return 0, false, err
	}

	var (
		height uint32
		blocks uint64
	)
	if err = rows.Scan(&height, &blocks); err != nil {
		return 0, false, storageErr("scan latest height", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, storageErr("iterate latest height", err)
	}
	if blocks == 0 {
		return 0, false, nil
	}

	return model.BlockHeight(height), true, nil
}
