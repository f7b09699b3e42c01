package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// RewindTo deletes every block of the identity above height.
func (r *Repository) RewindTo(ctx context.Context, height model.BlockHeight) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("rewind_to", r.network, r.alias, err, start)
	}()

	const query = `
DELETE FROM compact_blocks
WHERE network = ? AND alias = ? AND height > ?`

	if err = r.conn.Exec(ctx, query, string(r.network), string(r.alias), uint32(height)); err != nil {
		return storageErr("delete blocks", err)
	}
	return nil
}
