package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/goodnatureofminers/lightsync/internal/cache/leveldb"
	dbm "github.com/tendermint/tm-db"
	"go.uber.org/zap"
)

// Local is the cache of an identity together with its scan-state database.
type Local struct {
	// Blocks is the confined block store for writers such as the downloader.
	Blocks *Confined
	// Reader is the unconfined store for code that already runs on Exec.
	Reader Store
	// State is the database for the scanning backend.
	State dbm.DB
	Exec  *Executor

	lock *flock.Flock
}

// OpenLocal locks the identity, relocates a legacy cache and opens the embedded block and state databases.
// lruSize <= 0 disables the in-memory block cache.
func OpenLocal(id Identity, lruSize int, logger *zap.Logger) (*Local, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	lock, err := Lock(id)
	if err != nil {
		return nil, err
	}

	moved, err := Relocate(id.LegacyBlocksPath(), id.BlocksPath())
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	if moved {
		logger.Info("relocated legacy block cache",
			zap.String("from", id.LegacyBlocksPath()),
			zap.String("to", id.BlocksPath()),
		)
	}

	blocks, err := leveldb.Open(blocksDBName, id.Dir())
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return assemble(id, lock, blocks, lruSize)
}

// OpenRemote locks the identity and opens its state database next to an external block store such as
// ClickHouse. The store is closed on failure.
func OpenRemote(id Identity, blocks Store, lruSize int) (*Local, error) {
	if err := id.Validate(); err != nil {
		_ = blocks.Close()
		return nil, err
	}
	lock, err := Lock(id)
	if err != nil {
		_ = blocks.Close()
		return nil, err
	}
	return assemble(id, lock, blocks, lruSize)
}

func assemble(id Identity, lock *flock.Flock, blocks Store, lruSize int) (*Local, error) {
	state, err := dbm.NewGoLevelDB(stateDBName, id.Dir())
	if err != nil {
		_ = blocks.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("open scan state: %w", err)
	}

	reader := blocks
	if lruSize > 0 {
		if reader, err = NewLRU(blocks, lruSize); err != nil {
			_ = blocks.Close()
			_ = state.Close()
			_ = lock.Unlock()
			return nil, err
		}
	}

	exec := NewExecutor()
	return &Local{
		Blocks: NewConfined(reader, exec),
		Reader: reader,
		State:  state,
		Exec:   exec,
		lock:   lock,
	}, nil
}

// Close closes both databases, stops the executor and releases the lock.
func (l *Local) Close() error {
	var errs []error
	if err := l.Blocks.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := l.Exec.Do(context.Background(), l.State.Close); err != nil {
		errs = append(errs, fmt.Errorf("close scan state: %w", err))
	}
	l.Exec.Close()
	if err := l.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("unlock cache dir: %w", err))
	}
	return errors.Join(errs...)
}
