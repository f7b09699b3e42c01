package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/goodnatureofminers/lightsync/internal/model"
)

const (
	blocksDBName = "blocks"
	stateDBName  = "state"
)

// Identity names the cache of one wallet alias on one network.
type Identity struct {
	DataDir string
	Network model.Network
	Alias   model.Alias
}

// Validate rejects identities that cannot be mapped to a directory.
func (id Identity) Validate() error {
	if id.DataDir == "" {
		return errors.New("data dir is required")
	}
	if _, err := model.ParamsFor(id.Network); err != nil {
		return err
	}
	return id.Alias.Validate()
}

// Dir is the directory holding every database of the identity.
func (id Identity) Dir() string {
	return filepath.Join(id.DataDir, string(id.Network), string(id.Alias))
}

// BlocksPath is where the block cache database lives.
func (id Identity) BlocksPath() string {
	return filepath.Join(id.Dir(), blocksDBName+".db")
}

// LegacyBlocksPath is the flat layout used before caches were grouped per network.
func (id Identity) LegacyBlocksPath() string {
	return filepath.Join(id.DataDir, fmt.Sprintf("%s_%s_blocks.db", id.Alias, id.Network))
}

// Lock takes the identity's lock file so that a second process cannot open the same cache.
func Lock(id Identity) (*flock.Flock, error) {
	if err := os.MkdirAll(id.Dir(), 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w: %w", model.ErrStorage, err)
	}
	l := flock.New(filepath.Join(id.Dir(), "LOCK"))
	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock cache dir: %w: %w", model.ErrStorage, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", model.ErrCacheInUse, id.Dir())
	}
	return l, nil
}

// Relocate moves a cache from legacy to current. Nothing happens when there is no legacy cache;
// when both exist the identity is ambiguous and ErrDuplicateCache is returned.
func Relocate(legacy, current string) (bool, error) {
	legacyExists, err := exists(legacy)
	if err != nil {
		return false, err
	}
	if !legacyExists {
		return false, nil
	}
	currentExists, err := exists(current)
	if err != nil {
		return false, err
	}
	if currentExists {
		return false, fmt.Errorf("%w: %s and %s", model.ErrDuplicateCache, legacy, current)
	}
	if err := os.MkdirAll(filepath.Dir(current), 0o750); err != nil {
		return false, fmt.Errorf("create cache dir: %w: %w", model.ErrStorage, err)
	}
	if err := os.Rename(legacy, current); err != nil {
		return false, fmt.Errorf("relocate cache: %w: %w", model.ErrStorage, err)
	}
	return true, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w: %w", path, model.ErrStorage, err)
	}
}
