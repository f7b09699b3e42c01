package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionUnavailable marks transient transport failures; the sync loop backs off and reconnects.
	ErrConnectionUnavailable = errors.New("connection unavailable")
	// ErrServer marks a well-formed error reply from the remote server.
	ErrServer = errors.New("server error")
	// ErrMalformedResponse marks data from the server that cannot be decoded or is out of order.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrContinuity marks cached blocks that do not form a single linked chain.
	ErrContinuity = errors.New("chain continuity broken")
	// ErrScan marks a scanning backend failure at a specific height.
	ErrScan = errors.New("scan failed")
	// ErrConfigMismatch marks a server serving a different network than configured.
	ErrConfigMismatch = errors.New("server configuration mismatch")
	// ErrStorage marks cache or scan-state I/O failures.
	ErrStorage = errors.New("storage failure")
	// ErrReorgRepairFailed is returned once rewinding stops making progress.
	ErrReorgRepairFailed = errors.New("unable to repair chain reorganization")
	// ErrStopRequested is returned when a stop interrupts work in progress.
	ErrStopRequested = errors.New("stop requested")
	// ErrCacheInUse is returned when another process holds the cache for the same identity.
	ErrCacheInUse = errors.New("cache already in use")
	// ErrDuplicateCache is returned when a legacy and a current cache both exist for one identity.
	ErrDuplicateCache = errors.New("duplicate cache for identity")
	// ErrHeightOutOfRange is returned for heights outside the u32 domain.
	ErrHeightOutOfRange = errors.New("block height out of range")
)

// HeightError attaches the failing height to an error.
type HeightError struct {
	Height BlockHeight
	Err    error
}

func (e *HeightError) Error() string {
	return fmt.Sprintf("at height %d: %v", e.Height, e.Err)
}

func (e *HeightError) Unwrap() error {
	return e.Err
}

// NewHeightError wraps err with height.
func NewHeightError(height BlockHeight, err error) *HeightError {
	return &HeightError{Height: height, Err: err}
}

// FailedHeight extracts the height carried by err, if any.
func FailedHeight(err error) (BlockHeight, bool) {
	var he *HeightError
	if errors.As(err, &he) {
		return he.Height, true
	}
	return 0, false
}
