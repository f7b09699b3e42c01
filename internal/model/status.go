package model

import "time"

// SyncState is the processor's detailed state.
type SyncState string

const (
	StateIdle         SyncState = "idle"
	StatePreparing    SyncState = "preparing"
	StateDownloading  SyncState = "downloading"
	StateValidating   SyncState = "validating"
	StateScanning     SyncState = "scanning"
	StateEnhancing    SyncState = "enhancing"
	StateSynced       SyncState = "synced"
	StateRewinding    SyncState = "rewinding"
	StateDisconnected SyncState = "disconnected"
	StateError        SyncState = "error"
	StateStopped      SyncState = "stopped"
)

// Phase is the coarse status exposed to embedders.
type Phase string

const (
	PhaseDisconnected Phase = "disconnected"
	PhaseDownloading  Phase = "downloading"
	PhaseValidating   Phase = "validating"
	PhaseScanning     Phase = "scanning"
	PhaseSynced       Phase = "synced"
	PhaseError        Phase = "error"
)

// Phase maps the detailed state onto the coarse status set.
func (s SyncState) Phase() Phase {
	switch s {
	case StatePreparing, StateDownloading:
		return PhaseDownloading
	case StateValidating, StateRewinding:
		return PhaseValidating
	case StateScanning, StateEnhancing:
		return PhaseScanning
	case StateSynced:
		return PhaseSynced
	case StateError:
		return PhaseError
	default:
		return PhaseDisconnected
	}
}

// SyncStatus is a snapshot of sync progress.
type SyncStatus struct {
	State             SyncState
	Progress          float64
	ChainTip          BlockHeight
	LastDownloaded    BlockHeight
	LastScanned       BlockHeight
	DownloadRange     HeightRange
	ScanRange         HeightRange
	ConsecutiveErrors int
	LastError         string
	UpdatedAt         time.Time
}
