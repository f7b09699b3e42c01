package processor

import "github.com/goodnatureofminers/lightsync/internal/model"

// StageResult is the outcome of one pipeline stage. The set of results is closed.
type StageResult interface {
	Name() string
	stageResult()
}

type (
	// AllSuccess ends a cycle that left the wallet synced with the tip.
	AllSuccess struct{}
	// RestartRequested ends a cycle that has to start over right away.
	RestartRequested struct{}
	DownloadSuccess  struct {
		Range  model.HeightRange
		Blocks int
	}
	DownloadFailed struct {
		Height model.BlockHeight
		Err    error
	}
	ScanSuccess struct {
		Summary model.ScanSummary
	}
	ScanFailed struct {
		Height model.BlockHeight
		Err    error
	}
	ContinuityError struct {
		Height model.BlockHeight
		Err    error
	}
	// DeleteSuccess reports a rewind of cache and cursor down to Height.
	DeleteSuccess struct {
		Height model.BlockHeight
	}
	DeleteFailed struct {
		Height model.BlockHeight
		Err    error
	}
	// UpdateBirthday reports that the scan cursor was initialized from the checkpoint.
	UpdateBirthday struct {
		Checkpoint model.Checkpoint
	}
	PrepareFailed struct {
		Err error
	}
	EnhanceSuccess struct {
		Fetched int
	}
	EnhanceFailed struct {
		Fetched int
		Failed  int
		Err     error
	}
)

func (AllSuccess) Name() string       { return "all_success" }
func (RestartRequested) Name() string { return "restart_requested" }
func (DownloadSuccess) Name() string  { return "download_success" }
func (DownloadFailed) Name() string   { return "download_failed" }
func (ScanSuccess) Name() string      { return "scan_success" }
func (ScanFailed) Name() string       { return "scan_failed" }
func (ContinuityError) Name() string  { return "continuity_error" }
func (DeleteSuccess) Name() string    { return "delete_success" }
func (DeleteFailed) Name() string     { return "delete_failed" }
func (UpdateBirthday) Name() string   { return "update_birthday" }
func (PrepareFailed) Name() string    { return "prepare_failed" }
func (EnhanceSuccess) Name() string   { return "enhance_success" }
func (EnhanceFailed) Name() string    { return "enhance_failed" }

func (AllSuccess) stageResult()       {}
func (RestartRequested) stageResult() {}
func (DownloadSuccess) stageResult()  {}
func (DownloadFailed) stageResult()   {}
func (ScanSuccess) stageResult()      {}
func (ScanFailed) stageResult()       {}
func (ContinuityError) stageResult()  {}
func (DeleteSuccess) stageResult()    {}
func (DeleteFailed) stageResult()     {}
func (UpdateBirthday) stageResult()   {}
func (PrepareFailed) stageResult()    {}
func (EnhanceSuccess) stageResult()   {}
func (EnhanceFailed) stageResult()    {}
