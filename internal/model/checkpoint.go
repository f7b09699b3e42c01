package model

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Checkpoint is a trusted block from which syncing starts. Nothing below it is ever downloaded or scanned.
type Checkpoint struct {
	Network     Network
	Height      BlockHeight
	Hash        []byte
	Time        time.Time
	SaplingTree string
	OrchardTree string
}

type checkpointFile struct {
	Network     string `json:"network"`
	Height      uint64 `json:"height,string"`
	Hash        string `json:"hash"`
	Time        int64  `json:"time"`
	SaplingTree string `json:"saplingTree"`
	OrchardTree string `json:"orchardTree,omitempty"`
}

// DefaultCheckpoint starts at the sapling activation height of the network.
func DefaultCheckpoint(p NetworkParams) Checkpoint {
	return Checkpoint{Network: p.Network, Height: p.SaplingActivationHeight}
}

// LoadCheckpoint decodes a checkpoint file and checks it belongs to the expected network.
func LoadCheckpoint(r io.Reader, p NetworkParams) (Checkpoint, error) {
	var raw checkpointFile
	if err := jsoniter.NewDecoder(r).Decode(&raw); err != nil {
		return Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	if raw.Network != "" && Network(raw.Network) != p.Network {
		return Checkpoint{}, fmt.Errorf("%w: checkpoint for %q, expected %q", ErrConfigMismatch, raw.Network, p.Network)
	}
	height, err := NewBlockHeight(raw.Height)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint height: %w", err)
	}
	if height < p.SaplingActivationHeight {
		return Checkpoint{}, fmt.Errorf("checkpoint height %d below sapling activation %d", height, p.SaplingActivationHeight)
	}

	cp := Checkpoint{
		Network:     p.Network,
		Height:      height,
		SaplingTree: raw.SaplingTree,
		OrchardTree: raw.OrchardTree,
	}
	if raw.Time > 0 {
		cp.Time = time.Unix(raw.Time, 0).UTC()
	}
	if raw.Hash != "" {
		if cp.Hash, err = ParseHash(raw.Hash); err != nil {
			return Checkpoint{}, fmt.Errorf("checkpoint hash: %w", err)
		}
	}
	return cp, nil
}
