package model

import (
	"fmt"
	"regexp"
)

// Network names a chain the engine can follow.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// NetworkParams holds the chain constants the engine checks the server against.
type NetworkParams struct {
	Network                 Network
	ChainName               string
	SaplingActivationHeight BlockHeight
}

var networks = map[Network]NetworkParams{
	Mainnet: {Network: Mainnet, ChainName: "main", SaplingActivationHeight: 419_200},
	Testnet: {Network: Testnet, ChainName: "test", SaplingActivationHeight: 280_000},
}

// ParamsFor returns the parameters of a known network.
func ParamsFor(n Network) (NetworkParams, error) {
	p, ok := networks[n]
	if !ok {
		return NetworkParams{}, fmt.Errorf("unknown network %q", n)
	}
	return p, nil
}

// Verify checks that the server follows the same chain. An empty branchID skips the branch check.
func (p NetworkParams) Verify(info ServerInfo, branchID string) error {
	if info.ChainName != p.ChainName {
		return fmt.Errorf("%w: chain name %q, expected %q", ErrConfigMismatch, info.ChainName, p.ChainName)
	}
	if info.SaplingActivationHeight != p.SaplingActivationHeight {
		return fmt.Errorf("%w: sapling activation %d, expected %d",
			ErrConfigMismatch, info.SaplingActivationHeight, p.SaplingActivationHeight)
	}
	if branchID != "" && info.ConsensusBranchID != branchID {
		return fmt.Errorf("%w: consensus branch %q, expected %q", ErrConfigMismatch, info.ConsensusBranchID, branchID)
	}
	return nil
}

// Alias distinguishes several wallets on the same network.
type Alias string

// DefaultAlias is used when no alias is configured.
const DefaultAlias Alias = "lightsync"

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validate rejects aliases that are unsafe as path components.
func (a Alias) Validate() error {
	if !aliasPattern.MatchString(string(a)) {
		return fmt.Errorf("invalid alias %q: use 1-64 letters, digits, '_' or '-'", a)
	}
	return nil
}

// ServerInfo describes the remote server.
type ServerInfo struct {
	Version                 string
	Vendor                  string
	ChainName               string
	SaplingActivationHeight BlockHeight
	ConsensusBranchID       string
	BlockHeight             BlockHeight
	TaddrSupport            bool
}
