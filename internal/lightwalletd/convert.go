package lightwalletd

import (
	"fmt"
	"math"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"github.com/zcash/lightwalletd/walletrpc"
	"google.golang.org/protobuf/proto"
)

func toCachedBlock(cb *walletrpc.CompactBlock) (model.CachedBlock, error) {
	height, err := model.NewBlockHeight(cb.GetHeight())
	if err != nil {
		return model.CachedBlock{}, err
	}
	if len(cb.GetHash()) == 0 {
		return model.CachedBlock{}, fmt.Errorf("block %d has no hash", height)
	}
	data, err := proto.Marshal(cb)
	if err != nil {
		return model.CachedBlock{}, fmt.Errorf("marshal block %d: %w", height, err)
	}
	return model.CachedBlock{
		Height:   height,
		Hash:     cb.GetHash(),
		PrevHash: cb.GetPrevHash(),
		Data:     data,
	}, nil
}

func toServerInfo(info *walletrpc.LightdInfo) (model.ServerInfo, error) {
	activation, err := model.NewBlockHeight(info.GetSaplingActivationHeight())
	if err != nil {
		return model.ServerInfo{}, malformed("get lightd info", "sapling activation: %v", err)
	}
	height, err := model.NewBlockHeight(info.GetBlockHeight())
	if err != nil {
		return model.ServerInfo{}, malformed("get lightd info", "block height: %v", err)
	}
	return model.ServerInfo{
		Version:                 info.GetVersion(),
		Vendor:                  info.GetVendor(),
		ChainName:               info.GetChainName(),
		SaplingActivationHeight: activation,
		ConsensusBranchID:       info.GetConsensusBranchId(),
		BlockHeight:             height,
		TaddrSupport:            info.GetTaddrSupport(),
	}, nil
}

// toRawTransaction maps the reply height: 0 means mempool and MaxUint64 means mined off the main chain.
func toRawTransaction(id []byte, tx *walletrpc.RawTransaction) model.RawTransaction {
	raw := model.RawTransaction{ID: id, Data: tx.GetData()}
	if h := tx.GetHeight(); h != 0 && h != math.MaxUint64 {
		if height, err := model.NewBlockHeight(h); err == nil {
			raw.MinedHeight = height
		}
	}
	return raw
}
