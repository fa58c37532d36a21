package model

import "github.com/ethereum/go-ethereum/common"

// RawLog is a chain log with its arguments decoded against a known event
// signature. Args is keyed by ABI argument name.
type RawLog struct {
	Kind        Kind
	Address     common.Address
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
	Removed     bool
	Args        map[string]interface{}
}

// Meta returns the metadata common to every event built from this log.
func (r RawLog) Meta() Meta {
	return Meta{
		Address:     r.Address,
		BlockNumber: r.BlockNumber,
		TxHash:      r.TxHash,
		LogIndex:    r.LogIndex,
	}
}
