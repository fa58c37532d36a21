package model

// DecodeError records a log that could not be normalized.
type DecodeError struct {
	ChainID     uint64 `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint64 `json:"log_index"`
	Address     string `json:"address"`
	Kind        string `json:"kind"`
	Error       string `json:"error"`
}
