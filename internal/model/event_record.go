package model

import (
	"fmt"
	"math/big"
)

// EventRecord is the flat JSON/SQL representation of a normalized event.
type EventRecord struct {
	ChainID     uint64      `json:"chain_id"`
	Contract    string      `json:"contract"`
	Kind        Kind        `json:"kind"`
	BlockNumber uint64      `json:"block_number"`
	TxHash      string      `json:"tx_hash"`
	LogIndex    uint64      `json:"log_index"`
	Timestamp   *uint64     `json:"timestamp,omitempty"`
	Decoded     interface{} `json:"decoded"`
}

// ProposalCreatedData is the exported ProposalCreated payload.
type ProposalCreatedData struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// ProposalFulfilledData is the exported ProposalFulfilled payload.
type ProposalFulfilledData struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
}

// VotedData is the exported Voted payload.
type VotedData struct {
	ID      string `json:"id"`
	Voter   string `json:"voter"`
	State   uint8  `json:"state"`
	Comment string `json:"comment"`
}

// NameRegisteredData is the exported NameRegistered payload.
type NameRegisteredData struct {
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	ImageHash string `json:"image_hash"`
}

// NameTransferredData is the exported NameTransferred payload.
type NameTransferredData struct {
	Name     string `json:"name"`
	OldOwner string `json:"old_owner"`
	NewOwner string `json:"new_owner"`
}

// NameUpdatedData is the exported NameUpdated payload.
type NameUpdatedData struct {
	Name         string `json:"name"`
	NewAddress   string `json:"new_address"`
	NewImageHash string `json:"new_image_hash"`
}

// NewEventRecord flattens an event for export. Big integers are encoded as
// decimal strings.
func NewEventRecord(chainID uint64, e Event) (EventRecord, error) {
	meta := e.Metadata()
	rec := EventRecord{
		ChainID:     chainID,
		Contract:    meta.Address.Hex(),
		Kind:        e.Kind(),
		BlockNumber: meta.BlockNumber,
		TxHash:      meta.TxHash.Hex(),
		LogIndex:    uint64(meta.LogIndex),
		Timestamp:   meta.Timestamp,
	}

	switch ev := e.(type) {
	case ProposalCreated:
		rec.Decoded = ProposalCreatedData{
			ID:          bigString(ev.ID),
			Description: ev.Description,
			Deadline:    bigString(ev.Deadline),
		}
	case ProposalFulfilled:
		rec.Decoded = ProposalFulfilledData{
			ID:          bigString(ev.ID),
			Description: ev.Description,
			Recipient:   ev.Recipient.Hex(),
			Amount:      bigString(ev.Amount),
		}
	case Voted:
		rec.Decoded = VotedData{
			ID:      bigString(ev.ID),
			Voter:   ev.Voter.Hex(),
			State:   uint8(ev.State),
			Comment: ev.Comment,
		}
	case NameRegistered:
		rec.Decoded = NameRegisteredData{
			Name:      ev.Name,
			Owner:     ev.Owner.Hex(),
			ImageHash: ev.ImageHash,
		}
	case NameTransferred:
		rec.Decoded = NameTransferredData{
			Name:     ev.Name,
			OldOwner: ev.OldOwner.Hex(),
			NewOwner: ev.NewOwner.Hex(),
		}
	case NameUpdated:
		rec.Decoded = NameUpdatedData{
			Name:         ev.Name,
			NewAddress:   ev.NewAddress.Hex(),
			NewImageHash: ev.NewImageHash,
		}
	default:
		return EventRecord{}, fmt.Errorf("unsupported event kind: %s", e.Kind())
	}

	return rec, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
