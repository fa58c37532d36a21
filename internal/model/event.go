package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind is the discriminant of a normalized event.
type Kind string

const (
	KindProposalCreated   Kind = "ProposalCreated"
	KindProposalFulfilled Kind = "ProposalFulfilled"
	KindVoted             Kind = "Voted"
	KindNameRegistered    Kind = "NameRegistered"
	KindNameTransferred   Kind = "NameTransferred"
	KindNameUpdated       Kind = "NameUpdated"
)

// AllKinds lists every known event kind.
var AllKinds = []Kind{
	KindProposalCreated,
	KindProposalFulfilled,
	KindVoted,
	KindNameRegistered,
	KindNameTransferred,
	KindNameUpdated,
}

// ProposalState is the vote outcome carried by a Voted event.
type ProposalState uint8

const (
	ProposalPending  ProposalState = 0
	ProposalApproved ProposalState = 1
	ProposalRejected ProposalState = 2
)

func (s ProposalState) String() string {
	switch s {
	case ProposalApproved:
		return "approved"
	case ProposalRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Meta is the metadata shared by every normalized event.
type Meta struct {
	Address     common.Address
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
	// Timestamp is the block time in unix seconds, nil when not fetched.
	Timestamp *uint64
}

// Metadata returns the common metadata.
func (m Meta) Metadata() Meta { return m }

// Key identifies an event within one fetch.
func (m Meta) Key() EventKey {
	return EventKey{TxHash: m.TxHash, LogIndex: m.LogIndex}
}

// EventKey is the (transaction hash, log index) identity of an event.
type EventKey struct {
	TxHash   common.Hash
	LogIndex uint
}

// Event is a normalized on-chain event. The set of implementations is closed
// to this package.
type Event interface {
	Kind() Kind
	Metadata() Meta
	isEvent()
}

type ProposalCreated struct {
	Meta
	ID          *big.Int
	Description string
	Deadline    *big.Int
}

type ProposalFulfilled struct {
	Meta
	ID          *big.Int
	Description string
	Recipient   common.Address
	Amount      *big.Int
}

type Voted struct {
	Meta
	ID      *big.Int
	Voter   common.Address
	State   ProposalState
	Comment string
}

type NameRegistered struct {
	Meta
	Name      string
	Owner     common.Address
	ImageHash string
}

type NameTransferred struct {
	Meta
	Name     string
	OldOwner common.Address
	NewOwner common.Address
}

type NameUpdated struct {
	Meta
	Name         string
	NewAddress   common.Address
	NewImageHash string
}

func (ProposalCreated) Kind() Kind   { return KindProposalCreated }
func (ProposalFulfilled) Kind() Kind { return KindProposalFulfilled }
func (Voted) Kind() Kind             { return KindVoted }
func (NameRegistered) Kind() Kind    { return KindNameRegistered }
func (NameTransferred) Kind() Kind   { return KindNameTransferred }
func (NameUpdated) Kind() Kind       { return KindNameUpdated }

func (ProposalCreated) isEvent()   {}
func (ProposalFulfilled) isEvent() {}
func (Voted) isEvent()             {}
func (NameRegistered) isEvent()    {}
func (NameTransferred) isEvent()   {}
func (NameUpdated) isEvent()       {}

// WithTimestamp returns a copy of e carrying the given block time.
func WithTimestamp(e Event, ts uint64) Event {
	switch ev := e.(type) {
	case ProposalCreated:
		ev.Timestamp = &ts
		return ev
	case ProposalFulfilled:
		ev.Timestamp = &ts
		return ev
	case Voted:
		ev.Timestamp = &ts
		return ev
	case NameRegistered:
		ev.Timestamp = &ts
		return ev
	case NameTransferred:
		ev.Timestamp = &ts
		return ev
	case NameUpdated:
		ev.Timestamp = &ts
		return ev
	default:
		return e
	}
}
