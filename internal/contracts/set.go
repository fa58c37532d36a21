package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"activityScope/internal/model"
)

const (
	SetDAO         = "dao"
	SetNameService = "name-service"
)

// DefaultDAOAddress is the deployed DAO contract on Celo Alfajores.
const DefaultDAOAddress = "0xd3d8ec48ba24fadeab6a15a216fc8154bde2f177"

// Signature binds an event kind to its ABI definition.
type Signature struct {
	Kind  model.Kind
	Event abi.Event
}

// Topic0 returns the event selector.
func (s Signature) Topic0() common.Hash {
	return s.Event.ID
}

// Set is the contract address plus the event signatures watched on it.
type Set struct {
	Name       string
	Address    common.Address
	ABI        abi.ABI
	Signatures []Signature
}

// NewSet builds the named signature set bound to address.
func NewSet(name string, address common.Address) (*Set, error) {
	var (
		parsed abi.ABI
		kinds  []model.Kind
		err    error
	)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case SetDAO:
		parsed, err = DAOABI()
		kinds = []model.Kind{model.KindProposalCreated, model.KindProposalFulfilled, model.KindVoted}
		name = SetDAO
	case SetNameService:
		parsed, err = NameServiceABI()
		kinds = []model.Kind{model.KindNameRegistered, model.KindNameTransferred, model.KindNameUpdated}
		name = SetNameService
	default:
		return nil, fmt.Errorf("unknown signature set: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s abi: %w", name, err)
	}
	if address == (common.Address{}) {
		return nil, fmt.Errorf("contract address is required for %s", name)
	}

	sigs := make([]Signature, 0, len(kinds))
	for _, kind := range kinds {
		event, ok := parsed.Events[string(kind)]
		if !ok {
			return nil, fmt.Errorf("event %s missing from %s abi", kind, name)
		}
		sigs = append(sigs, Signature{Kind: kind, Event: event})
	}

	return &Set{
		Name:       name,
		Address:    address,
		ABI:        parsed,
		Signatures: sigs,
	}, nil
}

// ByTopic0 finds the signature whose selector matches topic0.
func (s *Set) ByTopic0(topic0 common.Hash) (Signature, bool) {
	for _, sig := range s.Signatures {
		if sig.Topic0() == topic0 {
			return sig, true
		}
	}
	return Signature{}, false
}
