package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// DAOCaller reads view functions of the DAO contract.
type DAOCaller struct {
	contract *bind.BoundContract
}

func NewDAOCaller(address common.Address, caller bind.ContractCaller) (*DAOCaller, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("dao address is required")
	}
	if caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	parsed, err := DAOABI()
	if err != nil {
		return nil, fmt.Errorf("parse dao abi: %w", err)
	}
	return &DAOCaller{contract: bind.NewBoundContract(address, parsed, caller, nil, nil)}, nil
}

// ProposalCount returns the number of proposals ever created.
func (c *DAOCaller) ProposalCount(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "proposalCount"); err != nil {
		return nil, fmt.Errorf("call proposalCount: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("proposalCount returned %d values", len(out))
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("proposalCount returned %T", out[0])
	}
	return count, nil
}
