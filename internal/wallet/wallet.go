package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChainReader reports the chain an endpoint is connected to.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Account is the connection state exposed to views.
type Account struct {
	Address   common.Address
	Connected bool
	ChainID   uint64
}

// Provider exposes the configured account and the chain it is on.
type Provider struct {
	address *common.Address
	chain   ChainReader
}

// NewProvider builds a provider. An empty address means no wallet is connected.
func NewProvider(address string, chain ChainReader) (*Provider, error) {
	p := &Provider{chain: chain}
	address = strings.TrimSpace(address)
	if address == "" {
		return p, nil
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid account address: %s", address)
	}
	addr := common.HexToAddress(address)
	p.address = &addr
	return p, nil
}

// Account returns the current connection state. The chain is only queried
// once an address is connected.
func (p *Provider) Account(ctx context.Context) (Account, error) {
	if p == nil || p.address == nil {
		return Account{}, nil
	}
	acc := Account{Address: *p.address, Connected: true}
	if p.chain == nil {
		return acc, fmt.Errorf("chain reader is nil")
	}

	id, err := p.chain.ChainID(ctx)
	if err != nil {
		return acc, fmt.Errorf("get chain id: %w", err)
	}
	if !id.IsUint64() {
		return acc, fmt.Errorf("chain id does not fit in uint64: %s", id)
	}
	acc.ChainID = id.Uint64()
	return acc, nil
}

// LoadKey parses a hex private key and returns it with its address.
func LoadKey(hexKey string) (*ecdsa.PrivateKey, common.Address, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, common.Address{}, fmt.Errorf("private key is required")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("parse private key: %w", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}
