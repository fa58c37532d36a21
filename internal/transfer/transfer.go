package transfer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"activityScope/internal/contracts"
	"activityScope/internal/present"
)

var (
	ErrWrongChain = errors.New("connected to the wrong chain")
	ErrTxFailed   = errors.New("transaction failed")
)

// RevertError carries the reason a simulated call reverted.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("execution reverted: %v", e.Err)
	}
	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error { return e.Err }

// Backend is the subset of the chain client used to submit a transfer.
type Backend interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type Config struct {
	ChainID      uint64
	Contract     common.Address
	ExplorerHost string
	Wait         bool
}

// Request names the name and the address it moves to.
type Request struct {
	Name     string
	NewOwner common.Address
}

type Result struct {
	TxHash      common.Hash    `json:"txHash"`
	ExplorerURL string         `json:"explorerUrl"`
	Receipt     *types.Receipt `json:"receipt,omitempty"`
}

type Transferer struct {
	cfg     Config
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address
	logger  *zap.Logger
}

func NewTransferer(cfg Config, backend Backend, key *ecdsa.PrivateKey, logger *zap.Logger) (*Transferer, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if key == nil {
		return nil, fmt.Errorf("private key is nil")
	}
	if cfg.Contract == (common.Address{}) {
		return nil, fmt.Errorf("contract address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transferer{
		cfg:     cfg,
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		logger:  logger,
	}, nil
}

// From is the sending account.
func (t *Transferer) From() common.Address { return t.from }

// Transfer simulates, signs and sends transferName. With Wait set it blocks
// until the transaction is mined.
func (t *Transferer) Transfer(ctx context.Context, req Request) (Result, error) {
	name := req.Name
	if strings.TrimSpace(name) == "" {
		return Result{}, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(name) != name {
		// names are matched byte for byte on chain
		return Result{}, fmt.Errorf("name %q has surrounding whitespace", name)
	}
	if req.NewOwner == (common.Address{}) {
		return Result{}, fmt.Errorf("new owner is required")
	}

	chainID, err := t.backend.ChainID(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != t.cfg.ChainID {
		return Result{}, fmt.Errorf("%w: want %d, got %s", ErrWrongChain, t.cfg.ChainID, chainID)
	}

	parsed, err := contracts.NameServiceABI()
	if err != nil {
		return Result{}, fmt.Errorf("parse abi: %w", err)
	}
	input, err := parsed.Pack("transferName", name, req.NewOwner)
	if err != nil {
		return Result{}, fmt.Errorf("pack transferName: %w", err)
	}

	msg := ethereum.CallMsg{From: t.from, To: &t.cfg.Contract, Data: input}
	if _, err := t.backend.CallContract(ctx, msg, nil); err != nil {
		return Result{}, revertError(err)
	}

	tx, err := t.buildTx(ctx, chainID, msg)
	if err != nil {
		return Result{}, err
	}
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), t.key)
	if err != nil {
		return Result{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return Result{}, fmt.Errorf("send tx: %w", err)
	}

	res := Result{
		TxHash:      signed.Hash(),
		ExplorerURL: present.TxURL(t.cfg.ExplorerHost, signed.Hash().Hex()),
	}
	t.logger.Info("name transfer sent",
		zap.String("name", name),
		zap.String("new_owner", req.NewOwner.Hex()),
		zap.String("tx", res.TxHash.Hex()),
	)
	if !t.cfg.Wait {
		return res, nil
	}

	receipt, err := bind.WaitMined(ctx, t.backend, signed)
	if err != nil {
		return res, fmt.Errorf("wait for receipt: %w", err)
	}
	res.Receipt = receipt
	if receipt.Status != types.ReceiptStatusSuccessful {
		return res, fmt.Errorf("%w: %s in block %s", ErrTxFailed, res.TxHash.Hex(), receipt.BlockNumber)
	}
	t.logger.Info("name transfer mined",
		zap.String("tx", res.TxHash.Hex()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return res, nil
}

func (t *Transferer) buildTx(ctx context.Context, chainID *big.Int, msg ethereum.CallMsg) (*types.Transaction, error) {
	nonce, err := t.backend.PendingNonceAt(ctx, t.from)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}
	gas, err := t.backend.EstimateGas(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	tip, err := t.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas tip: %w", err)
	}
	head, err := t.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head: %w", err)
	}

	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        msg.To,
		Data:      msg.Data,
	}), nil
}

// revertError classifies a failed simulation. Node errors carrying revert
// data or an "execution reverted" message become a *RevertError.
func revertError(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if raw, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(raw); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return &RevertError{Reason: reason, Err: err}
				}
			}
		}
		return &RevertError{Err: err}
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return &RevertError{Err: err}
	}
	return fmt.Errorf("simulate transferName: %w", err)
}
