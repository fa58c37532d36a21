package normalize

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"

	"activityScope/internal/contracts"
	"activityScope/internal/model"
)

// Unpack decodes a chain log against sig into a RawLog argument bag.
func Unpack(sig contracts.Signature, log types.Log) (model.RawLog, error) {
	if len(log.Topics) == 0 {
		return model.RawLog{}, fmt.Errorf("missing topics")
	}
	if log.Topics[0] != sig.Topic0() {
		return model.RawLog{}, fmt.Errorf("topic0 %s does not match %s", log.Topics[0].Hex(), sig.Kind)
	}

	indexed := indexedArguments(sig.Event.Inputs)
	if len(log.Topics) != len(indexed)+1 {
		return model.RawLog{}, fmt.Errorf("expected %d topics, got %d", len(indexed)+1, len(log.Topics))
	}

	args := make(map[string]interface{}, len(sig.Event.Inputs))
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
			return model.RawLog{}, fmt.Errorf("parse topics: %w", err)
		}
	}
	if nonIndexed := sig.Event.Inputs.NonIndexed(); len(nonIndexed) > 0 {
		if err := nonIndexed.UnpackIntoMap(args, log.Data); err != nil {
			return model.RawLog{}, fmt.Errorf("unpack %s: %w", sig.Event.Name, err)
		}
	}

	return model.RawLog{
		Kind:        sig.Kind,
		Address:     log.Address,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
		Removed:     log.Removed,
		Args:        args,
	}, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
