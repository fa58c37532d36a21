package normalize

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"activityScope/internal/contracts"
	"activityScope/internal/model"
)

// LogError ties a decode failure to the log that caused it.
type LogError struct {
	Kind model.Kind
	Log  types.Log
	Err  error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("%s log %s:%d: %v", e.Kind, e.Log.TxHash.Hex(), e.Log.Index, e.Err)
}

func (e *LogError) Unwrap() error { return e.Err }

// Batch normalizes every log of one signature. Logs removed by a reorg are
// skipped. The first failure fails the whole batch with a *LogError.
func Batch(sig contracts.Signature, logs []types.Log) ([]model.Event, error) {
	out := make([]model.Event, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		raw, err := Unpack(sig, log)
		if err != nil {
			return nil, &LogError{Kind: sig.Kind, Log: log, Err: err}
		}
		ev, err := Normalize(raw)
		if err != nil {
			return nil, &LogError{Kind: sig.Kind, Log: log, Err: err}
		}
		out = append(out, ev)
	}
	return out, nil
}
