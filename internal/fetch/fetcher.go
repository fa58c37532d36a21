package fetch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"activityScope/internal/contracts"
	"activityScope/internal/metrics"
)

// Client is the subset of the chain client used by the fetcher.
type Client interface {
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// Config controls request shaping.
type Config struct {
	// BatchSize splits the range into block windows; 0 issues one request per
	// signature over the whole range.
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Batch holds the logs returned for one signature.
type Batch struct {
	Signature contracts.Signature
	Logs      []types.Log
}

// Fetcher issues one logical log query per event signature, concurrently.
type Fetcher struct {
	cfg    Config
	client Client
	logger *zap.Logger
}

// NewFetcher builds a Fetcher with its dependencies.
func NewFetcher(cfg Config, client Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, client: client, logger: logger}
}

// Fetch returns, per signature of set, every matching log in rng. Any failed
// query fails the whole call; no partial batches are returned.
func (f *Fetcher) Fetch(ctx context.Context, set *contracts.Set, rng Range) ([]Batch, error) {
	if f.client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if set == nil || len(set.Signatures) == 0 {
		return nil, fmt.Errorf("signature set is empty")
	}

	windows, err := f.resolve(ctx, rng)
	if err != nil {
		return nil, err
	}

	batches := make([]Batch, len(set.Signatures))
	g, gctx := errgroup.WithContext(ctx)
	for i, sig := range set.Signatures {
		i, sig := i, sig
		g.Go(func() error {
			logs, err := f.fetchSignature(gctx, set, sig, windows)
			if err != nil {
				return fmt.Errorf("fetch %s logs: %w", sig.Kind, err)
			}
			batches[i] = Batch{Signature: sig, Logs: logs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return batches, nil
}

func (f *Fetcher) resolve(ctx context.Context, rng Range) ([]Range, error) {
	if f.cfg.BatchSize == 0 || rng.To != 0 {
		return Windows(rng, rng.To, f.cfg.BatchSize)
	}
	latest, err := f.client.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}
	return Windows(rng, latest, f.cfg.BatchSize)
}

func (f *Fetcher) fetchSignature(ctx context.Context, set *contracts.Set, sig contracts.Signature, windows []Range) ([]types.Log, error) {
	var all []types.Log
	for _, w := range windows {
		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(w.From),
			Addresses: []common.Address{set.Address},
			Topics:    [][]common.Hash{{sig.Topic0()}},
		}
		if w.To != 0 {
			query.ToBlock = new(big.Int).SetUint64(w.To)
		}

		logs, err := f.filterLogsWithRetry(ctx, set.Name, sig, query)
		if err != nil {
			return nil, err
		}
		all = append(all, logs...)
	}

	f.logger.Debug("signature fetched",
		zap.String("set", set.Name),
		zap.String("kind", string(sig.Kind)),
		zap.Int("logs", len(all)),
	)
	return all, nil
}

func (f *Fetcher) filterLogsWithRetry(ctx context.Context, setName string, sig contracts.Signature, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, f.cfg.MaxRetries, f.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		metrics.LogRequests.WithLabelValues(setName, string(sig.Kind)).Inc()
		logs, err = f.client.FilterLogs(ctx, query)
		return err
	}, func(attempt int, err error) {
		metrics.LogRequestErrors.WithLabelValues(setName, string(sig.Kind)).Inc()
		f.logger.Warn("filter logs failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("kind", string(sig.Kind)),
			zap.Stringer("from", query.FromBlock),
		)
	})
	return logs, err
}
