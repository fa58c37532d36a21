package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"activityScope/internal/activity"
	"activityScope/internal/contracts"
	"activityScope/internal/fetch"
	"activityScope/internal/metrics"
	"activityScope/internal/model"
	"activityScope/internal/normalize"
)

const timestampConcurrency = 8

// Fetcher returns the raw logs of every signature in a set.
type Fetcher interface {
	Fetch(ctx context.Context, set *contracts.Set, rng fetch.Range) ([]fetch.Batch, error)
}

// TimestampReader resolves block times.
type TimestampReader interface {
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// PipelineConfig configures one activity pipeline.
type PipelineConfig struct {
	ChainID    uint64
	Set        *contracts.Set
	Range      fetch.Range
	Timestamps bool
}

// DecodeBatchError fails a fetch cycle because one log could not be normalized.
type DecodeBatchError struct {
	Record model.DecodeError
	Err    error
}

func (e *DecodeBatchError) Error() string {
	return fmt.Sprintf("normalize %s batch: %v", e.Record.Kind, e.Err)
}

func (e *DecodeBatchError) Unwrap() error { return e.Err }

// Pipeline runs fetch, normalize and merge for one signature set.
type Pipeline struct {
	cfg     PipelineConfig
	fetcher Fetcher
	clock   TimestampReader
	logger  *zap.Logger
}

// NewPipeline builds a Pipeline. clock may be nil when timestamps are off.
func NewPipeline(cfg PipelineConfig, fetcher Fetcher, clock TimestampReader, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, fetcher: fetcher, clock: clock, logger: logger}
}

// Name identifies the pipeline's signature set.
func (p *Pipeline) Name() string {
	if p.cfg.Set == nil {
		return ""
	}
	return p.cfg.Set.Name
}

// Run executes one fetch cycle and returns the ordered activity sequence.
// Any fetch or decode failure fails the whole cycle.
func (p *Pipeline) Run(ctx context.Context) ([]model.Event, error) {
	if p.cfg.Set == nil {
		return nil, fmt.Errorf("signature set is nil")
	}
	if p.fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}

	name := p.cfg.Set.Name
	start := time.Now()
	events, err := p.run(ctx)
	metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchCycles.WithLabelValues(name, "error").Inc()
		return nil, err
	}

	metrics.FetchCycles.WithLabelValues(name, "success").Inc()
	metrics.Events.WithLabelValues(name).Set(float64(len(events)))
	p.logger.Info("activity fetched",
		zap.String("set", name),
		zap.Int("events", len(events)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return events, nil
}

func (p *Pipeline) run(ctx context.Context) ([]model.Event, error) {
	batches, err := p.fetcher.Fetch(ctx, p.cfg.Set, p.cfg.Range)
	if err != nil {
		return nil, err
	}

	lists := make([][]model.Event, 0, len(batches))
	for _, batch := range batches {
		list, err := p.normalizeBatch(batch)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	if p.cfg.Timestamps {
		if err := p.stamp(ctx, lists); err != nil {
			return nil, err
		}
	}

	return activity.Merge(lists...), nil
}

func (p *Pipeline) normalizeBatch(batch fetch.Batch) ([]model.Event, error) {
	events, err := normalize.Batch(batch.Signature, batch.Logs)
	if err == nil {
		return events, nil
	}

	metrics.DecodeErrors.WithLabelValues(p.cfg.Set.Name, string(batch.Signature.Kind)).Inc()
	record := model.DecodeError{
		ChainID: p.cfg.ChainID,
		Address: p.cfg.Set.Address.Hex(),
		Kind:    string(batch.Signature.Kind),
		Error:   err.Error(),
	}
	var logErr *normalize.LogError
	if errors.As(err, &logErr) {
		record.BlockNumber = logErr.Log.BlockNumber
		record.TxHash = logErr.Log.TxHash.Hex()
		record.LogIndex = uint64(logErr.Log.Index)
		record.Address = logErr.Log.Address.Hex()
		record.Error = logErr.Err.Error()
	}
	p.logger.Error("normalize log", zap.Error(err), zap.Any("log", record))
	return nil, &DecodeBatchError{Record: record, Err: err}
}

// stamp fills block times in place, one lookup per distinct block.
func (p *Pipeline) stamp(ctx context.Context, lists [][]model.Event) error {
	if p.clock == nil {
		return fmt.Errorf("timestamp reader is nil")
	}

	var mu sync.Mutex
	times := make(map[uint64]uint64)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(timestampConcurrency)

	queued := make(map[uint64]struct{})
	for _, list := range lists {
		for _, ev := range list {
			block := ev.Metadata().BlockNumber
			if _, ok := queued[block]; ok {
				continue
			}
			queued[block] = struct{}{}
			g.Go(func() error {
				ts, err := p.clock.BlockTimestamp(gctx, block)
				if err != nil {
					return fmt.Errorf("block timestamp %d: %w", block, err)
				}
				mu.Lock()
				times[block] = ts
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, list := range lists {
		for i, ev := range list {
			list[i] = model.WithTimestamp(ev, times[ev.Metadata().BlockNumber])
		}
	}
	return nil
}
