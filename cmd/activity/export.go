package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"activityScope/internal/config"
	"activityScope/internal/feed"
	"activityScope/internal/model"
	"activityScope/internal/storage"
	"activityScope/internal/storage/postgres"
)

// exporter writes fetched activity to the configured sinks. Only records
// above the cursor are written, so repeated cycles over the same range
// append each event once.
type exporter struct {
	chainID    uint64
	contract   string
	jsonl      storage.Storage
	failures   storage.ErrorSink
	checkpoint *storage.CheckpointStore
	pg         *postgres.Store
	logger     *zap.Logger

	mu        sync.Mutex
	cursor    uint64
	hasCursor bool
}

func newExporter(ctx context.Context, cfg config.FeedConfig, logger *zap.Logger) (*exporter, error) {
	e := &exporter{
		chainID:  cfg.ChainID,
		contract: cfg.Contract.Hex(),
		logger:   logger,
	}
	if cfg.Out != "" {
		e.jsonl = storage.NewJsonlStorage(cfg.Out)
		e.checkpoint = storage.NewCheckpointStore(cfg.Checkpoint)
	}
	if cfg.Errors != "" {
		e.failures = storage.NewJsonlStorage(cfg.Errors)
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		e.pg = store
	}
	if cfg.Resume {
		from, ok, err := e.resumeFrom(ctx)
		if err != nil {
			e.Close()
			return nil, err
		}
		if ok {
			e.cursor, e.hasCursor = from-1, true
			logger.Info("export resume", zap.Uint64("last_block", e.cursor))
		}
	}
	return e, nil
}

func (e *exporter) Close() {
	if e.pg != nil {
		e.pg.Close()
	}
}

// ping reports database health; nil when Postgres is not configured.
func (e *exporter) ping() func(context.Context) error {
	if e.pg == nil {
		return nil
	}
	return e.pg.Ping
}

// resumeFrom returns the block after the last exported one, preferring the
// database cursor over the checkpoint file.
func (e *exporter) resumeFrom(ctx context.Context) (uint64, bool, error) {
	if e.pg != nil {
		last, ok, err := e.pg.LoadLastBlock(ctx, postgres.StateName(e.chainID, e.contract))
		if err != nil {
			return 0, false, fmt.Errorf("load export state: %w", err)
		}
		if ok {
			return last + 1, true, nil
		}
	}
	if e.checkpoint != nil {
		cp, ok, err := e.checkpoint.Load()
		if err != nil {
			return 0, false, err
		}
		if ok {
			return cp.LastExportedBlock + 1, true, nil
		}
	}
	return 0, false, nil
}

func (e *exporter) putEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 || (e.jsonl == nil && e.pg == nil) {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]model.EventRecord, 0, len(events))
	last := e.cursor
	for _, ev := range events {
		rec, err := model.NewEventRecord(e.chainID, ev)
		if err != nil {
			return err
		}
		if e.hasCursor && rec.BlockNumber <= e.cursor {
			continue
		}
		records = append(records, rec)
		if rec.BlockNumber > last {
			last = rec.BlockNumber
		}
	}
	if len(records) == 0 {
		return nil
	}

	if e.jsonl != nil {
		if err := e.jsonl.PutEvents(records); err != nil {
			return err
		}
		if err := e.checkpoint.Save(last); err != nil {
			return err
		}
	}
	if e.pg != nil {
		if err := e.pg.UpsertEvents(ctx, records); err != nil {
			return fmt.Errorf("upsert events: %w", err)
		}
		if err := e.pg.SaveLastBlock(ctx, postgres.StateName(e.chainID, e.contract), last); err != nil {
			return fmt.Errorf("save export state: %w", err)
		}
	}
	e.cursor, e.hasCursor = last, true
	e.logger.Info("activity exported", zap.Int("records", len(records)), zap.Uint64("last_block", last))
	return nil
}

// putFailure records the log behind a decode failure, if any.
func (e *exporter) putFailure(err error) {
	var decodeErr *feed.DecodeBatchError
	if e.failures == nil || !errors.As(err, &decodeErr) {
		return
	}
	if werr := e.failures.PutDecodeErrors([]model.DecodeError{decodeErr.Record}); werr != nil {
		e.logger.Warn("write decode error", zap.Error(werr))
	}
}

// exportingSource runs the pipeline and exports every successful cycle.
// Export failures are logged and do not fail the cycle.
type exportingSource struct {
	pipeline *feed.Pipeline
	export   *exporter
	logger   *zap.Logger
}

func (s *exportingSource) Run(ctx context.Context) ([]model.Event, error) {
	events, err := s.pipeline.Run(ctx)
	if err != nil {
		s.export.putFailure(err)
		return nil, err
	}
	if err := s.export.putEvents(ctx, events); err != nil {
		s.logger.Warn("export activity", zap.Error(err))
	}
	return events, nil
}
