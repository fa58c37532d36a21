package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"activityScope/internal/chain"
	"activityScope/internal/config"
	"activityScope/internal/contracts"
	"activityScope/internal/feed"
	"activityScope/internal/fetch"
	"activityScope/internal/view"
	"activityScope/internal/wallet"
)

func runFeed(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFeed(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	export, err := newExporter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer export.Close()

	pipeline, err := newPipeline(cfg, chainClient, logger)
	if err != nil {
		return err
	}
	provider, err := wallet.NewProvider(cfg.Account, chainClient)
	if err != nil {
		return err
	}

	acc, err := provider.Account(ctx)
	if err != nil {
		logger.Warn("read account", zap.Error(err))
	}

	result := feed.Result{Status: feed.StatusIdle}
	var cycleErr error
	if acc.Connected && acc.ChainID == cfg.ChainID {
		events, err := pipeline.Run(ctx)
		if err != nil {
			export.putFailure(err)
			cycleErr = err
			result = feed.Result{Status: feed.StatusError, Err: err, UpdatedAt: time.Now()}
		} else {
			result = feed.Result{Status: feed.StatusSuccess, Events: events, UpdatedAt: time.Now()}
			if err := export.putEvents(ctx, events); err != nil {
				return fmt.Errorf("export activity: %w", err)
			}
		}
	}

	snap := view.Evaluate(view.Input{
		Account:         acc,
		RequiredChainID: cfg.ChainID,
		NetworkName:     cfg.NetworkName,
		Result:          result,
		Limit:           cfg.Limit,
		ExplorerHost:    cfg.ExplorerHost,
		Now:             time.Now(),
	})
	if err := writeSnapshot(cmd.OutOrStdout(), cfg.Format, snap); err != nil {
		return err
	}
	return cycleErr
}

// pipelineClient is what a pipeline needs from the chain client.
type pipelineClient interface {
	fetch.Client
	feed.TimestampReader
}

// newPipeline resolves the signature set and range and wires the fetcher.
func newPipeline(cfg config.FeedConfig, client pipelineClient, logger *zap.Logger) (*feed.Pipeline, error) {
	set, err := contracts.NewSet(cfg.Set, cfg.Contract)
	if err != nil {
		return nil, err
	}

	// Resume only moves the export cursor; the view always covers the
	// configured range.
	rng := fetch.Range{From: cfg.FromBlock, To: cfg.ToBlock}

	fetcher := fetch.NewFetcher(fetch.Config{
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, client, logger)

	logger.Info("activity pipeline",
		zap.String("rpc", cfg.RPCURL),
		zap.String("set", set.Name),
		zap.String("contract", set.Address.Hex()),
		zap.Uint64("from", rng.From),
		zap.Uint64("to", rng.To),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.Bool("timestamps", cfg.Timestamps),
	)

	return feed.NewPipeline(feed.PipelineConfig{
		ChainID:    cfg.ChainID,
		Set:        set,
		Range:      rng,
		Timestamps: cfg.Timestamps,
	}, fetcher, client, logger), nil
}

func writeSnapshot(w io.Writer, format string, snap view.Snapshot) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return view.RenderText(w, snap)
}
