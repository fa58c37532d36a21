package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"activityScope/internal/chain"
	"activityScope/internal/config"
	"activityScope/internal/feed"
	"activityScope/internal/server"
	"activityScope/internal/wallet"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
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

	export, err := newExporter(ctx, cfg.FeedConfig, logger)
	if err != nil {
		return err
	}
	defer export.Close()

	pipeline, err := newPipeline(cfg.FeedConfig, chainClient, logger)
	if err != nil {
		return err
	}
	provider, err := wallet.NewProvider(cfg.Account, chainClient)
	if err != nil {
		return err
	}

	query := feed.NewQuery(feed.QueryConfig{
		StaleTime:       cfg.StaleTime,
		RefetchInterval: cfg.RefetchInterval,
	}, &exportingSource{pipeline: pipeline, export: export, logger: logger}, logger)

	srv := server.New(server.Config{
		Addr:            cfg.Listen,
		RequiredChainID: cfg.ChainID,
		NetworkName:     cfg.NetworkName,
		ExplorerHost:    cfg.ExplorerHost,
		Limit:           cfg.Limit,
	}, query, provider, server.Checker{
		RPCPing: func(ctx context.Context) error {
			_, err := chainClient.LatestBlockNumber(ctx)
			return err
		},
		DBPing: export.ping(),
	}, logger)

	board, err := newDashboard(cfg.FeedConfig, chainClient, logger)
	if err != nil {
		return err
	}
	srv.SetDashboard(board)

	logger.Info("activity service start",
		zap.String("listen", cfg.Listen),
		zap.Duration("stale_time", cfg.StaleTime),
		zap.Duration("refetch_interval", cfg.RefetchInterval),
		zap.String("dao", cfg.DAOContract.Hex()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return query.Run(gctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("activity service stopped")
	return nil
}
