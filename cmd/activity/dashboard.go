package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"activityScope/internal/chain"
	"activityScope/internal/config"
	"activityScope/internal/contracts"
	"activityScope/internal/dashboard"
	"activityScope/internal/wallet"
)

func runDashboard(cmd *cobra.Command, _ []string) error {
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

	svc, err := newDashboard(cfg, chainClient, logger)
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

	sum, sumErr := svc.Summary(ctx, acc)
	if err := writeDashboard(cmd.OutOrStdout(), cfg.Format, sum); err != nil {
		return err
	}
	return sumErr
}

// dashboardClient reads DAO events and calls DAO view functions.
type dashboardClient interface {
	pipelineClient
	bind.ContractCaller
}

// newDashboard wires a DAO pipeline and proposalCount reader, whatever set
// the feed itself is configured for.
func newDashboard(cfg config.FeedConfig, client dashboardClient, logger *zap.Logger) (*dashboard.Service, error) {
	daoCfg := cfg
	daoCfg.Set = contracts.SetDAO
	daoCfg.Contract = cfg.DAOContract

	pipeline, err := newPipeline(daoCfg, client, logger)
	if err != nil {
		return nil, err
	}
	counter, err := contracts.NewDAOCaller(cfg.DAOContract, client)
	if err != nil {
		return nil, err
	}
	return dashboard.NewService(dashboard.Config{
		RequiredChainID: cfg.ChainID,
		NetworkName:     cfg.NetworkName,
		ExplorerHost:    cfg.ExplorerHost,
	}, counter, pipeline, logger), nil
}

func writeDashboard(w io.Writer, format string, sum dashboard.Summary) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	return dashboard.RenderText(w, sum)
}
