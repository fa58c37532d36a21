package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"activityScope/internal/chain"
	"activityScope/internal/config"
	"activityScope/internal/transfer"
	"activityScope/internal/wallet"
)

func runTransfer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTransfer(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	key, from, err := wallet.LoadKey(cfg.PrivateKey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	transferer, err := transfer.NewTransferer(transfer.Config{
		ChainID:      cfg.ChainID,
		Contract:     cfg.Contract,
		ExplorerHost: cfg.ExplorerHost,
		Wait:         cfg.Wait,
	}, chainClient, key, logger)
	if err != nil {
		return err
	}

	logger.Info("name transfer start",
		zap.String("from", from.Hex()),
		zap.String("contract", cfg.Contract.Hex()),
		zap.String("name", cfg.Name),
		zap.String("to", cfg.NewOwner.Hex()),
	)

	res, err := transferer.Transfer(ctx, transfer.Request{Name: cfg.Name, NewOwner: cfg.NewOwner})
	if err != nil {
		// a sent transaction is reported even when it failed on chain
		if res.TxHash != (common.Hash{}) {
			if werr := writeTransfer(cmd.OutOrStdout(), cfg, res, false); werr != nil {
				logger.Warn("write transfer result", zap.Error(werr))
			}
		}
		return err
	}
	return writeTransfer(cmd.OutOrStdout(), cfg, res, true)
}

func writeTransfer(w io.Writer, cfg config.TransferConfig, res transfer.Result, ok bool) error {
	if cfg.Format == "json" {
		return json.NewEncoder(w).Encode(res)
	}
	status := "Transferred"
	if !ok {
		status = "Failed to transfer"
	}
	_, err := fmt.Fprintf(w, "%s %q to %s\nTransaction: %s\n%s\n", status, cfg.Name, cfg.NewOwner.Hex(), res.TxHash.Hex(), res.ExplorerURL)
	return err
}
