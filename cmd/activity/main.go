package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "activity",
		Short:        "Recent name-service and DAO activity from on-chain events",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch, merge and render recent activity once",
		RunE:  runFeed,
	}
	addFeedFlags(feedCmd.Flags())
	root.AddCommand(feedCmd)

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show DAO proposal totals, vote counts and recent DAO activity",
		RunE:  runDashboard,
	}
	addCommonFlags(dashboardCmd.Flags())
	addRangeFlags(dashboardCmd.Flags())
	dashboardCmd.Flags().String("format", "text", "output format (text, json)")
	root.AddCommand(dashboardCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the activity view over HTTP with periodic refetch",
		RunE:  runServe,
	}
	addFeedFlags(serveCmd.Flags())
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("stale-time", 50*time.Second, "age after which a cached result is refetched on read")
	serveCmd.Flags().Duration("refetch-interval", 100*time.Second, "background refetch interval")
	serveCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "graceful shutdown timeout")
	root.AddCommand(serveCmd)

	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer a registered name to a new owner",
		RunE:  runTransfer,
	}
	addCommonFlags(transferCmd.Flags())
	transferCmd.Flags().String("private-key", "", "hex private key of the current owner")
	transferCmd.Flags().String("name", "", "name to transfer")
	transferCmd.Flags().String("to", "", "new owner address")
	transferCmd.Flags().Bool("wait", true, "wait for the transaction to be mined")
	transferCmd.Flags().Duration("timeout", 2*time.Minute, "overall timeout")
	transferCmd.Flags().String("format", "text", "output format (text, json)")
	root.AddCommand(transferCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("rpc", "", "RPC URL (default Celo Alfajores)")
	flags.Uint64("chain-id", 44787, "required chain id")
	flags.String("network-name", "Celo Alfajores", "display name of the required network")
	flags.String("explorer", "alfajores.celoscan.io", "block explorer host")
	flags.String("set", "", "signature set (dao, name-service)")
	flags.String("contract", "", "contract address, overrides --contracts")
	flags.String("contracts", "", "per-set contract addresses (comma-separated set=address)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

// addRangeFlags registers the account and log query flags.
func addRangeFlags(flags *pflag.FlagSet) {
	flags.String("account", "", "connected wallet address; empty means no wallet")
	flags.Uint64("from", 0, "start block (inclusive)")
	flags.Uint64("to", 0, "end block (inclusive), 0 means latest")
	flags.Uint64("batch-size", 0, "blocks per log request, 0 means one request per signature")
	flags.Int("max-retries", 0, "retry attempts per log request, 0 disables retries")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.Bool("timestamps", false, "resolve block timestamps for relative times")
}

func addFeedFlags(flags *pflag.FlagSet) {
	addCommonFlags(flags)
	addRangeFlags(flags)
	flags.Int("limit", 10, "display limit")
	flags.String("format", "text", "output format (text, json)")
	flags.String("out", "", "optional JSONL export path")
	flags.String("errors", "", "optional JSONL path for logs that failed to decode")
	flags.String("pg-dsn", "", "optional Postgres DSN for export")
	flags.Bool("resume", false, "start after the last exported block")
	flags.String("checkpoint", "./data/activity.checkpoint.json", "export checkpoint file used with --out")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
