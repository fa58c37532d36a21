package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"activityScope/internal/contracts"
)

const (
	DefaultRPCURL       = "https://alfajores-forno.celo-testnet.org"
	DefaultChainID      = uint64(44787)
	DefaultNetworkName  = "Celo Alfajores"
	DefaultExplorerHost = "alfajores.celoscan.io"
)

// Common holds the settings every command shares.
type Common struct {
	RPCURL       string
	ChainID      uint64
	NetworkName  string
	ExplorerHost string
	Set          string
	Contract     common.Address
	// DAOContract backs the dashboard whatever the selected set is.
	DAOContract common.Address
	LogLevel    string
}

// FeedConfig holds configuration for a one-shot activity fetch.
type FeedConfig struct {
	Common
	Account      string
	FromBlock    uint64
	ToBlock      uint64
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
	Timestamps   bool
	Limit        int
	Format       string
	Out          string
	Errors       string
	PGDSN        string
	Resume       bool
	Checkpoint   string
}

// LoadFeed merges config file, environment variables, and flags into FeedConfig.
func LoadFeed(cfgFile string, flags *pflag.FlagSet) (FeedConfig, error) {
	v, err := newViper(cfgFile, flags, setFeedDefaults)
	if err != nil {
		return FeedConfig{}, err
	}
	return feedFromViper(v)
}

func setFeedDefaults(v *viper.Viper) {
	setCommonDefaults(v)
	v.SetDefault("batch-size", uint64(0))
	v.SetDefault("max-retries", 0)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("timestamps", false)
	v.SetDefault("limit", 10)
	v.SetDefault("format", "text")
	v.SetDefault("resume", false)
	v.SetDefault("checkpoint", "./data/activity.checkpoint.json")
}

func feedFromViper(v *viper.Viper) (FeedConfig, error) {
	base, err := commonFromViper(v)
	if err != nil {
		return FeedConfig{}, err
	}

	cfg := FeedConfig{
		Common:       base,
		Account:      strings.TrimSpace(v.GetString("account")),
		FromBlock:    v.GetUint64("from"),
		ToBlock:      v.GetUint64("to"),
		BatchSize:    v.GetUint64("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Timestamps:   v.GetBool("timestamps"),
		Limit:        v.GetInt("limit"),
		Format:       strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		Out:          v.GetString("out"),
		Errors:       v.GetString("errors"),
		PGDSN:        v.GetString("pg-dsn"),
		Resume:       v.GetBool("resume"),
		Checkpoint:   v.GetString("checkpoint"),
	}

	if cfg.ToBlock != 0 && cfg.FromBlock > cfg.ToBlock {
		return FeedConfig{}, fmt.Errorf("from block %d is after to block %d", cfg.FromBlock, cfg.ToBlock)
	}
	if cfg.Resume && cfg.Out == "" && cfg.PGDSN == "" {
		return FeedConfig{}, fmt.Errorf("resume requires an export target (out or pg-dsn)")
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return FeedConfig{}, fmt.Errorf("unsupported format: %s", cfg.Format)
	}
	return cfg, nil
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("rpc", DefaultRPCURL)
	v.SetDefault("chain-id", DefaultChainID)
	v.SetDefault("network-name", DefaultNetworkName)
	v.SetDefault("explorer", DefaultExplorerHost)
	v.SetDefault("set", contracts.SetDAO)
	v.SetDefault("log-level", "info")
}

func commonFromViper(v *viper.Viper) (Common, error) {
	cfg := Common{
		RPCURL:       strings.TrimSpace(v.GetString("rpc")),
		ChainID:      v.GetUint64("chain-id"),
		NetworkName:  v.GetString("network-name"),
		ExplorerHost: v.GetString("explorer"),
		Set:          strings.ToLower(strings.TrimSpace(v.GetString("set"))),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.RPCURL == "" {
		return Common{}, fmt.Errorf("rpc url is required")
	}

	perSet := getStringMap(v, "contracts")
	addr, err := resolveContract(cfg.Set, v.GetString("contract"), perSet)
	if err != nil {
		return Common{}, err
	}
	cfg.Contract = addr

	cfg.DAOContract = addr
	if cfg.Set != contracts.SetDAO {
		cfg.DAOContract, err = resolveContract(contracts.SetDAO, "", perSet)
		if err != nil {
			return Common{}, err
		}
	}
	return cfg, nil
}

// resolveContract picks the contract for a set: an explicit address wins,
// then the per-set map, then the built-in default.
func resolveContract(set, explicit string, perSet map[string]string) (common.Address, error) {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		raw = perSet[set]
	}
	if raw == "" && set == contracts.SetDAO {
		raw = contracts.DefaultDAOAddress
	}
	if raw == "" {
		return common.Address{}, fmt.Errorf("no contract address configured for set %s", set)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid contract address: %s", raw)
	}
	return common.HexToAddress(raw), nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ACTIVITY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[strings.ToLower(k)] = fmt.Sprintf("%v", v)
		}
		return out
	case string:
		return parseStringMap(typed)
	default:
		return map[string]string{}
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	for _, pair := range strings.Split(input, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
