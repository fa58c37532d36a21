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

// TransferConfig holds configuration for a name transfer.
type TransferConfig struct {
	Common
	PrivateKey string
	Name       string
	NewOwner   common.Address
	Wait       bool
	Timeout    time.Duration
	Format     string
}

// LoadTransfer merges config file, environment variables, and flags into TransferConfig.
func LoadTransfer(cfgFile string, flags *pflag.FlagSet) (TransferConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		setCommonDefaults(v)
		v.SetDefault("set", contracts.SetNameService)
		v.SetDefault("wait", true)
		v.SetDefault("timeout", 2*time.Minute)
		v.SetDefault("format", "text")
	})
	if err != nil {
		return TransferConfig{}, err
	}

	base, err := commonFromViper(v)
	if err != nil {
		return TransferConfig{}, err
	}
	if base.Set != contracts.SetNameService {
		return TransferConfig{}, fmt.Errorf("transfer requires the %s set, got %s", contracts.SetNameService, base.Set)
	}

	owner := strings.TrimSpace(v.GetString("to"))
	if !common.IsHexAddress(owner) {
		return TransferConfig{}, fmt.Errorf("invalid new owner address: %q", owner)
	}

	cfg := TransferConfig{
		Common:     base,
		PrivateKey: v.GetString("private-key"),
		Name:       v.GetString("name"),
		NewOwner:   common.HexToAddress(owner),
		Wait:       v.GetBool("wait"),
		Timeout:    v.GetDuration("timeout"),
		Format:     strings.ToLower(v.GetString("format")),
	}
	if cfg.PrivateKey == "" {
		return TransferConfig{}, fmt.Errorf("private key is required")
	}
	if cfg.Name == "" {
		return TransferConfig{}, fmt.Errorf("name is required")
	}
	return cfg, nil
}
