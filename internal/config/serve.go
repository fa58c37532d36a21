package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServeConfig holds configuration for the HTTP activity service.
type ServeConfig struct {
	FeedConfig
	Listen          string
	StaleTime       time.Duration
	RefetchInterval time.Duration
	ShutdownTimeout time.Duration
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		setFeedDefaults(v)
		v.SetDefault("listen", ":8080")
		v.SetDefault("stale-time", 50*time.Second)
		v.SetDefault("refetch-interval", 100*time.Second)
		v.SetDefault("shutdown-timeout", 5*time.Second)
	})
	if err != nil {
		return ServeConfig{}, err
	}

	feed, err := feedFromViper(v)
	if err != nil {
		return ServeConfig{}, err
	}
	cfg := ServeConfig{
		FeedConfig:      feed,
		Listen:          v.GetString("listen"),
		StaleTime:       v.GetDuration("stale-time"),
		RefetchInterval: v.GetDuration("refetch-interval"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
	}
	if cfg.Listen == "" {
		return ServeConfig{}, fmt.Errorf("listen address is required")
	}
	if cfg.RefetchInterval <= 0 {
		return ServeConfig{}, fmt.Errorf("refetch interval must be positive")
	}
	return cfg, nil
}
