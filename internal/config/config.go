// Package config loads the daemon configuration from defaults, an optional
// TOML file, and AUCTIOND_-prefixed environment variables, in that priority
// order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete auctiond configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage" mapstructure:"storage"`
	Rent     RentConfig     `toml:"rent" mapstructure:"rent"`
	Tree     TreeConfig     `toml:"tree" mapstructure:"tree"`
	RPC      RPCConfig      `toml:"rpc" mapstructure:"rpc"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`
	Receipts ReceiptsConfig `toml:"receipts" mapstructure:"receipts"`
}

// StorageConfig selects and locates the account-ledger backend.
type StorageConfig struct {
	// Backend is "bbolt" or "pebble".
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
}

// RentConfig prices record storage.
type RentConfig struct {
	Baseline uint64 `toml:"baseline" mapstructure:"baseline"`
	PerByte  uint64 `toml:"per_byte" mapstructure:"per_byte"`
}

// TreeConfig shapes the standalone in-process asset tree.
type TreeConfig struct {
	Depth  int `toml:"depth" mapstructure:"depth"`
	Canopy int `toml:"canopy" mapstructure:"canopy"`
}

// RPCConfig configures the JSON-RPC listener.
type RPCConfig struct {
	Listen string `toml:"listen" mapstructure:"listen"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `toml:"level" mapstructure:"level"`
	// Console switches from JSON lines to human-readable output.
	Console bool `toml:"console" mapstructure:"console"`
}

// ReceiptsConfig locates the sale-receipt journal. An empty path disables
// journaling.
type ReceiptsConfig struct {
	Path string `toml:"path" mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "bbolt")
	v.SetDefault("storage.path", "auctiond.db")
	v.SetDefault("rent.baseline", 890880)
	v.SetDefault("rent.per_byte", 6960)
	v.SetDefault("tree.depth", 14)
	v.SetDefault("tree.canopy", 0)
	v.SetDefault("rpc.listen", "127.0.0.1:7626")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("receipts.path", "receipts.db")
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("AUCTIOND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func Validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "bbolt", "pebble":
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage path cannot be empty")
	}
	if cfg.Tree.Depth < 1 || cfg.Tree.Depth > 30 {
		return fmt.Errorf("tree depth %d out of range [1,30]", cfg.Tree.Depth)
	}
	if cfg.Tree.Canopy < 0 || cfg.Tree.Canopy >= cfg.Tree.Depth {
		return fmt.Errorf("tree canopy %d must be in [0,%d)", cfg.Tree.Canopy, cfg.Tree.Depth)
	}
	if cfg.RPC.Listen == "" {
		return fmt.Errorf("rpc listen address cannot be empty")
	}
	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}
