// Package config defines all configuration for the market core and its
// demo host process. Config is loaded from a YAML file (default:
// configs/config.yaml) with sensitive and frequently-tuned fields
// overridable via MARKET_* environment variables, the same loader shape
// the teacher's internal/config/config.go used.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps directly to the YAML file structure.
type Config struct {
	Market    MarketConfig    `mapstructure:"market"`
	Tariff    TariffConfig    `mapstructure:"tariff"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	API       APIConfig       `mapstructure:"api"`
	Peers     PeersConfig     `mapstructure:"peers"`
}

// MarketConfig identifies the market instance and seeds its lifecycle.
//
//   - Name: used in log lines and snapshot file names.
//   - StartingCapital: denominated in DEFAULT; the ceiling new_random
//     partitions across the four kinds.
//   - InitQuantities: used by new_with_quantities when Seed == "fixed".
//   - Seed: "random" (new_random), "fixed" (new_with_quantities), or
//     "snapshot" (new_from_snapshot, falling back to new_random).
//   - RNGSeed: seeds the market's injected math/rand source; 0 means
//     "derive from wall-clock at startup" (handled by the host process).
type MarketConfig struct {
	Name             string         `mapstructure:"name"`
	Seed             string         `mapstructure:"seed"`
	RNGSeed          int64          `mapstructure:"rng_seed"`
	StartingCapital  float32        `mapstructure:"starting_capital"`
	InitQuantities   InitQuantities `mapstructure:"init_quantities"`
	SnapshotLoadPath string         `mapstructure:"snapshot_load_path"`
}

// InitQuantities seeds new_with_quantities directly.
type InitQuantities struct {
	Default float32 `mapstructure:"default"`
	A       float32 `mapstructure:"a"`
	B       float32 `mapstructure:"b"`
	C       float32 `mapstructure:"c"`
}

// TariffConfig tunes the pricing and tariff engines.
//
//   - Greed: the market's fixed multiplicative margin between buy and sell
//     rates; must be > 1.
//   - TimeDecay: per-tick multiplicative decay applied to non-DEFAULT
//     buy-rates; must be in (0, 1).
//   - Discount: the weekly discount window's multiplicative factor; must be
//     in (0, 1).
//   - TTLTicks: how many ticks a lock contract survives before expiry.
type TariffConfig struct {
	Greed     float32 `mapstructure:"greed"`
	TimeDecay float32 `mapstructure:"time_decay"`
	Discount  float32 `mapstructure:"discount"`
	TTLTicks  uint64  `mapstructure:"ttl_ticks"`
}

// StoreConfig sets where snapshots and the §6 log file are persisted, and
// how often the periodic snapshot scheduler (internal/snapshot) runs as a
// defensive backstop alongside the per-event persist.
type StoreConfig struct {
	SnapshotDir      string        `mapstructure:"snapshot_dir"`
	LogFile          string        `mapstructure:"log_file"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig controls the HTTP/WS transport surface (§4.8) a host process
// drives the market through.
type APIConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PeersConfig lists remote peer markets this instance notifies over HTTP
// when it emits events (internal/api.RemoteSubscriber), and the rate limit
// applied to that outbound traffic.
type PeersConfig struct {
	WebhookURLs       []string      `mapstructure:"webhook_urls"`
	NotifyRatePerSec  float64       `mapstructure:"notify_rate_per_sec"`
	NotifyBurst       int           `mapstructure:"notify_burst"`
	NotifyTimeout     time.Duration `mapstructure:"notify_timeout"`
}

// Load reads config from a YAML file with env var overrides.
// Env vars use the MARKET_ prefix, with "." replaced by "_", e.g.
// MARKET_TARIFF_GREED overrides tariff.greed.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if name := os.Getenv("MARKET_NAME"); name != "" {
		cfg.Market.Name = name
	}
	if seed := os.Getenv("MARKET_SEED"); seed != "" {
		cfg.Market.Seed = seed
	}

	return &cfg, nil
}

// Validate checks all required fields and value ranges.
func (c *Config) Validate() error {
	if c.Market.Name == "" {
		return fmt.Errorf("market.name is required")
	}
	switch c.Market.Seed {
	case "random", "fixed", "snapshot":
	default:
		return fmt.Errorf("market.seed must be one of: random, fixed, snapshot")
	}
	if c.Market.Seed == "random" && c.Market.StartingCapital <= 0 {
		return fmt.Errorf("market.starting_capital must be > 0 for seed=random")
	}
	if c.Tariff.Greed <= 1 {
		return fmt.Errorf("tariff.greed must be > 1")
	}
	if c.Tariff.TimeDecay <= 0 || c.Tariff.TimeDecay >= 1 {
		return fmt.Errorf("tariff.time_decay must be in (0, 1)")
	}
	if c.Tariff.Discount <= 0 || c.Tariff.Discount >= 1 {
		return fmt.Errorf("tariff.discount must be in (0, 1)")
	}
	if c.Tariff.TTLTicks == 0 {
		return fmt.Errorf("tariff.ttl_ticks must be > 0")
	}
	if c.Store.SnapshotDir == "" {
		return fmt.Errorf("store.snapshot_dir is required")
	}
	return nil
}
