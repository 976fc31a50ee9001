// Package config loads the runtime settings of the mcurve tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/meenmo/mcurve/logging"
	"gopkg.in/yaml.v3"
)

// Config holds logging, fixing resolution, assembly and data source settings.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Fixings struct {
		// LookbackDays bounds the carry-forward search for a missing fixing; -1 disables it.
		LookbackDays int    `yaml:"lookback_days"`
		File         string `yaml:"file"`
	} `yaml:"fixings"`
	Assembler struct {
		// Concurrency bounds parallel specification and quote fetches; 0 means unbounded.
		Concurrency   int           `yaml:"concurrency"`
		QuoteCacheTTL time.Duration `yaml:"quote_cache_ttl"`
	} `yaml:"assembler"`
	MarketData struct {
		SnapshotFile string `yaml:"snapshot_file"`
		CalendarFile string `yaml:"calendar_file"`
	} `yaml:"market_data"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"redis"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (which may be empty or missing), applies MCURVE_* environment overrides and
// fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MCURVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MCURVE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("MCURVE_FIXINGS_FILE"); v != "" {
		c.Fixings.File = v
	}
	if v := os.Getenv("MCURVE_SNAPSHOT_FILE"); v != "" {
		c.MarketData.SnapshotFile = v
	}
	if v := os.Getenv("MCURVE_CALENDAR_FILE"); v != "" {
		c.MarketData.CalendarFile = v
	}
	if v := os.Getenv("MCURVE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MCURVE_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"MCURVE_LOOKBACK_DAYS", &c.Fixings.LookbackDays},
		{"MCURVE_CONCURRENCY", &c.Assembler.Concurrency},
		{"MCURVE_REDIS_DB", &c.Redis.DB},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
		*e.dst = n
	}
	if v := os.Getenv("MCURVE_QUOTE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MCURVE_QUOTE_CACHE_TTL: %w", err)
		}
		c.Assembler.QuoteCacheTTL = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Fixings.LookbackDays == 0 {
		c.Fixings.LookbackDays = 7
	}
	if c.Assembler.Concurrency == 0 {
		c.Assembler.Concurrency = 4
	}
	if c.Assembler.QuoteCacheTTL == 0 {
		c.Assembler.QuoteCacheTTL = 5 * time.Minute
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "fixings:"
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json")
	}
	if c.Fixings.LookbackDays < -1 {
		return fmt.Errorf("fixings.lookback_days must be -1 or more")
	}
	if c.Assembler.Concurrency < 0 {
		return fmt.Errorf("assembler.concurrency must not be negative")
	}
	if c.Assembler.QuoteCacheTTL < 0 {
		return fmt.Errorf("assembler.quote_cache_ttl must not be negative")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}
	return nil
}
