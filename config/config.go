package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "INSIGHTS"

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "config.yaml"

type Config struct {
	Addr               string `mapstructure:"addr" yaml:"addr"`
	DatasetPath        string `mapstructure:"dataset_path" yaml:"dataset_path"`
	DBPath             string `mapstructure:"db_path" yaml:"db_path"`
	Environment        string `mapstructure:"environment" yaml:"environment"`
	LogLevel           string `mapstructure:"log_level" yaml:"log_level"`
	GinMode            string `mapstructure:"gin_mode" yaml:"gin_mode"`
	FetchTimeoutSec    int    `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
	FetchMaxElapsedSec int    `mapstructure:"fetch_max_elapsed_sec" yaml:"fetch_max_elapsed_sec"`
	// ReloadSchedule is a 5-field cron expression; empty keeps the dataset
	// loaded once for the lifetime of the process.
	ReloadSchedule string `mapstructure:"reload_schedule" yaml:"reload_schedule"`
	GalleryLimit   int    `mapstructure:"gallery_limit" yaml:"gallery_limit"`
	CacheEntries   int    `mapstructure:"cache_entries" yaml:"cache_entries"`
}

func Defaults() Config {
	return Config{
		Addr:               ":8090",
		DatasetPath:        "data.json",
		DBPath:             "insights.db",
		Environment:        "local",
		LogLevel:           "info",
		GinMode:            "release",
		FetchTimeoutSec:    30,
		FetchMaxElapsedSec: 60,
		GalleryLimit:       12,
		CacheEntries:       128,
	}
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func (c Config) FetchMaxElapsed() time.Duration {
	return time.Duration(c.FetchMaxElapsedSec) * time.Second
}

// Load resolves configuration from defaults, the config file, .env and the
// environment. Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("dataset_path", d.DatasetPath)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("gin_mode", d.GinMode)
	v.SetDefault("fetch_timeout_sec", d.FetchTimeoutSec)
	v.SetDefault("fetch_max_elapsed_sec", d.FetchMaxElapsedSec)
	v.SetDefault("reload_schedule", d.ReloadSchedule)
	v.SetDefault("gallery_limit", d.GalleryLimit)
	v.SetDefault("cache_entries", d.CacheEntries)

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", DefaultFile, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.ReloadSchedule = strings.TrimSpace(c.ReloadSchedule)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DatasetPath) == "" {
		errs = append(errs, errors.New("dataset_path must not be empty"))
	}
	if c.FetchTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout_sec must be positive, got %d", c.FetchTimeoutSec))
	}
	if c.FetchMaxElapsedSec <= 0 {
		errs = append(errs, fmt.Errorf("fetch_max_elapsed_sec must be positive, got %d", c.FetchMaxElapsedSec))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("gin_mode must be debug, release or test, got %q", c.GinMode))
	}
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			errs = append(errs, fmt.Errorf("reload_schedule %q: %w", c.ReloadSchedule, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Save writes c as yaml to path.
func Save(c Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
