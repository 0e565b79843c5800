// Package config loads droid-cli settings from a YAML file, an optional
// .env file and DROID_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/droid-cli/internal/extract"
	"github.com/mj1618/droid-cli/internal/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DROID_"

// Config is the full application configuration.
type Config struct {
	Extraction extract.Config `yaml:"extraction"`
	Log        logger.Config  `yaml:"log"`
	Store      StoreConfig    `yaml:"store"`
	Output     OutputConfig   `yaml:"output"`
	Server     ServerConfig   `yaml:"server"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	// PathRoots are the directories the extract tool may read dumps from.
	PathRoots []string `yaml:"path_roots"`
}

// StoreConfig selects where the MCP server keeps snapshots.
type StoreConfig struct {
	Driver string        `yaml:"driver"`
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig addresses the shared snapshot store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// OutputConfig holds the default output settings; command flags win.
type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Extraction: extract.DefaultConfig()}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (if non-empty), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{Extraction: extract.DefaultConfig()}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment files into the process environment. Missing
// files are skipped and variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.TTL == 0 {
		c.Store.TTL = 30 * time.Minute
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Store.Redis.KeyPrefix == "" {
		c.Store.Redis.KeyPrefix = "droid:snapshot:"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Output.Format == "" {
		c.Output.Format = "yaml"
	}
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("STORE_DRIVER", &c.Store.Driver)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	str("REDIS_KEY_PREFIX", &c.Store.Redis.KeyPrefix)
	str("OUTPUT_FORMAT", &c.Output.Format)
	if v, ok := lookup(EnvPrefix + "LOG_OUTPUT"); ok && v != "" {
		c.Log.OutputPaths = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "SERVER_PATH_ROOTS"); ok && v != "" {
		c.Server.PathRoots = strings.Split(v, ",")
	}

	var errs []error
	if v, ok := lookup(EnvPrefix + "STORE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSTORE_TTL: %w", EnvPrefix, err))
		}
		c.Store.TTL = d
	}
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err))
		}
		c.Store.Redis.DB = db
	}
	if v, ok := lookup(EnvPrefix + "OUTPUT_PRETTY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sOUTPUT_PRETTY: %w", EnvPrefix, err))
		}
		c.Output.Pretty = b
	}
	return errors.Join(errs...)
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Extraction.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("extraction: %w", err))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("store: unknown driver %q (expected memory or redis)", c.Store.Driver))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, fmt.Errorf("store: ttl must not be negative, got %s", c.Store.TTL))
	}
	switch c.Output.Format {
	case "yaml", "json", "agent":
	default:
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output.Format))
	}
	return errors.Join(errs...)
}
