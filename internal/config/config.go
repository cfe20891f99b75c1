package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigOption describes one setting: its key, default and flag usage.
type ConfigOption struct {
	Key         string
	Flag        string
	Default     any
	Description string
}

const (
	KeyCacheDefaultTTL    = "cache.default_ttl"
	KeyCacheSweepInterval = "cache.sweep_interval"
	KeyDemoShortTTL       = "demo.short_ttl"
	KeyDemoReportInterval = "demo.report_interval"
	KeyDemoDuration       = "demo.duration"
	KeyLogLevel           = "log.level"
)

var DemoOptions = []ConfigOption{
	{Key: KeyCacheDefaultTTL, Flag: flag(KeyCacheDefaultTTL), Default: 50 * time.Second, Description: "Default item ttl, 0 means items never expire"},
	{Key: KeyCacheSweepInterval, Flag: flag(KeyCacheSweepInterval), Default: time.Second, Description: "Expired items sweep interval, 0 disables the janitor"},
	{Key: KeyDemoShortTTL, Flag: flag(KeyDemoShortTTL), Default: 20 * time.Second, Description: "Ttl of the short lived item"},
	{Key: KeyDemoReportInterval, Flag: flag(KeyDemoReportInterval), Default: 5 * time.Second, Description: "Interval between cache state reports"},
	{Key: KeyDemoDuration, Flag: flag(KeyDemoDuration), Default: 60 * time.Second, Description: "Total demo run time"},
	{Key: KeyLogLevel, Flag: flag(KeyLogLevel), Default: "info", Description: "Log level (debug, info, warn, error)"},
}

// Config holds settings merged from defaults, config file, env and flags.
type Config struct {
	v *viper.Viper
}

// New reads ttlcache.yaml from the working directory or /etc/ttlcache/ if present
// and overlays TTLCACHE_* environment variables.
func New() (*Config, error) {
	v := viper.New()

	// default values
	for _, o := range DemoOptions {
		v.SetDefault(o.Key, o.Default)
	}

	// load config from file
	v.SetConfigName("ttlcache")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ttlcache/")

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !(errors.As(err, &notFoundErr) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// load config from environment variables
	v.SetEnvPrefix("TTLCACHE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Config{v: v}, nil
}

// BindFlags registers options as flags on fs, flags win over other sources.
func (c *Config) BindFlags(fs *pflag.FlagSet, options []ConfigOption) error {
	for _, o := range options {
		switch v := o.Default.(type) {
		case string:
			fs.String(o.Flag, v, o.Description)
		case int:
			fs.Int(o.Flag, v, o.Description)
		case bool:
			fs.Bool(o.Flag, v, o.Description)
		case time.Duration:
			fs.Duration(o.Flag, v, o.Description)
		default:
			return fmt.Errorf("unsupported flag type for key: %s", o.Key)
		}

		if err := c.v.BindPFlag(o.Key, fs.Lookup(o.Flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", o.Flag, err)
		}
	}

	return nil
}

func (c *Config) CacheDefaultTTL() time.Duration {
	return c.v.GetDuration(KeyCacheDefaultTTL) // TTLCACHE_CACHE_DEFAULT_TTL
}

func (c *Config) CacheSweepInterval() time.Duration {
	return c.v.GetDuration(KeyCacheSweepInterval) // TTLCACHE_CACHE_SWEEP_INTERVAL
}

func (c *Config) DemoShortTTL() time.Duration {
	return c.v.GetDuration(KeyDemoShortTTL) // TTLCACHE_DEMO_SHORT_TTL
}

func (c *Config) DemoReportInterval() time.Duration {
	return c.v.GetDuration(KeyDemoReportInterval) // TTLCACHE_DEMO_REPORT_INTERVAL
}

func (c *Config) DemoDuration() time.Duration {
	return c.v.GetDuration(KeyDemoDuration) // TTLCACHE_DEMO_DURATION
}

func (c *Config) LogLevel() string {
	return c.v.GetString(KeyLogLevel) // TTLCACHE_LOG_LEVEL
}

func flag(key string) string {
	flag := strings.ToLower(key)
	flag = strings.ReplaceAll(flag, ".", "-")
	flag = strings.ReplaceAll(flag, "_", "-")
	flag = strings.TrimPrefix(flag, "demo-")
	return flag
}
