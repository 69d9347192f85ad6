package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/aevon-lab/nrega-dashboard/internal/core/targets"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "dashboard.yaml"

const envPrefix = "DASHBOARD_"

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the top-level application config plus the resolved sync schedule.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Store    StoreConfig    `koanf:"store"`
	Sync     SyncConfig     `koanf:"sync"`

	// Targets is populated by Load: the default region first, then the catalogue.
	Targets []targets.Target `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	Mode          string `koanf:"mode"`      // debug | release
	LogLevel      string `koanf:"log_level"` // debug | info | warn | error
	MaxBodySizeKB int    `koanf:"max_body_size_kb"`
}

type UpstreamConfig struct {
	BaseURL          string `koanf:"base_url"`
	ResourceID       string `koanf:"resource_id"`
	APIKey           string `koanf:"api_key"`
	Format           string `koanf:"format"`
	PageLimit        int    `koanf:"page_limit"`
	Timeout          string `koanf:"timeout"` // parsed and validated on startup
	MaxAttempts      int    `koanf:"max_attempts"`
	FallbackAttempts int    `koanf:"fallback_attempts"`
	BackoffStep      string `koanf:"backoff_step"`
	MaxResponseMB    int    `koanf:"max_response_mb"`
}

type StoreConfig struct {
	Backend      string `koanf:"backend"` // file | postgres | redis
	Path         string `koanf:"path"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
	RedisURL     string `koanf:"redis_url"`
	RedisKey     string `koanf:"redis_key"`
}

type SyncConfig struct {
	DefaultRegion string `koanf:"default_region"`
	Interval      string `koanf:"interval"`
	Enabled       bool   `koanf:"enabled"`
	ColdStart     bool   `koanf:"cold_start"`
	MergePolicy   string `koanf:"merge_policy"`
	TargetsDir    string `koanf:"targets_dir"`
}

// TimeoutDuration is the per-attempt upstream timeout. Call after Validate.
func (c UpstreamConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BackoffStepDuration is the linear backoff unit. Call after Validate.
func (c UpstreamConfig) BackoffStepDuration() time.Duration {
	d, _ := time.ParseDuration(c.BackoffStep)
	return d
}

// MaxResponseBytes converts the MB cap to bytes.
func (c UpstreamConfig) MaxResponseBytes() int64 {
	return int64(c.MaxResponseMB) << 20
}

// IntervalDuration is the schedule period. Call after Validate.
func (c SyncConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// Addr is the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid server.log_level %q", c.Server.LogLevel)
	}
	if c.Server.MaxBodySizeKB <= 0 {
		return fmt.Errorf("server.max_body_size_kb must be > 0")
	}

	if _, err := url.ParseRequestURI(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("invalid upstream.base_url %q: %w", c.Upstream.BaseURL, err)
	}
	if strings.TrimSpace(c.Upstream.ResourceID) == "" {
		return fmt.Errorf("upstream.resource_id is required")
	}
	if c.Upstream.PageLimit <= 0 {
		return fmt.Errorf("upstream.page_limit must be > 0")
	}
	if err := positiveDuration("upstream.timeout", c.Upstream.Timeout); err != nil {
		return err
	}
	if err := positiveDuration("upstream.backoff_step", c.Upstream.BackoffStep); err != nil {
		return err
	}
	if c.Upstream.MaxAttempts <= 0 {
		return fmt.Errorf("upstream.max_attempts must be > 0")
	}
	if c.Upstream.FallbackAttempts <= 0 {
		return fmt.Errorf("upstream.fallback_attempts must be > 0")
	}
	if c.Upstream.MaxResponseMB <= 0 {
		return fmt.Errorf("upstream.max_response_mb must be > 0")
	}

	switch c.Store.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the file backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for the postgres backend")
		}
		if c.Store.MaxOpenConns <= 0 {
			return fmt.Errorf("store.max_open_conns must be > 0")
		}
		if c.Store.MaxIdleConns <= 0 {
			return fmt.Errorf("store.max_idle_conns must be > 0")
		}
	case BackendRedis:
		if strings.TrimSpace(c.Store.RedisURL) == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported store.backend %q", c.Store.Backend)
	}

	if strings.TrimSpace(c.Sync.DefaultRegion) == "" {
		return fmt.Errorf("sync.default_region is required")
	}
	if err := positiveDuration("sync.interval", c.Sync.Interval); err != nil {
		return err
	}
	if _, err := storage.ParseMergePolicy(c.Sync.MergePolicy); err != nil {
		return fmt.Errorf("invalid sync.merge_policy: %w", err)
	}

	return nil
}

func positiveDuration(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be > 0", key)
	}
	return nil
}

// Load parses config from defaults, file and env, validates it, then loads the sync targets.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                5000,
		"server.host":                "0.0.0.0",
		"server.mode":                "release",
		"server.log_level":           "info",
		"server.max_body_size_kb":    16,
		"upstream.base_url":          "https://api.data.gov.in/resource",
		"upstream.resource_id":       "ee03643a-ee4c-48c2-ac30-9f2ff26ab722",
		"upstream.api_key":           "",
		"upstream.format":            "json",
		"upstream.page_limit":        1000,
		"upstream.timeout":           "20s",
		"upstream.max_attempts":      3,
		"upstream.fallback_attempts": 2,
		"upstream.backoff_step":      "2s",
		"upstream.max_response_mb":   100,
		"store.backend":              BackendFile,
		"store.path":                 "db.json",
		"store.dsn":                  "",
		"store.max_open_conns":       10,
		"store.max_idle_conns":       5,
		"store.auto_migrate":         true,
		"store.redis_url":            "",
		"store.redis_key":            "nrega:store:snapshot",
		"sync.default_region":        "UTTAR PRADESH",
		"sync.interval":              "6h",
		"sync.enabled":               true,
		"sync.cold_start":            true,
		"sync.merge_policy":          string(storage.PreferFetched),
		"sync.targets_dir":           "./config/targets",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if !(configPath == DefaultPath && errors.Is(err, fs.ErrNotExist)) {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalogue, err := targets.LoadDir(cfg.Sync.TargetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync targets: %w", err)
	}
	cfg.Targets = targets.WithDefault(cfg.Sync.DefaultRegion, catalogue)

	return &cfg, nil
}

// fileExists is used by callers that want to report which config file was read.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Source describes where configuration came from, for the startup log.
func Source(configPath string) string {
	if configPath != "" && fileExists(configPath) {
		return configPath
	}
	return "defaults+env"
}
