// Package config loads textuml settings from defaults, an optional config
// file, TEXTUML_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/textuml/pkg/cache"
	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/server"
)

// EnvPrefix prefixes every environment variable, e.g. TEXTUML_EXTRACTOR_URL.
const EnvPrefix = "TEXTUML"

// Keys.
const (
	KeyExtractorURL     = "extractor.url"
	KeyExtractorTimeout = "extractor.timeout"
	KeyExtractorLocal   = "extractor.local"
	KeyCacheDir         = "cache.dir"
	KeyCacheTTL         = "cache.ttl"
	KeyCacheRedisAddr   = "cache.redis_addr"
	KeyCacheDisabled    = "cache.disabled"
	KeyServerAddr       = "server.addr"
	KeyServerReadTO     = "server.read_timeout"
)

// Config represents the application configuration.
type Config struct {
	Extractor ExtractorConfig
	Cache     CacheConfig
	Server    ServerConfig
}

// ExtractorConfig selects and configures the extraction service.
type ExtractorConfig struct {
	URL     string
	Timeout time.Duration
	Local   bool // use the built-in heuristic extractor
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Dir       string
	TTL       time.Duration
	RedisAddr string // empty selects the file cache
	Disabled  bool
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string
	ReadTimeout time.Duration
}

// New returns a viper instance with defaults, environment binding and the
// first config file found. A missing config file is not an error.
func New() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("textuml")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// NewFromFile is New with an explicit config file.
func NewFromFile(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyExtractorURL, extract.DefaultURL)
	v.SetDefault(KeyExtractorTimeout, extract.DefaultTimeout)
	v.SetDefault(KeyExtractorLocal, false)
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyCacheTTL, 24*time.Hour)
	v.SetDefault(KeyCacheRedisAddr, "")
	v.SetDefault(KeyCacheDisabled, false)
	v.SetDefault(KeyServerAddr, server.DefaultAddr)
	v.SetDefault(KeyServerReadTO, server.DefaultReadTimeout)
}

func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "textuml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "textuml"))
	}
	return append(dirs, ".")
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Extractor: ExtractorConfig{
			URL:     v.GetString(KeyExtractorURL),
			Timeout: v.GetDuration(KeyExtractorTimeout),
			Local:   v.GetBool(KeyExtractorLocal),
		},
		Cache: CacheConfig{
			Dir:       v.GetString(KeyCacheDir),
			TTL:       v.GetDuration(KeyCacheTTL),
			RedisAddr: v.GetString(KeyCacheRedisAddr),
			Disabled:  v.GetBool(KeyCacheDisabled),
		},
		Server: ServerConfig{
			Addr:        v.GetString(KeyServerAddr),
			ReadTimeout: v.GetDuration(KeyServerReadTO),
		},
	}
	if cfg.Cache.Dir == "" {
		dir, err := cache.DefaultDir()
		if err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if !c.Extractor.Local {
		if c.Extractor.URL == "" {
			return fmt.Errorf("%s is required unless %s is set", KeyExtractorURL, KeyExtractorLocal)
		}
	}
	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyExtractorTimeout)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%s must not be negative", KeyCacheTTL)
	}
	return nil
}
