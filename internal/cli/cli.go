package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/textuml/internal/config"
	"github.com/matzehuels/textuml/pkg/cache"
	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "textuml"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrReported marks an error whose message has already been shown to the
// user. main exits non-zero without printing it again.
var ErrReported = stderrors.New("error already reported")

// flagKeys binds command-line flags onto configuration keys. A flag only
// takes part when the running command defines it.
var flagKeys = map[string]string{
	"extractor-url": config.KeyExtractorURL,
	"timeout":       config.KeyExtractorTimeout,
	"local":         config.KeyExtractorLocal,
	"no-cache":      config.KeyCacheDisabled,
	"cache-dir":     config.KeyCacheDir,
	"redis":         config.KeyCacheRedisAddr,
	"addr":          config.KeyServerAddr,
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration and layers the command's flags on top.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	var (
		v   *viper.Viper
		err error
	)
	if c.configFile != "" {
		v, err = config.NewFromFile(c.configFile)
	} else {
		v, err = config.New()
	}
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if used := v.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return nil
}

// settings returns the loaded configuration, loading defaults on first use
// outside a command.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		v, err := config.New()
		if err == nil {
			c.cfg, _ = config.Load(v)
		}
		if c.cfg == nil {
			c.cfg = &config.Config{Extractor: config.ExtractorConfig{URL: extract.DefaultURL, Timeout: extract.DefaultTimeout}}
		}
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	ex, err := c.newExtractor()
	if err != nil {
		ch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, ex, c.Logger)
	if ttl := c.settings().Cache.TTL; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.settings().Cache
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr)
		return rc, nil
	case cfg.Dir == "":
		c.Logger.Debug("no cache directory, caching disabled")
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(cfg.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

func (c *CLI) newExtractor() (extract.Extractor, error) {
	cfg := c.settings().Extractor
	if cfg.Local {
		return extract.Heuristic{}, nil
	}
	return extract.NewClient(cfg.URL, extract.WithTimeout(cfg.Timeout))
}

// endpoint names the extraction service for error messages.
func (c *CLI) endpoint() string {
	if c.settings().Extractor.Local {
		return "built-in extractor"
	}
	return c.settings().Extractor.URL
}

// =============================================================================
// Error Reporting
// =============================================================================

// fail prints the user-facing message for err and returns ErrReported.
// Cancellation passes through untouched so main can exit with 130.
func (c *CLI) fail(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	c.Logger.Debug("command failed", "err", err)
	printError("%s", userMessage(err, c.endpoint()))
	return ErrReported
}

// userMessage renders the message templates for the three failure kinds the
// user can act on.
func userMessage(err error, endpoint string) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeEmptyInput:
		return "Please enter some text first!"
	case errors.ErrCodeExtraction:
		return errors.UserMessage(err)
	case errors.ErrCodeTransport:
		return fmt.Sprintf("Cannot connect to the extraction service!\n\n"+
			"Make sure:\n"+
			"  1. The extraction service is running (or pass --local)\n"+
			"  2. It is reachable at %s\n\n"+
			"Error: %s", endpoint, transportCause(err))
	}
	return errors.UserMessage(err)
}

func transportCause(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Cause.Error()
	}
	return errors.UserMessage(err)
}
