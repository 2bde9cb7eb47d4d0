// Package cli implements the watermark command-line interface.
//
// The commands embed payloads into watermark graphs, recover them, and turn
// graphs into pictures:
//   - encode: Build a watermark graph from a number, text, hex or file payload
//   - decode: Recover the payload of a graph file
//   - render: Draw a graph as DOT, SVG, PNG or JPEG
//   - inspect: Count edges by kind and show the parity state of every node
//   - cache: Manage the graph and payload cache
//   - config: Show or create the configuration file
//
// All commands support --verbose (-v) for debug-level logging. Settings come
// from a TOML file and are overridden by flags.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/asimos-bot/software-watermark/pkg/buildinfo"
	"github.com/asimos-bot/software-watermark/pkg/cache"
	"github.com/asimos-bot/software-watermark/pkg/observability"
	"github.com/asimos-bot/software-watermark/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "watermark"

	// cacheScope prefixes every cache key so entries written by an
	// incompatible encoding are never read back.
	cacheScope = "v1"

	// annotationSkipConfig marks commands that run without reading the
	// config file.
	annotationSkipConfig = "skip-config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	noCache    bool
	config     *Config
	registry   *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Watermark embeds numbers in Hamiltonian-path graphs",
		Long:          `Watermark encodes payloads as graphs whose shape, a Hamiltonian path with parity-chosen backedges, carries the bits. Graphs can be decoded back, rendered, and inspected.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if cmd.Annotations[annotationSkipConfig] != "" {
				return nil
			}
			return c.loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/watermark/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the graph and payload cache")

	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. When a metrics file is
// configured, codec and cache events are collected for writeMetrics.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cfg := c.settings()
	backend, err := newCache(cfg, c.noCache)
	if err != nil {
		return nil, err
	}
	if cfg.MetricsFile != "" && c.registry == nil {
		c.registry = prometheus.NewRegistry()
		hooks := observability.NewPrometheusHooks(c.registry)
		observability.SetCodecHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheScope)
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

func newCache(cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.CacheBackend == backendNone {
		return cache.NewNullCache(), nil
	}
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	if cfg.CacheBackend == backendBadger {
		bc, err := cache.NewBadgerCache(filepath.Join(dir, "badger"))
		if err != nil {
			return nil, err
		}
		return bc, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// writeMetrics dumps the collected metrics in the Prometheus text format.
func (c *CLI) writeMetrics() error {
	if c.registry == nil {
		return nil
	}
	path := c.settings().MetricsFile
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return err
	}
	c.Logger.Debug("Wrote metrics", "path", path)
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/watermark/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the configuration directory (~/.config/watermark/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
