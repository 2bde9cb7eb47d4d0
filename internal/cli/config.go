package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/pipeline"
	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

const configFile = "config.toml"

// Cache backends selectable in the config file.
const (
	backendFile   = "file"
	backendBadger = "badger"
	backendNone   = "none"
)

// Config is the on-disk CLI configuration. Flags override every field.
type Config struct {
	Scheme        string `toml:"scheme"`
	ParitySymbols int    `toml:"parity_symbols"`
	CacheBackend  string `toml:"cache_backend"`
	CacheDir      string `toml:"cache_dir,omitempty"`
	MetricsFile   string `toml:"metrics_file,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Scheme:        pipeline.DefaultScheme,
		ParitySymbols: pipeline.DefaultParitySymbols,
		CacheBackend:  backendFile,
	}
}

// LoadConfig reads the config file at path on top of the defaults. A
// missing file is an error only when required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := watermark.ParseScheme(c.Scheme); err != nil {
		return wmerrors.Wrap(wmerrors.ErrCodeInvalidConfig, err, "scheme")
	}
	if c.ParitySymbols < 0 || c.ParitySymbols > pipeline.MaxParitySymbols {
		return wmerrors.New(wmerrors.ErrCodeInvalidConfig, "parity_symbols %d out of range [0, %d]", c.ParitySymbols, pipeline.MaxParitySymbols)
	}
	switch c.CacheBackend {
	case backendFile, backendBadger, backendNone:
	default:
		return wmerrors.New(wmerrors.ErrCodeInvalidConfig, "cache_backend %q (must be %s, %s or %s)", c.CacheBackend, backendFile, backendBadger, backendNone)
	}
	return nil
}

// Encode returns the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// configPathOrDefault returns the --config path, or the default location
// and false when the flag is unset.
func (c *CLI) configPathOrDefault() (string, bool, error) {
	if c.configPath != "" {
		return c.configPath, true, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, configFile), false, nil
}

func (c *CLI) loadConfig() error {
	path, required, err := c.configPathOrDefault()
	if err != nil {
		c.config = DefaultConfig()
		return nil
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("Loaded config", "path", path, "scheme", cfg.Scheme, "cache", cfg.CacheBackend)
	return nil
}

// settings returns the loaded config, or the defaults before loading.
func (c *CLI) settings() *Config {
	if c.config == nil {
		return DefaultConfig()
	}
	return c.config
}

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file path",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := c.configPathOrDefault()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.settings().Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file with default settings",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := c.configPathOrDefault()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return wmerrors.New(wmerrors.ErrCodeInvalidConfig, "%s already exists (use --force to overwrite)", path)
			}
			data, err := DefaultConfig().Encode()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
