// Package config loads the fsh configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// DefaultPrompt mirrors the prompt of the original command line interpreter.
const DefaultPrompt = "cli:~$ "

// ErrConfig marks every configuration problem.
var ErrConfig = errors.New("invalid configuration")

// Config is the top level of config.toml.
type Config struct {
	Prompt      string `toml:"prompt"`
	Root        string `toml:"root"`
	Home        string `toml:"home"`
	HistoryFile string `toml:"history_file"`
	Color       *bool  `toml:"color"`
	LogLevel    string `toml:"log_level"`
}

// DefaultPath returns ~/.config/fsh/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "fsh", "config.toml")
}

// Load parses the file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: %w: %w", ErrConfig, err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsColor reports whether diagnostics should be styled.
func (c *Config) IsColor() bool {
	if c.Color == nil {
		return true
	}
	return *c.Color
}

// Level returns the parsed log level. validate guarantees it parses.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

func (c *Config) applyDefaults() error {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.Color == nil {
		t := true
		c.Color = &t
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
		c.Root = wd
	}
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = c.Root
		}
		c.Home = home
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config.Load: %w: log_level %q", ErrConfig, c.LogLevel)
	}
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("config.Load: %w: root %q must be absolute", ErrConfig, c.Root)
	}
	if !filepath.IsAbs(c.Home) {
		return fmt.Errorf("config.Load: %w: home %q must be absolute", ErrConfig, c.Home)
	}
	return nil
}
