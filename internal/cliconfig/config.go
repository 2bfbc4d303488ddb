package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultListen is the address the host serves ipc calls on.
	DefaultListen = "127.0.0.1:7411"

	// DefaultHostURL is the base URL clients reach the host at.
	DefaultHostURL = "http://" + DefaultListen

	// DefaultTimeout bounds one ipc round trip.
	DefaultTimeout = 10 * time.Second
)

// Config holds CLI configuration for umlboard.
type Config struct {
	HostURL  string
	Listen   string
	StateDir string
	Timeout  time.Duration
	LogLevel string
	Embedded bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		HostURL:  DefaultHostURL,
		Listen:   DefaultListen,
		StateDir: "", // Derived from the home directory during Validate
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.HostURL == "" {
		c.HostURL = DefaultHostURL
	}
	c.HostURL = strings.TrimRight(c.HostURL, "/")
	if !strings.HasPrefix(c.HostURL, "http://") && !strings.HasPrefix(c.HostURL, "https://") {
		return fmt.Errorf("host-url must be an http(s) URL: %q", c.HostURL)
	}

	if c.Listen == "" {
		c.Listen = DefaultListen
	}

	if c.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return fmt.Errorf("state-dir is required: %w", err)
		}
		c.StateDir = dir
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log-level: %w", err)
	}
	return lvl, nil
}

func defaultStateDir() (string, error) {
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ".umlboard"), nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
