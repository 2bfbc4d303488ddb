package cliconfig

import "os"

// EnvTimeout is the environment variable overriding the file timeout.
const EnvTimeout = "UMLBOARD_TIMEOUT"

// ApplyEnvConfig applies configuration from environment variables (UMLBOARD_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host-url", os.Getenv("UMLBOARD_HOST_URL"), &cfg.HostURL)
	s.setString("listen", os.Getenv("UMLBOARD_LISTEN"), &cfg.Listen)
	s.setString("state-dir", os.Getenv("UMLBOARD_STATE_DIR"), &cfg.StateDir)
	s.setString("log-level", os.Getenv("UMLBOARD_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv(EnvTimeout), &cfg.Timeout); err != nil {
		return err
	}

	s.setBoolFromString("embedded", os.Getenv("UMLBOARD_EMBEDDED"), &cfg.Embedded)

	return nil
}

// FileTimeoutApplies reports whether the config file's timeout is in effect,
// that is neither the timeout flag nor EnvTimeout overrides it.
func FileTimeoutApplies(changed map[string]bool) bool {
	return !changed["timeout"] && os.Getenv(EnvTimeout) == ""
}
