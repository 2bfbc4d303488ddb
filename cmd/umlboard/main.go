package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/actionbridge/internal/cliconfig"
)

const longHelp = `
umlboard edits a UML classifier name in the terminal while a separate host
process owns the saved value. Every change is applied locally at once and
confirmed or rolled back when the host answers over the ipc_message call.

Configure via $HOME/.umlboard/config.toml, UMLBOARD_* environment variables,
or flags (flags win over the environment, which wins over the file).
`

var exampleUsage = strings.TrimSpace(`
  umlboard host --listen 127.0.0.1:7411
  umlboard client --host-url http://127.0.0.1:7411
  umlboard client --embedded
  umlboard send classifier/renameClassifier '{"newName":"Alice"}'
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the configuration shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger

	// changed holds the flags set on the command line.
	changed map[string]bool
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		log: cliconfig.Logger(),
	}

	root := &cobra.Command{
		Use:           "umlboard",
		Short:         "Edit a classifier name against a host process",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.umlboard/config.toml)")
	pf.StringVar(&c.cfg.HostURL, "host-url", c.cfg.HostURL, "base URL of the host")
	pf.StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory for host state and client logs (default: $HOME/.umlboard)")
	pf.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "timeout for one ipc round trip")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(c.hostCommand(), c.clientCommand(), c.sendCommand())

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("umlboard")
		os.Exit(1)
	}
}

// configPath returns the config file in effect, or "" when there is none.
func (c *cli) configPath() string {
	if c.cfgPath != "" {
		return c.cfgPath
	}
	return cliconfig.DefaultConfigPath()
}

// load applies the config file and environment under the flags set on cmd,
// then validates the result and sets the log level.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	c.changed = changed

	cfgFile := c.configPath()
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file not found: %s", c.cfgPath)
	}

	// Environment overrides the file; flags override both.
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	lvl, err := c.cfg.Level()
	if err != nil {
		return err
	}
	c.log = c.log.Level(lvl)
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}
