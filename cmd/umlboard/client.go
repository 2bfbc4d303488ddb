package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/actionbridge"
	"github.com/bft-labs/actionbridge/internal/adapters/fs"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/cliconfig"
	"github.com/bft-labs/actionbridge/internal/configwatch"
	"github.com/bft-labs/actionbridge/internal/ports"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
	"github.com/bft-labs/actionbridge/internal/tui"
)

func (c *cli) clientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Open the terminal editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			return c.runClient(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&c.cfg.Embedded, "embedded", c.cfg.Embedded, "run the host in-process instead of dialing host-url")
	return cmd
}

func (c *cli) runClient(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the UI; logs go to a file.
	if err := os.MkdirAll(c.cfg.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(c.cfg.StateDir, "client.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logAdapter.NewZerologAdapterWithLogger(cliconfig.NewLogger(logFile).Level(c.log.GetLevel()))

	opts := []actionbridge.Option{actionbridge.WithLogger(logger)}
	if c.cfg.Embedded {
		repo := fs.NewClassifierFileRepository(c.cfg.StateDir)
		opts = append(opts, actionbridge.WithHost(actionbridge.NewClassifierHost(repo, logger)))
	}

	client, err := actionbridge.New(actionbridge.Config{HostURL: c.cfg.HostURL, Timeout: c.cfg.Timeout}, opts...)
	if err != nil {
		return err
	}
	if err := client.Use(classifier.Register); err != nil {
		return err
	}

	if path := c.configPath(); path != "" && cliconfig.FileExists(path) {
		wcfg := configwatch.DefaultConfig()
		wcfg.Changed = c.changed
		w := configwatch.New(path, wcfg, client, logger)
		if err := w.Start(ctx); err != nil {
			logger.Warn("config watcher disabled", ports.Err(err))
		} else {
			defer w.Stop()
		}
	}

	return tui.Run(ctx, client.Store(), client.Bridge())
}
