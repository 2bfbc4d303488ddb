package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/actionbridge"
	"github.com/bft-labs/actionbridge/internal/adapters/fs"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/host"
)

func (c *cli) hostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Serve the classifier host over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			return c.runHost(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&c.cfg.Listen, "listen", c.cfg.Listen, "address to serve ipc calls on")
	return cmd
}

func (c *cli) runHost(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logAdapter.NewZerologAdapterWithLogger(c.log)
	repo := fs.NewClassifierFileRepository(c.cfg.StateDir)
	srv := host.NewServer(c.cfg.Listen, actionbridge.NewClassifierHost(repo, logger), logger)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("start host: %w", err)
	}
	c.log.Info().Str("listen", srv.Addr()).Str("state", repo.Path()).Msg("host listening")

	select {
	case <-srv.Done():
		return fmt.Errorf("host stopped: %w", srv.Err())
	case <-ctx.Done():
		c.log.Info().Msg("received signal, stopping...")
	}
	return srv.Stop()
}
