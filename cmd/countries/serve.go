package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackielii/viewroutes/internal/countries"
	"github.com/jackielii/viewroutes/internal/logging"
	"github.com/jackielii/viewroutes/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx)
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(&cfg.Logging)

	client := countries.NewClient(cfg.Countries.APIURL, cfg.Countries.TimeoutDuration())
	svc := countries.NewService(client, cfg.Countries.CacheTTLDuration(), logger)

	srv, err := server.New(cfg, svc, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
