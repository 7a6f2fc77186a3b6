package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jackielii/viewroutes"
	"github.com/jackielii/viewroutes/internal/server"
	"github.com/jackielii/viewroutes/internal/views"
	"github.com/spf13/cobra"
)

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the view route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			t := server.NewTable(cfg.BasePath, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err := t.MountPages(nil, views.Pages{}, "/", "Countries"); err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), viewroutes.PrintRoutes(t))
			return err
		},
	}
}
